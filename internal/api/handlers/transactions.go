package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kakeibo/internal/api/middleware"
	"kakeibo/internal/dedup"
	"kakeibo/internal/domain"
	"kakeibo/internal/store"
)

const (
	defaultPageSize = 50
	// recentWindow bounds how many existing transactions the duplicate
	// check compares against.
	recentWindow = 500
)

// TransactionsHandler serves the transaction CRUD surface and the review
// queue.
type TransactionsHandler struct {
	repo TransactionRepository
	log  zerolog.Logger
}

func NewTransactionsHandler(repo TransactionRepository, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{repo: repo, log: log}
}

// List handles GET /api/transactions?limit=&offset=
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := queryInt(r, "limit", defaultPageSize)
	offset := queryInt(r, "offset", 0)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	txs, err := h.repo.List(r.Context(), userID, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, txs)
}

// ListReview handles GET /api/transactions/review
func (h *TransactionsHandler) ListReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	txs, err := h.repo.ListReview(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list review queue")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, txs)
}

type createTransactionRequest struct {
	Amount      int     `json:"amount"`
	Type        string  `json:"type"`
	CategoryID  *string `json:"category_id"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Source      *string `json:"source"`
	Status      *string `json:"status"`
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	tx, issues := buildTransaction(userID, req)
	if len(issues) > 0 {
		middleware.WriteValidationError(w, issues)
		return
	}

	if err := h.repo.Create(r.Context(), tx); err != nil {
		h.log.Error().Err(err).Msg("Failed to create transaction")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// buildTransaction validates the request and assembles the row, reporting
// every field problem rather than stopping at the first.
func buildTransaction(userID uuid.UUID, req createTransactionRequest) (*domain.Transaction, []middleware.FieldIssue) {
	var issues []middleware.FieldIssue

	if req.Amount <= 0 {
		issues = append(issues, middleware.FieldIssue{Field: "amount", Message: "must be a positive integer"})
	}
	txType := domain.TransactionType(req.Type)
	if !txType.Valid() {
		issues = append(issues, middleware.FieldIssue{Field: "type", Message: `must be "income" or "expense"`})
	}

	var categoryID *uuid.UUID
	if req.CategoryID != nil && *req.CategoryID != "" {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			issues = append(issues, middleware.FieldIssue{Field: "category_id", Message: "must be a UUID"})
		} else {
			categoryID = &id
		}
	}

	if req.Description != nil && len(*req.Description) > 500 {
		issues = append(issues, middleware.FieldIssue{Field: "description", Message: "must be at most 500 characters"})
	}

	date := time.Now()
	if req.Date != nil && *req.Date != "" {
		parsed, err := parseISODate(*req.Date)
		if err != nil {
			issues = append(issues, middleware.FieldIssue{Field: "date", Message: "must be an ISO 8601 date"})
		} else {
			date = parsed
		}
	}

	source := domain.SourceManual
	if req.Source != nil && *req.Source != "" {
		source = domain.TransactionSource(*req.Source)
		if !source.Valid() {
			issues = append(issues, middleware.FieldIssue{Field: "source", Message: `must be "manual", "ocr" or "gmail_auto"`})
		}
	}

	status := domain.StatusConfirmed
	if req.Status != nil && *req.Status != "" {
		status = domain.TransactionStatus(*req.Status)
		if !status.Valid() {
			issues = append(issues, middleware.FieldIssue{Field: "status", Message: `must be "confirmed" or "review_needed"`})
		}
	}

	if len(issues) > 0 {
		return nil, issues
	}

	return &domain.Transaction{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        txType,
		CategoryID:  categoryID,
		Description: req.Description,
		Date:        date,
		Status:      status,
		Source:      source,
	}, nil
}

type updateTransactionRequest struct {
	Amount      *int    `json:"amount"`
	Type        *string `json:"type"`
	CategoryID  *string `json:"category_id"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Status      *string `json:"status"`
}

// Update handles PUT /api/transactions/{id}. Approving a review-queue
// entry is an update setting status to "confirmed".
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	txID, err := uuid.Parse(id)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	updates, issues := buildUpdates(req)
	if len(issues) > 0 {
		middleware.WriteValidationError(w, issues)
		return
	}
	if len(updates) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	tx, err := h.repo.Update(r.Context(), userID, txID, updates)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to update transaction")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tx)
}

func buildUpdates(req updateTransactionRequest) (map[string]interface{}, []middleware.FieldIssue) {
	var issues []middleware.FieldIssue
	updates := make(map[string]interface{})

	if req.Amount != nil {
		if *req.Amount <= 0 {
			issues = append(issues, middleware.FieldIssue{Field: "amount", Message: "must be a positive integer"})
		} else {
			updates["amount"] = *req.Amount
		}
	}
	if req.Type != nil {
		if !domain.TransactionType(*req.Type).Valid() {
			issues = append(issues, middleware.FieldIssue{Field: "type", Message: `must be "income" or "expense"`})
		} else {
			updates["type"] = *req.Type
		}
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			updates["category_id"] = nil
		} else if id, err := uuid.Parse(*req.CategoryID); err != nil {
			issues = append(issues, middleware.FieldIssue{Field: "category_id", Message: "must be a UUID"})
		} else {
			updates["category_id"] = id
		}
	}
	if req.Description != nil {
		if len(*req.Description) > 500 {
			issues = append(issues, middleware.FieldIssue{Field: "description", Message: "must be at most 500 characters"})
		} else {
			updates["description"] = *req.Description
		}
	}
	if req.Date != nil {
		if parsed, err := parseISODate(*req.Date); err != nil {
			issues = append(issues, middleware.FieldIssue{Field: "date", Message: "must be an ISO 8601 date"})
		} else {
			updates["date"] = parsed
		}
	}
	if req.Status != nil {
		if !domain.TransactionStatus(*req.Status).Valid() {
			issues = append(issues, middleware.FieldIssue{Field: "status", Message: `must be "confirmed" or "review_needed"`})
		} else {
			updates["status"] = *req.Status
		}
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return updates, nil
}

// Delete handles DELETE /api/transactions/{id}. Rejecting a review-queue
// entry deletes it.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	txID, err := uuid.Parse(id)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	if err := h.repo.Delete(r.Context(), userID, txID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to delete transaction")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type checkDuplicatesRequest struct {
	Candidates []dedup.Candidate `json:"candidates"`
}

// CheckDuplicates handles POST /api/transactions/check-duplicates: it
// compares extracted candidates against the user's recent transactions and
// returns them, order preserved, with duplicate flags.
func (h *TransactionsHandler) CheckDuplicates(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req checkDuplicatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	recent, err := h.repo.ListRecent(r.Context(), userID, recentWindow)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load recent transactions")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	existing := make([]dedup.Existing, 0, len(recent))
	for _, tx := range recent {
		desc := ""
		if tx.Description != nil {
			desc = *tx.Description
		}
		existing = append(existing, dedup.Existing{
			Amount:      tx.Amount,
			Description: desc,
			Date:        tx.Date.Format(time.RFC3339),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": dedup.Detect(req.Candidates, existing),
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// parseISODate accepts the ISO 8601 shapes clients send: full RFC 3339
// timestamps or bare dates.
func parseISODate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parseISODate: unrecognized date %q", s)
}
