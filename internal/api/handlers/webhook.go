package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kakeibo/internal/api/middleware"
	"kakeibo/internal/domain"
	"kakeibo/internal/extract"
	"kakeibo/internal/store"
)

// WebhookHandler ingests forwarded notification emails from the mail relay.
// Authentication is a shared secret header rather than a session cookie.
type WebhookHandler struct {
	secret       string
	users        UserRepository
	categories   CategoryRepository
	transactions TransactionRepository
	extractor    EmailExtractor
	log          zerolog.Logger
}

func NewWebhookHandler(
	secret string,
	users UserRepository,
	categories CategoryRepository,
	transactions TransactionRepository,
	extractor EmailExtractor,
	log zerolog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		secret:       secret,
		users:        users,
		categories:   categories,
		transactions: transactions,
		extractor:    extractor,
		log:          log,
	}
}

type ingestRequest struct {
	UserEmail string `json:"user_email"`
	Subject   string `json:"email_subject"`
	Body      string `json:"email_body"`
	Source    string `json:"source"`
}

type ingestResponse struct {
	Success     bool                `json:"success"`
	Transaction *domain.Transaction `json:"transaction"`
	Confidence  float64             `json:"confidence"`
}

// Ingest handles POST /api/webhooks/ingest.
func (h *WebhookHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get("X-Webhook-Secret")
	// An unset server secret disables the endpoint rather than opening it.
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserEmail == "" || req.Body == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	source := domain.SourceGmailAuto
	if req.Source != "" {
		source = domain.TransactionSource(req.Source)
		if !source.Valid() {
			middleware.WriteError(w, http.StatusBadRequest, `source must be "manual", "ocr" or "gmail_auto"`)
			return
		}
	}

	user, err := h.users.FindByEmail(r.Context(), req.UserEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error().Err(err).Msg("Failed to look up user")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	extracted, err := h.extractor.ExtractFromEmail(r.Context(), req.Subject, req.Body)
	if err != nil {
		h.log.Error().Err(err).Str("user_email", req.UserEmail).Msg("Failed to extract transaction from email")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to extract transaction")
		return
	}

	tx := h.buildTransaction(r.Context(), user.ID, source, extracted)
	if err := h.transactions.Create(r.Context(), tx); err != nil {
		h.log.Error().Err(err).Msg("Failed to create transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	h.log.Info().
		Str("user_id", user.ID.String()).
		Str("transaction_id", tx.ID.String()).
		Float64("confidence", extracted.Confidence).
		Str("status", string(tx.Status)).
		Msg("Ingested email transaction")

	middleware.WriteJSON(w, http.StatusCreated, ingestResponse{
		Success:     true,
		Transaction: tx,
		Confidence:  extracted.Confidence,
	})
}

// buildTransaction maps an extraction onto a transaction row, resolving
// the suggested category against the default set.
func (h *WebhookHandler) buildTransaction(ctx context.Context, userID uuid.UUID, source domain.TransactionSource, extracted *extract.EmailTransaction) *domain.Transaction {
	txType := domain.TransactionType(extracted.Type)
	if !txType.Valid() {
		txType = domain.TypeExpense
	}

	var categoryID *uuid.UUID
	if extracted.SuggestedCategory != nil && *extracted.SuggestedCategory != "" {
		cat, err := h.categories.FindDefaultByName(ctx, *extracted.SuggestedCategory)
		switch {
		case err == nil:
			categoryID = &cat.ID
		case errors.Is(err, store.ErrNotFound):
			// Unknown category name from the model; leave uncategorized.
		default:
			h.log.Warn().Err(err).Msg("Failed to resolve suggested category")
		}
	}

	date := time.Now()
	if extracted.Date != "" {
		if parsed, err := parseISODate(extracted.Date); err == nil {
			date = parsed
		}
	}

	var description *string
	if extracted.Description != "" {
		description = &extracted.Description
	}

	return &domain.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      extracted.Amount,
		Type:        txType,
		CategoryID:  categoryID,
		Description: description,
		Date:        date,
		Status:      extract.StatusFor(extracted.Confidence),
		Source:      source,
	}
}
