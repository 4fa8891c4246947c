package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kakeibo/internal/api/middleware"
	"kakeibo/internal/domain"
)

// BudgetsHandler manages per-category spending limits.
type BudgetsHandler struct {
	repo BudgetRepository
	log  zerolog.Logger
}

func NewBudgetsHandler(repo BudgetRepository, log zerolog.Logger) *BudgetsHandler {
	return &BudgetsHandler{repo: repo, log: log}
}

// List handles GET /api/budgets.
func (h *BudgetsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	budgets, err := h.repo.ListForUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list budgets")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, budgets)
}

type upsertBudgetRequest struct {
	CategoryID  *string `json:"category_id"`
	Period      string  `json:"period"`
	AmountLimit int     `json:"amount_limit"`
}

// Upsert handles PUT /api/budgets: creates or updates the budget for the
// given (category, period) scope. A null category_id means an overall budget.
func (h *BudgetsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req upsertBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var issues []middleware.FieldIssue
	period := domain.BudgetPeriod(req.Period)
	if req.Period == "" {
		period = domain.PeriodMonthly
	} else if !period.Valid() {
		issues = append(issues, middleware.FieldIssue{Field: "period", Message: "must be weekly, monthly or yearly"})
	}
	if req.AmountLimit <= 0 {
		issues = append(issues, middleware.FieldIssue{Field: "amount_limit", Message: "must be a positive integer"})
	}
	var categoryID *uuid.UUID
	if req.CategoryID != nil && *req.CategoryID != "" {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			issues = append(issues, middleware.FieldIssue{Field: "category_id", Message: "must be a valid UUID"})
		} else {
			categoryID = &id
		}
	}
	if len(issues) > 0 {
		middleware.WriteValidationError(w, issues)
		return
	}

	budget := &domain.Budget{
		UserID:      userID,
		CategoryID:  categoryID,
		Period:      period,
		AmountLimit: req.AmountLimit,
	}
	if err := h.repo.Upsert(r.Context(), budget); err != nil {
		h.log.Error().Err(err).Msg("Failed to upsert budget")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, budget)
}
