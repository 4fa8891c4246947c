package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kakeibo/internal/domain"
)

func TestBudgetsList(t *testing.T) {
	userID := uuid.New()
	repo := &fakeBudgetRepo{budgets: []domain.Budget{
		{ID: uuid.New(), UserID: userID, Period: domain.PeriodMonthly, AmountLimit: 50000},
	}}
	h := NewBudgetsHandler(repo, zerolog.Nop())

	w := httptest.NewRecorder()
	h.List(w, authedRequest(http.MethodGet, "/api/budgets", nil, userID))

	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.Budget
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestBudgetsUpsert(t *testing.T) {
	userID := uuid.New()
	catID := uuid.New()
	repo := &fakeBudgetRepo{}
	h := NewBudgetsHandler(repo, zerolog.Nop())

	body, _ := json.Marshal(map[string]interface{}{
		"category_id":  catID.String(),
		"period":       "monthly",
		"amount_limit": 30000,
	})
	w := httptest.NewRecorder()
	h.Upsert(w, authedRequest(http.MethodPut, "/api/budgets", body, userID))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, userID, repo.upserted.UserID)
	require.NotNil(t, repo.upserted.CategoryID)
	assert.Equal(t, catID, *repo.upserted.CategoryID)
	assert.Equal(t, 30000, repo.upserted.AmountLimit)
}

func TestBudgetsUpsertOverall(t *testing.T) {
	repo := &fakeBudgetRepo{}
	h := NewBudgetsHandler(repo, zerolog.Nop())

	body, _ := json.Marshal(map[string]interface{}{"amount_limit": 100000})
	w := httptest.NewRecorder()
	h.Upsert(w, authedRequest(http.MethodPut, "/api/budgets", body, uuid.New()))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.upserted)
	assert.Nil(t, repo.upserted.CategoryID)
	assert.Equal(t, domain.PeriodMonthly, repo.upserted.Period)
}

func TestBudgetsUpsertValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"zero amount", map[string]interface{}{"amount_limit": 0}},
		{"bad period", map[string]interface{}{"amount_limit": 1000, "period": "daily"}},
		{"bad category id", map[string]interface{}{"amount_limit": 1000, "category_id": "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeBudgetRepo{}
			h := NewBudgetsHandler(repo, zerolog.Nop())

			body, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			h.Upsert(w, authedRequest(http.MethodPut, "/api/budgets", body, uuid.New()))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, repo.upserted)
		})
	}
}

func TestCategoriesList(t *testing.T) {
	userID := uuid.New()
	repo := &fakeCategoryRepo{categories: []domain.Category{
		{ID: uuid.New(), Name: "食費", IsDefault: true},
		{ID: uuid.New(), Name: "サブスク", UserID: &userID},
	}}
	h := NewCategoriesHandler(repo, zerolog.Nop())

	w := httptest.NewRecorder()
	h.List(w, authedRequest(http.MethodGet, "/api/categories", nil, userID))

	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}
