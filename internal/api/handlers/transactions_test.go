package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kakeibo/internal/api/middleware"
	"kakeibo/internal/domain"
)

func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func strPtr(s string) *string { return &s }

func TestTransactionsList(t *testing.T) {
	userID := uuid.New()
	repo := &fakeTransactionRepo{
		transactions: []domain.Transaction{
			{ID: uuid.New(), UserID: userID, Amount: 1280, Type: domain.TypeExpense, Status: domain.StatusConfirmed, Source: domain.SourceManual, Date: time.Now()},
			{ID: uuid.New(), UserID: userID, Amount: 540, Type: domain.TypeExpense, Status: domain.StatusReviewNeeded, Source: domain.SourceOCR, Date: time.Now()},
		},
	}
	h := NewTransactionsHandler(repo, zerolog.Nop())

	w := httptest.NewRecorder()
	h.List(w, authedRequest(http.MethodGet, "/api/transactions", nil, userID))

	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestTransactionsListUnauthorized(t *testing.T) {
	h := NewTransactionsHandler(&fakeTransactionRepo{}, zerolog.Nop())

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTransactionsListPagination(t *testing.T) {
	userID := uuid.New()
	var txs []domain.Transaction
	for i := 0; i < 60; i++ {
		txs = append(txs, domain.Transaction{ID: uuid.New(), UserID: userID, Amount: 100 + i})
	}
	h := NewTransactionsHandler(&fakeTransactionRepo{transactions: txs}, zerolog.Nop())

	w := httptest.NewRecorder()
	h.List(w, authedRequest(http.MethodGet, "/api/transactions?limit=10&offset=55", nil, userID))

	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 5)
}

func TestTransactionsListReview(t *testing.T) {
	userID := uuid.New()
	repo := &fakeTransactionRepo{
		transactions: []domain.Transaction{
			{ID: uuid.New(), Status: domain.StatusConfirmed},
			{ID: uuid.New(), Status: domain.StatusReviewNeeded},
			{ID: uuid.New(), Status: domain.StatusReviewNeeded},
		},
	}
	h := NewTransactionsHandler(repo, zerolog.Nop())

	w := httptest.NewRecorder()
	h.ListReview(w, authedRequest(http.MethodGet, "/api/transactions/review", nil, userID))

	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestTransactionsCreate(t *testing.T) {
	userID := uuid.New()
	repo := &fakeTransactionRepo{}
	h := NewTransactionsHandler(repo, zerolog.Nop())

	body, _ := json.Marshal(map[string]interface{}{
		"amount":      1280,
		"type":        "expense",
		"description": "ランチ",
		"date":        "2026-08-30",
	})
	w := httptest.NewRecorder()
	h.Create(w, authedRequest(http.MethodPost, "/api/transactions", body, userID))

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, 1280, created.Amount)
	assert.Equal(t, domain.SourceManual, created.Source)
	assert.Equal(t, domain.StatusConfirmed, created.Status)
	assert.Equal(t, "2026-08-30", created.Date.Format("2006-01-02"))
}

func TestTransactionsCreateDefaultsDateToNow(t *testing.T) {
	userID := uuid.New()
	repo := &fakeTransactionRepo{}
	h := NewTransactionsHandler(repo, zerolog.Nop())

	body, _ := json.Marshal(map[string]interface{}{"amount": 500, "type": "income"})
	w := httptest.NewRecorder()
	h.Create(w, authedRequest(http.MethodPost, "/api/transactions", body, userID))

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.created, 1)
	assert.WithinDuration(t, time.Now(), repo.created[0].Date, time.Minute)
}

func TestTransactionsCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"zero amount", map[string]interface{}{"amount": 0, "type": "expense"}},
		{"negative amount", map[string]interface{}{"amount": -100, "type": "expense"}},
		{"bad type", map[string]interface{}{"amount": 100, "type": "transfer"}},
		{"bad category id", map[string]interface{}{"amount": 100, "type": "expense", "category_id": "not-a-uuid"}},
		{"bad date", map[string]interface{}{"amount": 100, "type": "expense", "date": "yesterday"}},
		{"bad source", map[string]interface{}{"amount": 100, "type": "expense", "source": "carrier_pigeon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeTransactionRepo{}
			h := NewTransactionsHandler(repo, zerolog.Nop())

			body, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			h.Create(w, authedRequest(http.MethodPost, "/api/transactions", body, uuid.New()))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, repo.created)
			assert.Contains(t, w.Body.String(), "issues")
		})
	}
}

func TestTransactionsUpdateApprovesReview(t *testing.T) {
	userID := uuid.New()
	txID := uuid.New()
	repo := &fakeTransactionRepo{
		transactions: []domain.Transaction{{ID: txID, UserID: userID, Amount: 980, Status: domain.StatusReviewNeeded}},
	}
	h := NewTransactionsHandler(repo, zerolog.Nop())

	body, _ := json.Marshal(map[string]interface{}{"status": "confirmed"})
	w := httptest.NewRecorder()
	h.Update(w, authedRequest(http.MethodPut, "/api/transactions/"+txID.String(), body, userID), txID.String())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", repo.updates["status"])
}

func TestTransactionsUpdateClearsCategory(t *testing.T) {
	userID := uuid.New()
	txID := uuid.New()
	repo := &fakeTransactionRepo{
		transactions: []domain.Transaction{{ID: txID, UserID: userID, Amount: 980}},
	}
	h := NewTransactionsHandler(repo, zerolog.Nop())

	body, _ := json.Marshal(map[string]interface{}{"category_id": ""})
	w := httptest.NewRecorder()
	h.Update(w, authedRequest(http.MethodPut, "/api/transactions/"+txID.String(), body, userID), txID.String())

	require.Equal(t, http.StatusOK, w.Code)
	val, present := repo.updates["category_id"]
	assert.True(t, present)
	assert.Nil(t, val)
}

func TestTransactionsUpdateNotFound(t *testing.T) {
	h := NewTransactionsHandler(&fakeTransactionRepo{}, zerolog.Nop())

	body, _ := json.Marshal(map[string]interface{}{"amount": 100})
	w := httptest.NewRecorder()
	h.Update(w, authedRequest(http.MethodPut, "/api/transactions/x", body, uuid.New()), uuid.NewString())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionsUpdateRejectsEmptyBody(t *testing.T) {
	h := NewTransactionsHandler(&fakeTransactionRepo{}, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Update(w, authedRequest(http.MethodPut, "/api/transactions/x", []byte(`{}`), uuid.New()), uuid.NewString())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionsDelete(t *testing.T) {
	userID := uuid.New()
	txID := uuid.New()
	repo := &fakeTransactionRepo{
		transactions: []domain.Transaction{{ID: txID, UserID: userID}},
	}
	h := NewTransactionsHandler(repo, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Delete(w, authedRequest(http.MethodDelete, "/api/transactions/"+txID.String(), nil, userID), txID.String())

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uuid.UUID{txID}, repo.deleted)
}

func TestTransactionsDeleteNotFound(t *testing.T) {
	h := NewTransactionsHandler(&fakeTransactionRepo{}, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Delete(w, authedRequest(http.MethodDelete, "/api/transactions/x", nil, uuid.New()), uuid.NewString())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionsDeleteBadID(t *testing.T) {
	h := NewTransactionsHandler(&fakeTransactionRepo{}, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Delete(w, authedRequest(http.MethodDelete, "/api/transactions/nope", nil, uuid.New()), "nope")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckDuplicates(t *testing.T) {
	userID := uuid.New()
	repo := &fakeTransactionRepo{
		transactions: []domain.Transaction{
			{
				ID:          uuid.New(),
				UserID:      userID,
				Amount:      1280,
				Description: strPtr("マクドナルド 渋谷店"),
				Date:        time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			},
		},
	}
	h := NewTransactionsHandler(repo, zerolog.Nop())

	body, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"amount": 1280, "description": "マクドナルド", "date": "2026-08-30T15:00:00Z"},
			{"amount": 1280, "description": "すき家", "date": "2026-08-30T15:00:00Z"},
		},
	})
	w := httptest.NewRecorder()
	h.CheckDuplicates(w, authedRequest(http.MethodPost, "/api/transactions/check-duplicates", body, userID))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Candidates []struct {
			Description string `json:"description"`
			IsDuplicate bool   `json:"is_duplicate"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Candidates, 2)
	assert.True(t, resp.Candidates[0].IsDuplicate)
	assert.False(t, resp.Candidates[1].IsDuplicate)
}
