package handlers

import (
	"context"

	"github.com/google/uuid"

	"kakeibo/internal/domain"
	"kakeibo/internal/extract"
	"kakeibo/internal/store"
)

// fakeTransactionRepo records calls and returns canned data.
type fakeTransactionRepo struct {
	transactions []domain.Transaction
	created      []*domain.Transaction
	updates      map[string]interface{}
	deleted      []uuid.UUID
	err          error
}

func (f *fakeTransactionRepo) List(_ context.Context, _ uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	if offset >= len(f.transactions) {
		return []domain.Transaction{}, nil
	}
	end := offset + limit
	if end > len(f.transactions) {
		end = len(f.transactions)
	}
	return f.transactions[offset:end], nil
}

func (f *fakeTransactionRepo) ListReview(_ context.Context, _ uuid.UUID) ([]domain.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Transaction
	for _, tx := range f.transactions {
		if tx.Status == domain.StatusReviewNeeded {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) ListRecent(_ context.Context, _ uuid.UUID, limit int) ([]domain.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.transactions) {
		limit = len(f.transactions)
	}
	return f.transactions[:limit], nil
}

func (f *fakeTransactionRepo) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	for i := range f.transactions {
		if f.transactions[i].ID == id {
			return &f.transactions[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeTransactionRepo) Create(_ context.Context, tx *domain.Transaction) error {
	if f.err != nil {
		return f.err
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	f.created = append(f.created, tx)
	return nil
}

func (f *fakeTransactionRepo) Update(_ context.Context, userID, id uuid.UUID, updates map[string]interface{}) (*domain.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updates = updates
	tx, err := f.Get(context.Background(), userID, id)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (f *fakeTransactionRepo) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	for _, tx := range f.transactions {
		if tx.ID == id {
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeCategoryRepo struct {
	categories []domain.Category
	err        error
}

func (f *fakeCategoryRepo) ListForUser(_ context.Context, _ uuid.UUID) ([]domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeCategoryRepo) FindDefaultByName(_ context.Context, name string) (*domain.Category, error) {
	for i := range f.categories {
		if f.categories[i].Name == name && f.categories[i].IsDefault {
			return &f.categories[i], nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeBudgetRepo struct {
	budgets  []domain.Budget
	upserted *domain.Budget
	err      error
}

func (f *fakeBudgetRepo) ListForUser(_ context.Context, _ uuid.UUID) ([]domain.Budget, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.budgets, nil
}

func (f *fakeBudgetRepo) Upsert(_ context.Context, b *domain.Budget) error {
	if f.err != nil {
		return f.err
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.upserted = b
	return nil
}

type fakeUserRepo struct {
	users []domain.User
	err   error
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Email == email {
			return &f.users[i], nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeScanner struct {
	result *extract.ScanResult
	err    error
}

func (f *fakeScanner) ScanImage(_ context.Context, _ []byte, _ string) (*extract.ScanResult, error) {
	return f.result, f.err
}

type fakeEmailExtractor struct {
	result *extract.EmailTransaction
	err    error
}

func (f *fakeEmailExtractor) ExtractFromEmail(_ context.Context, _, _ string) (*extract.EmailTransaction, error) {
	return f.result, f.err
}

type fakeArchiver struct {
	saved int
	err   error
}

func (f *fakeArchiver) Save(_ context.Context, _ uuid.UUID, _ string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved++
	return "gs://bucket/receipts/test", nil
}
