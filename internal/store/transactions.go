package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kakeibo/internal/domain"
)

// TransactionStore owns reads and writes of the transactions table.
type TransactionStore struct {
	db *gorm.DB
}

func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// List returns a page of the user's transactions joined with their
// categories, newest date first.
func (s *TransactionStore) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("TransactionStore.List: %w", err)
	}
	return txs, nil
}

// ListReview returns the user's review queue: transactions awaiting
// confirm/edit/reject, newest date first.
func (s *TransactionStore) ListReview(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND status = ?", userID, domain.StatusReviewNeeded).
		Order("date DESC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("TransactionStore.ListReview: %w", err)
	}
	return txs, nil
}

// ListRecent returns the user's most recent transactions for duplicate
// comparison, without the category join.
func (s *TransactionStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("TransactionStore.ListRecent: %w", err)
	}
	return txs, nil
}

// ListConfirmedBetween returns confirmed transactions across all users in
// [start, end), joined with categories. Used by the analytics export; the
// half-open bound keeps a row stamped exactly at the next midnight out of
// the prior day's export.
func (s *TransactionStore) ListConfirmedBetween(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("status = ? AND date >= ? AND date < ?", domain.StatusConfirmed, start, end).
		Order("date ASC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("TransactionStore.ListConfirmedBetween: %w", err)
	}
	return txs, nil
}

// Get returns one transaction owned by the user.
func (s *TransactionStore) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&tx).Error
	if err != nil {
		return nil, translateErr(fmt.Errorf("TransactionStore.Get: %w", err))
	}
	return &tx, nil
}

// Create inserts the transaction, assigning an ID when unset, and reloads
// it joined with its category.
func (s *TransactionStore) Create(ctx context.Context, tx *domain.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("TransactionStore.Create: %w", err)
	}
	if tx.CategoryID != nil {
		if err := s.db.WithContext(ctx).Preload("Category").First(tx, "id = ?", tx.ID).Error; err != nil {
			return fmt.Errorf("TransactionStore.Create: reloading: %w", err)
		}
	}
	return nil
}

// Update applies the given column updates to a transaction owned by the
// user and returns the updated row. ErrNotFound when the row does not
// exist or belongs to someone else.
func (s *TransactionStore) Update(ctx context.Context, userID, id uuid.UUID, updates map[string]interface{}) (*domain.Transaction, error) {
	res := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("TransactionStore.Update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, userID, id)
}

// Delete removes a transaction owned by the user. ErrNotFound when nothing
// was deleted.
func (s *TransactionStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("TransactionStore.Delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
