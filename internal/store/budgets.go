package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kakeibo/internal/domain"
)

// BudgetStore owns spending limits.
type BudgetStore struct {
	db *gorm.DB
}

func NewBudgetStore(db *gorm.DB) *BudgetStore {
	return &BudgetStore{db: db}
}

// ListForUser returns the user's budgets joined with nothing; the category
// reference is resolved client-side against the category list.
func (s *BudgetStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Budget, error) {
	var budgets []domain.Budget
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("period ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, fmt.Errorf("BudgetStore.ListForUser: %w", err)
	}
	return budgets, nil
}

// Upsert creates or updates the budget identified by (user, category,
// period). A nil category is the global budget for that period.
func (s *BudgetStore) Upsert(ctx context.Context, b *domain.Budget) error {
	var existing domain.Budget
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND period = ? AND category_id IS NOT DISTINCT FROM ?",
			b.UserID, b.Period, b.CategoryID).
		First(&existing).Error

	switch {
	case err == nil:
		b.ID = existing.ID
		res := s.db.WithContext(ctx).
			Model(&domain.Budget{}).
			Where("id = ?", existing.ID).
			Update("amount_limit", b.AmountLimit)
		if res.Error != nil {
			return fmt.Errorf("BudgetStore.Upsert: updating: %w", res.Error)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
			return fmt.Errorf("BudgetStore.Upsert: creating: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("BudgetStore.Upsert: looking up: %w", err)
	}
}
