package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kakeibo/internal/domain"
)

// UserStore owns the user directory. The webhook's lookup-by-email path
// goes through here instead of an admin user listing.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user. Emails are stored lowercased.
func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("UserStore.Create: %w", err)
	}
	return nil
}

// FindByEmail returns the user with the given email, case-insensitively.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, translateErr(fmt.Errorf("UserStore.FindByEmail: %w", err))
	}
	return &u, nil
}

// FindByID returns the user with the given ID.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, translateErr(fmt.Errorf("UserStore.FindByID: %w", err))
	}
	return &u, nil
}
