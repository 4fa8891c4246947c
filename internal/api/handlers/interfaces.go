package handlers

import (
	"context"

	"github.com/google/uuid"

	"kakeibo/internal/domain"
	"kakeibo/internal/extract"
)

// TransactionRepository is the slice of the store the transaction handlers
// need. Defined here so tests can substitute fakes.
type TransactionRepository interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
	ListReview(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error)
	Create(ctx context.Context, tx *domain.Transaction) error
	Update(ctx context.Context, userID, id uuid.UUID, updates map[string]interface{}) (*domain.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// CategoryRepository resolves category reference data.
type CategoryRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error)
	FindDefaultByName(ctx context.Context, name string) (*domain.Category, error)
}

// BudgetRepository reads and upserts spending limits.
type BudgetRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Budget, error)
	Upsert(ctx context.Context, b *domain.Budget) error
}

// UserRepository is the user directory surface used by auth and the
// webhook.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ImageScanner runs the two-pass receipt/statement scan.
type ImageScanner interface {
	ScanImage(ctx context.Context, image []byte, mimeType string) (*extract.ScanResult, error)
}

// EmailExtractor parses a notification email into a transaction candidate.
type EmailExtractor interface {
	ExtractFromEmail(ctx context.Context, subject, body string) (*extract.EmailTransaction, error)
}

// ReceiptArchiver stores scanned receipt images. May be absent when no
// bucket is configured.
type ReceiptArchiver interface {
	Save(ctx context.Context, userID uuid.UUID, mimeType string, data []byte) (string, error)
}
