package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kakeibo/internal/domain"
)

// CategoryStore owns the category reference data.
type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// ListForUser returns the default categories plus the user's own, defaults
// first, then by name.
func (s *CategoryStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	var cats []domain.Category
	err := s.db.WithContext(ctx).
		Where("is_default = ? OR user_id = ?", true, userID).
		Order("is_default DESC, name ASC").
		Find(&cats).Error
	if err != nil {
		return nil, fmt.Errorf("CategoryStore.ListForUser: %w", err)
	}
	return cats, nil
}

// FindDefaultByName looks up a seeded default category by exact name.
// Used to resolve AI-suggested category names; ErrNotFound when the model
// suggested something outside the taxonomy.
func (s *CategoryStore) FindDefaultByName(ctx context.Context, name string) (*domain.Category, error) {
	var cat domain.Category
	err := s.db.WithContext(ctx).
		Where("name = ? AND is_default = ?", name, true).
		First(&cat).Error
	if err != nil {
		return nil, translateErr(fmt.Errorf("CategoryStore.FindDefaultByName: %w", err))
	}
	return &cat, nil
}

// defaultCategorySeed maps each seeded category name to its display color
// and icon.
var defaultCategorySeed = map[string]struct {
	color string
	icon  string
}{
	"食費":  {"#ef4444", "🍚"},
	"交通費": {"#3b82f6", "🚃"},
	"日用品": {"#f59e0b", "🧻"},
	"娯楽":  {"#8b5cf6", "🎮"},
	"医療":  {"#10b981", "🏥"},
	"住居":  {"#6366f1", "🏠"},
	"給与":  {"#22c55e", "💴"},
	"その他": {"#6b7280", "📦"},
}

// SeedDefaults inserts the default categories if they are missing. Safe to
// run on every migration.
func (s *CategoryStore) SeedDefaults(ctx context.Context) error {
	for _, name := range domain.DefaultCategoryNames {
		seed := defaultCategorySeed[name]
		color := seed.color
		icon := seed.icon
		var cat domain.Category
		err := s.db.WithContext(ctx).
			Where(&domain.Category{Name: name, IsDefault: true}).
			Attrs(domain.Category{ID: uuid.New(), Color: &color, Icon: &icon}).
			FirstOrCreate(&cat).Error
		if err != nil {
			return fmt.Errorf("SeedDefaults: seeding %q: %w", name, err)
		}
	}
	return nil
}
