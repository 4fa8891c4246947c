package domain

import "github.com/google/uuid"

// Category is spending/income classification reference data. Default
// categories are seeded server-side and owned by no user; user-created
// categories carry the owner's ID.
type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Color     *string    `gorm:"size:16" json:"color"`
	Icon      *string    `gorm:"size:32" json:"icon"`
	IsDefault bool       `gorm:"not null;default:false" json:"is_default"`
}

// DefaultCategoryNames is the seeded taxonomy, in display order. The AI
// extraction prompts constrain suggested categories to these names.
var DefaultCategoryNames = []string{
	"食費",  // food
	"交通費", // transport
	"日用品", // daily goods
	"娯楽",  // entertainment
	"医療",  // medical
	"住居",  // housing
	"給与",  // salary
	"その他", // other
}
