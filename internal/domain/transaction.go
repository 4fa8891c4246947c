package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// TransactionStatus tracks whether a transaction still needs user review.
// AI-extracted transactions start as StatusReviewNeeded when the model's
// confidence is at or below the review threshold.
type TransactionStatus string

const (
	StatusConfirmed    TransactionStatus = "confirmed"
	StatusReviewNeeded TransactionStatus = "review_needed"
)

func (s TransactionStatus) Valid() bool {
	return s == StatusConfirmed || s == StatusReviewNeeded
}

// TransactionSource records how a transaction entered the system.
type TransactionSource string

const (
	SourceManual    TransactionSource = "manual"
	SourceOCR       TransactionSource = "ocr"
	SourceGmailAuto TransactionSource = "gmail_auto"
)

func (s TransactionSource) Valid() bool {
	return s == SourceManual || s == SourceOCR || s == SourceGmailAuto
}

// Transaction is one income or expense record. Amounts are integer JPY;
// the currency has no decimal subunits.
type Transaction struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      int               `gorm:"not null" json:"amount"`
	Type        TransactionType   `gorm:"type:varchar(16);not null" json:"type"`
	CategoryID  *uuid.UUID        `gorm:"type:uuid" json:"category_id"`
	Category    *Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Description *string           `gorm:"size:500" json:"description"`
	Date        time.Time         `gorm:"not null;index" json:"date"`
	Status      TransactionStatus `gorm:"type:varchar(16);not null" json:"status"`
	Source      TransactionSource `gorm:"type:varchar(16);not null" json:"source"`
	CreatedAt   time.Time         `json:"created_at"`
}
