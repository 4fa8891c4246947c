package domain

import "github.com/google/uuid"

// BudgetPeriod is the window a spending limit applies to.
type BudgetPeriod string

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

func (p BudgetPeriod) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}

// Budget is a per-category (or global, when CategoryID is nil) spending
// limit. One budget per (user, category, period). Postgres treats NULLs as
// distinct in unique indexes, so global budgets get their own partial
// index on (user, period).
type Budget struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_budget_scope;uniqueIndex:idx_budget_scope_global,where:category_id IS NULL" json:"user_id"`
	CategoryID  *uuid.UUID   `gorm:"type:uuid;uniqueIndex:idx_budget_scope" json:"category_id"`
	AmountLimit int          `gorm:"not null" json:"amount_limit"`
	Period      BudgetPeriod `gorm:"type:varchar(16);not null;uniqueIndex:idx_budget_scope;uniqueIndex:idx_budget_scope_global,where:category_id IS NULL" json:"period"`
}
