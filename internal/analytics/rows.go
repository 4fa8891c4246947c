package analytics

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"kakeibo/internal/domain"
)

// TransactionRow is the BigQuery shape of one exported transaction.
type TransactionRow struct {
	TransactionID string              `bigquery:"transaction_id"` // REQUIRED
	UserID        string              `bigquery:"user_id"`        // REQUIRED
	Date          civil.Date          `bigquery:"transaction_date"`
	Amount        int64               `bigquery:"amount"`
	Type          string              `bigquery:"type"`
	CategoryName  bigquery.NullString `bigquery:"category_name"` // NULLABLE
	Description   bigquery.NullString `bigquery:"description"`   // NULLABLE
	Source        string              `bigquery:"source"`
	CreatedTS     time.Time           `bigquery:"created_ts"`
	ExportedTS    time.Time           `bigquery:"exported_ts"`
}

// RowFromTransaction maps a confirmed domain transaction to its export row.
func RowFromTransaction(tx domain.Transaction, exportedAt time.Time) *TransactionRow {
	row := &TransactionRow{
		TransactionID: tx.ID.String(),
		UserID:        tx.UserID.String(),
		Date:          civil.DateOf(tx.Date),
		Amount:        int64(tx.Amount),
		Type:          string(tx.Type),
		Source:        string(tx.Source),
		CreatedTS:     tx.CreatedAt,
		ExportedTS:    exportedAt,
	}
	if tx.Category != nil {
		row.CategoryName = bigquery.NullString{StringVal: tx.Category.Name, Valid: true}
	}
	if tx.Description != nil {
		row.Description = bigquery.NullString{StringVal: *tx.Description, Valid: true}
	}
	return row
}
