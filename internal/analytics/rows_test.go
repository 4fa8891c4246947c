package analytics

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"kakeibo/internal/domain"
)

func TestRowFromTransaction(t *testing.T) {
	desc := "スーパー"
	tx := domain.Transaction{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Amount:      2480,
		Type:        domain.TypeExpense,
		Category:    &domain.Category{Name: "食費"},
		Description: &desc,
		Date:        time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC),
		Source:      domain.SourceOCR,
		CreatedAt:   time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
	}
	exportedAt := time.Now()

	row := RowFromTransaction(tx, exportedAt)

	assert.Equal(t, tx.ID.String(), row.TransactionID)
	assert.Equal(t, civil.Date{Year: 2025, Month: 6, Day: 1}, row.Date)
	assert.Equal(t, int64(2480), row.Amount)
	assert.Equal(t, "expense", row.Type)
	assert.True(t, row.CategoryName.Valid)
	assert.Equal(t, "食費", row.CategoryName.StringVal)
	assert.True(t, row.Description.Valid)
	assert.Equal(t, exportedAt, row.ExportedTS)
}

func TestRowFromTransaction_NilOptionals(t *testing.T) {
	tx := domain.Transaction{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Amount: 100,
		Type:   domain.TypeIncome,
		Date:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Source: domain.SourceManual,
	}

	row := RowFromTransaction(tx, time.Now())

	assert.False(t, row.CategoryName.Valid)
	assert.False(t, row.Description.Valid)
}
