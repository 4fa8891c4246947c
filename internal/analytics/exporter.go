// Package analytics appends confirmed transactions to a BigQuery dataset
// for dashboard-style reporting. The export is operator-run (see
// cmd/sync-analytics); nothing in the request path touches BigQuery.
package analytics

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const transactionsTable = "transactions"

// Exporter owns a BigQuery client scoped to one project/dataset.
type Exporter struct {
	client  *bigquery.Client
	dataset string
}

// NewExporter creates an Exporter against the given project and dataset.
func NewExporter(ctx context.Context, project, dataset string) (*Exporter, error) {
	if project == "" {
		return nil, fmt.Errorf("NewExporter: project is required")
	}
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("NewExporter: bigquery client: %w", err)
	}
	return &Exporter{client: client, dataset: dataset}, nil
}

// Close releases the BigQuery client.
func (e *Exporter) Close() error {
	return e.client.Close()
}

// Insert appends rows to the transactions table.
func (e *Exporter) Insert(ctx context.Context, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}
	inserter := e.client.Dataset(e.dataset).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("Insert: inserting %d rows: %w", len(rows), err)
	}
	return nil
}

// ExportedIDs returns the set of transaction IDs already exported for the
// given date range, so re-runs of the export are idempotent.
func (e *Exporter) ExportedIDs(ctx context.Context, start, end time.Time) (map[string]bool, error) {
	q := e.client.Query(fmt.Sprintf(`
		SELECT transaction_id
		FROM %s.%s
		WHERE transaction_date >= @start_date
		  AND transaction_date <= @end_date
	`, e.dataset, transactionsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "start_date", Value: start.Format("2006-01-02")},
		{Name: "end_date", Value: end.Format("2006-01-02")},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportedIDs: query read: %w", err)
	}

	ids := make(map[string]bool)
	for {
		var row struct {
			TransactionID string `bigquery:"transaction_id"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ExportedIDs: iter next: %w", err)
		}
		ids[row.TransactionID] = true
	}
	return ids, nil
}
