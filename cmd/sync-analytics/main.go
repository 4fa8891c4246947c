package main

import (
	"context"
	"flag"
	"os"
	"time"

	"kakeibo/internal/analytics"
	"kakeibo/internal/config"
	"kakeibo/internal/logger"
	"kakeibo/internal/store"
)

// Exports confirmed transactions into the analytics dataset. Safe to
// re-run for the same range; rows already present are skipped.
func main() {
	var (
		configPath   = flag.String("config", "", "Path to config file (searches default locations when empty)")
		startDateStr = flag.String("start-date", "", "Start date in YYYY-MM-DD format (required)")
		endDateStr   = flag.String("end-date", "", "End date in YYYY-MM-DD format (required)")
		dryRun       = flag.Bool("dry-run", false, "Preview the export without writing rows")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Server.Mode)

	if *startDateStr == "" {
		log.Fatal().Msg("Error: --start-date is required")
	}
	if *endDateStr == "" {
		log.Fatal().Msg("Error: --end-date is required")
	}
	if cfg.BigQuery.Project == "" || cfg.BigQuery.Dataset == "" {
		log.Fatal().Msg("Error: bigquery.project and bigquery.dataset must be configured")
	}

	startDate, err := time.Parse("2006-01-02", *startDateStr)
	if err != nil {
		log.Fatal().Err(err).Str("start_date", *startDateStr).Msg("Error: invalid start-date format, expected YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", *endDateStr)
	if err != nil {
		log.Fatal().Err(err).Str("end_date", *endDateStr).Msg("Error: invalid end-date format, expected YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		log.Fatal().
			Time("start_date", startDate).
			Time("end_date", endDate).
			Msg("Error: end-date must be after start-date")
	}
	// Make the range inclusive of the end day.
	endDate = endDate.Add(24 * time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("start_date", *startDateStr).
		Str("end_date", *endDateStr).
		Bool("dry_run", *dryRun).
		Msg("Starting analytics export")

	db, err := store.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close(db)

	exporter, err := analytics.NewExporter(ctx, cfg.BigQuery.Project, cfg.BigQuery.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create analytics exporter")
	}
	defer exporter.Close()

	txs, err := store.NewTransactionStore(db).ListConfirmedBetween(ctx, startDate, endDate)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load transactions")
	}
	log.Info().Int("count", len(txs)).Msg("Loaded confirmed transactions")

	exported, err := exporter.ExportedIDs(ctx, startDate, endDate)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query already exported rows")
	}

	now := time.Now()
	var rows []*analytics.TransactionRow
	for _, tx := range txs {
		if exported[tx.ID.String()] {
			continue
		}
		rows = append(rows, analytics.RowFromTransaction(tx, now))
	}

	log.Info().
		Int("total", len(txs)).
		Int("already_exported", len(txs)-len(rows)).
		Int("to_export", len(rows)).
		Msg("Computed export set")

	if *dryRun {
		log.Info().Msg("Dry run - no rows written")
		return
	}
	if len(rows) == 0 {
		log.Info().Msg("Nothing to export")
		return
	}

	if err := exporter.Insert(ctx, rows); err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}
	log.Info().Int("exported", len(rows)).Msg("Export completed successfully")
}
