package main

import (
	"context"
	"flag"
	"os"

	"kakeibo/internal/config"
	"kakeibo/internal/logger"
	"kakeibo/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (searches default locations when empty)")
		seed       = flag.Bool("seed", true, "Seed the default category set after migrating")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Server.Mode)

	db, err := store.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close(db)

	if err := store.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Msg("Schema migrated")

	if *seed {
		if err := store.NewCategoryStore(db).SeedDefaults(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed default categories")
		}
		log.Info().Msg("Default categories seeded")
	}
}
