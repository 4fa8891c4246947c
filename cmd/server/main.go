package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"kakeibo/internal/api/handlers"
	"kakeibo/internal/api/middleware"
	"kakeibo/internal/config"
	"kakeibo/internal/extract"
	"kakeibo/internal/logger"
	"kakeibo/internal/receiptstore"
	"kakeibo/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (searches default locations when empty)")
		port       = flag.String("port", "", "HTTP server port (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// No logger yet; fall back to stderr.
		os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = ":" + strings.TrimPrefix(*port, ":")
	}

	log := logger.New(cfg.Log.Level, cfg.Server.Mode)

	ctx := context.Background()

	db, err := store.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close(db)

	if err := store.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	categoryStore := store.NewCategoryStore(db)
	if err := categoryStore.SeedDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed default categories")
	}

	transactionStore := store.NewTransactionStore(db)
	budgetStore := store.NewBudgetStore(db)
	userStore := store.NewUserStore(db)

	extractor, err := extract.New(ctx, cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create AI extractor")
	}

	var archiver handlers.ReceiptArchiver
	if cfg.GCS.Bucket != "" {
		receipts, err := receiptstore.New(ctx, cfg.GCS.Bucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create receipt store")
		}
		defer receipts.Close()
		archiver = receipts
	} else {
		log.Warn().Msg("No GCS bucket configured - receipt images will not be archived")
	}

	if cfg.Webhook.Secret == "" {
		log.Warn().Msg("No webhook secret configured - email ingest endpoint is disabled")
	}

	session := middleware.NewSessionIssuer(cfg.Auth.JWTSecret, cfg.Auth.CookieName, cfg.Auth.SessionExpiry)

	authHandler := handlers.NewAuthHandler(userStore, session, log)
	transactionsHandler := handlers.NewTransactionsHandler(transactionStore, log)
	categoriesHandler := handlers.NewCategoriesHandler(categoryStore, log)
	budgetsHandler := handlers.NewBudgetsHandler(budgetStore, log)
	ocrHandler := handlers.NewOCRHandler(extractor, archiver, log)
	webhookHandler := handlers.NewWebhookHandler(cfg.Webhook.Secret, userStore, categoryStore, transactionStore, extractor, log)

	// Routes that require a session cookie.
	protected := http.NewServeMux()

	protected.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.List(w, r)
		case http.MethodPost:
			transactionsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/transactions/review", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.ListReview(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/transactions/check-duplicates", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.CheckDuplicates(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		if id == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
			return
		}
		switch r.Method {
		case http.MethodPut:
			transactionsHandler.Update(w, r, id)
		case http.MethodDelete:
			transactionsHandler.Delete(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			categoriesHandler.List(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/budgets", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			budgetsHandler.List(w, r)
		case http.MethodPut:
			budgetsHandler.Upsert(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/ai/ocr", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			ocrHandler.Scan(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Public routes: auth, the webhook (secret-header auth) and health.
	mux := http.NewServeMux()
	mux.Handle("/api/", session.RequireAuth(protected))

	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			authHandler.Register(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			authHandler.Login(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			authHandler.Logout(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/webhooks/ingest", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			webhookHandler.Ingest(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// RequestID runs outside Logger so access-log lines carry the ID.
	handler := middleware.Recovery(log)(
		middleware.RequestID(log)(
			middleware.Logger(log)(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
