package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/topiklearn/srs-api/internal/config"
	"github.com/topiklearn/srs-api/internal/domain/srs"
	"github.com/topiklearn/srs-api/internal/events"
	"github.com/topiklearn/srs-api/internal/platform/postgres"
	"github.com/topiklearn/srs-api/internal/recognizer"
	"github.com/topiklearn/srs-api/internal/service/catalog"
	"github.com/topiklearn/srs-api/internal/service/progression"
	"github.com/topiklearn/srs-api/internal/service/review"
	"github.com/topiklearn/srs-api/internal/store"
	"github.com/topiklearn/srs-api/internal/worker"
)

// application holds the shared application dependencies to simplify
// wiring and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	vocabStore    store.VocabularyStore
	progressStore store.ProgressStore
	statsStore    store.UserStatsStore
	settingsStore store.UserSettingsStore
	sessionStore  store.SessionStore
	transactor    store.Transactor

	// Services
	srsService         srs.Service
	catalogService     catalog.Service
	reviewService      review.Service
	progressionService progression.Service
	recognizer         recognizer.Recognizer

	// Event system
	eventEmitter events.Emitter

	// Background jobs
	worker *worker.Worker
}

// newApplication creates an application instance with all dependencies
// initialized. Configuration, logging, and the database connection must be
// established first.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Stores
	app.vocabStore = postgres.NewVocabularyStore(db, logger)
	app.progressStore = postgres.NewProgressStore(db, logger)
	app.statsStore = postgres.NewUserStatsStore(db, logger)
	app.settingsStore = postgres.NewUserSettingsStore(db, logger)
	app.sessionStore = postgres.NewSessionStore(db, logger)
	app.transactor = store.NewTransactor(db)

	// Core scheduler
	app.srsService = srs.NewService()

	// Stats aggregator, registered as the review-event consumer
	app.progressionService = progression.NewService(
		app.statsStore,
		app.progressStore,
		app.sessionStore,
		app.transactor,
		logger,
	)

	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(app.progressionService)
	app.eventEmitter = emitter

	// Domain services
	app.catalogService = catalog.NewService(app.vocabStore, logger)
	app.reviewService = review.NewService(
		app.vocabStore,
		app.progressStore,
		app.transactor,
		app.srsService,
		app.eventEmitter,
		logger,
	)

	app.recognizer = recognizer.NewStatic()

	// Background jobs
	if cfg.Worker.Enabled {
		app.worker = worker.New(app.statsStore, app.progressStore, app.transactor, logger)
		if err := app.worker.Start(); err != nil {
			return nil, fmt.Errorf("failed to start background worker: %w", err)
		}
	}

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.worker != nil {
		app.worker.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
