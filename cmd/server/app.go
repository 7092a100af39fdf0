package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/phrazzld/task-api/internal/platform/migrate"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/platform/sqlite"
	"github.com/phrazzld/task-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory driver.
	db        *sql.DB
	taskStore store.TaskStore
}

// newApplication creates a new application instance with all dependencies initialized.
// SQL drivers get a connection and, when enabled, an up-to-date schema.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if !cfg.Database.IsSQL() {
		app.taskStore = memory.NewTaskStore(logger)
		logger.Info("Application initialized successfully", "task_store", cfg.Database.Driver)
		return app, nil
	}

	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	if cfg.Database.AutoMigrate {
		m, err := migrate.New(db, migrationDialect(cfg.Database.Driver), logger)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to create migrator: %w", err)
		}
		if err := m.Up(ctx); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		app.taskStore = sqlite.NewSQLiteTaskStore(db, logger)
	default:
		app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	}

	logger.Info("Application initialized successfully", "task_store", cfg.Database.Driver)
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
		app.db = nil
	}
}
