package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/migrate"
	"github.com/phrazzld/task-api/internal/platform/sqlite"
	"github.com/phrazzld/task-api/internal/redact"
)

// notConfigured is reported for database settings that are absent.
const notConfigured = "Not configured"

// setupAppDatabase establishes a connection to the database and configures connection pools.
// Returns the database connection if successful, or an error if the connection fails.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection: %s", redact.Error(err))
		}
		logger.Info("Database connection established", "driver", cfg.Driver)
		return db, nil

	case config.DriverPostgres:
		db, err := sql.Open("pgx", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection: %s", redact.Error(err))
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %s", redact.Error(err))
		}

		logger.Info("Database connection established",
			"driver", cfg.Driver,
			"host", describeDatabaseHost(cfg))
		return db, nil

	default:
		return nil, fmt.Errorf("driver %q has no database connection", cfg.Driver)
	}
}

// migrationDialect maps a configured driver to its migration set.
func migrationDialect(driver string) string {
	if driver == config.DriverSQLite {
		return migrate.DialectSQLite
	}
	return migrate.DialectPostgres
}

// describeDatabaseHost returns the database host for startup logs, without
// credentials.
func describeDatabaseHost(cfg config.DatabaseConfig) string {
	switch {
	case cfg.Host != "":
		return cfg.Host
	case cfg.Driver == config.DriverPostgres && cfg.URL != "":
		u, err := url.Parse(cfg.URL)
		if err != nil || u.Hostname() == "" {
			return notConfigured
		}
		return u.Hostname()
	case cfg.Driver == config.DriverSQLite && cfg.URL != "":
		return "file " + cfg.URL
	default:
		return notConfigured
	}
}
