package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/platform/migrate"
)

// errMigrateMemory is returned by the migrate command for the memory driver.
var errMigrateMemory = errors.New("migrations require a SQL database driver (postgres or sqlite), got memory")

// newRootCommand returns the top-level CLI command. Running it without a
// subcommand starts the server.
func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:           "task-api",
		Usage:          "Task management REST API",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
		},
	}
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP server",
		Action: runServe,
	}
}

func newMigrateCommand() *cli.Command {
	sub := func(name, usage string) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: usage,
			Action: func(ctx context.Context, _ *cli.Command) error {
				return runMigrate(ctx, name)
			},
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			sub(migrate.CommandUp, "Apply all pending migrations"),
			sub(migrate.CommandDown, "Roll back the most recent migration"),
			sub(migrate.CommandStatus, "Show the state of every migration"),
			sub(migrate.CommandVersion, "Print the current schema version"),
		},
	}
}

func runServe(ctx context.Context, _ *cli.Command) error {
	cfg, log, err := initializeApp()
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

func runMigrate(ctx context.Context, command string) error {
	cfg, log, err := initializeApp()
	if err != nil {
		return err
	}
	return executeMigration(ctx, cfg.Database, log, command)
}

// executeMigration runs one migration command against the configured database.
func executeMigration(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger, command string) error {
	if !cfg.IsSQL() {
		return errMigrateMemory
	}

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
		}
	}()

	m, err := migrate.New(db, migrationDialect(cfg.Driver), log)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	return m.Run(ctx, command)
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
		"log_level", cfg.Server.LogLevel,
		"db_driver", cfg.Database.Driver,
		"db_host", describeDatabaseHost(cfg.Database))

	return cfg, log, nil
}
