// Package migrate applies the embedded goose migrations that define the task
// schema and its reference data. Each SQL dialect has its own migration set.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedded embed.FS

// Supported dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// TableName is the table goose records applied versions in.
const TableName = "schema_migrations"

// Supported commands.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// ErrUnknownCommand is returned for commands other than up, down, status and version.
var ErrUnknownCommand = errors.New("unknown migration command")

// ErrUnsupportedDialect is returned when no migration set exists for a dialect.
var ErrUnsupportedDialect = errors.New("unsupported migration dialect")

// Migrator runs goose migrations against one database.
type Migrator struct {
	provider *goose.Provider
	logger   *slog.Logger
}

// New creates a Migrator for db using the migration set of dialect.
// If logger is nil, a default logger will be used.
func New(db *sql.DB, dialect string, logger *slog.Logger) (*Migrator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var gooseDialect goose.Dialect
	switch dialect {
	case DialectPostgres:
		gooseDialect = goose.DialectPostgres
	case DialectSQLite:
		gooseDialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}

	fsys, err := fs.Sub(embedded, "migrations/"+dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("dialect", dialect),
	)

	versions, err := database.NewStore(gooseDialect, TableName)
	if err != nil {
		return nil, fmt.Errorf("failed to create version store: %w", err)
	}

	// The dialect is carried by the store, so NewProvider gets an empty one.
	provider, err := goose.NewProvider("", db, fsys,
		goose.WithStore(versions),
		goose.WithLogger(&slogGooseLogger{logger: log}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{provider: provider, logger: log}, nil
}

// Run executes command and logs its outcome under a fresh correlation ID.
func (m *Migrator) Run(ctx context.Context, command string) error {
	log := m.logger.With(
		slog.String("correlation_id", uuid.New().String()),
		slog.String("command", command),
	)
	start := time.Now()
	log.Info("starting migration operation")

	var err error
	switch command {
	case CommandUp:
		var results []*goose.MigrationResult
		results, err = m.provider.Up(ctx)
		for _, r := range results {
			logResult(log, r)
		}
	case CommandDown:
		var result *goose.MigrationResult
		result, err = m.provider.Down(ctx)
		if result != nil {
			logResult(log, result)
		}
	case CommandStatus:
		var statuses []*goose.MigrationStatus
		statuses, err = m.provider.Status(ctx)
		for _, s := range statuses {
			attrs := []any{
				slog.Int64("version", s.Source.Version),
				slog.String("state", string(s.State)),
			}
			if !s.AppliedAt.IsZero() {
				attrs = append(attrs, slog.Time("applied_at", s.AppliedAt))
			}
			log.Info("migration status", attrs...)
		}
	case CommandVersion:
		var version int64
		version, err = m.provider.GetDBVersion(ctx)
		if err == nil {
			log.Info("current database version", slog.Int64("version", version))
		}
	default:
		return fmt.Errorf("%w: %s (expected up, down, status or version)", ErrUnknownCommand, command)
	}

	if err != nil {
		log.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	log.Info("migration command executed successfully",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	return m.Run(ctx, CommandUp)
}

// Version returns the latest applied migration version, 0 for a clean database.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	return m.provider.GetDBVersion(ctx)
}

func logResult(log *slog.Logger, r *goose.MigrationResult) {
	log.Info("applied migration",
		slog.Int64("version", r.Source.Version),
		slog.String("direction", r.Direction),
		slog.Int64("duration_ms", r.Duration.Milliseconds()))
}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level and does NOT exit; goose errors are returned to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
