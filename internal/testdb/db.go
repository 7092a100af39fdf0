package testdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/task-api/internal/ciutil"
	"github.com/phrazzld/task-api/internal/platform/migrate"
	"github.com/phrazzld/task-api/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// GetTestDatabaseURL returns the PostgreSQL URL for tests.
// It checks DATABASE_URL and TASKAPI_TEST_DB_URL in that order.
func GetTestDatabaseURL() string {
	return ciutil.TestDatabaseURL()
}

// IsIntegrationTestEnvironment returns true if a PostgreSQL URL is configured.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// GetTestDBWithT opens the PostgreSQL test database, applies migrations and
// registers cleanup. Without a configured database the test is skipped, or
// fails when running in CI.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		if ciutil.IsCI() {
			t.Fatal("DATABASE_URL must be set for integration tests in CI")
		}
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Failed to ping database")

	applyMigrations(t, db, migrate.DialectPostgres)
	return db
}

// OpenSQLite creates a migrated SQLite database in a temporary directory.
// It is closed and removed when the test completes.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err, "Failed to open sqlite database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close sqlite database: %v", err)
		}
	})

	applyMigrations(t, db, migrate.DialectSQLite)
	return db
}

func applyMigrations(t *testing.T, db *sql.DB, dialect string) {
	t.Helper()

	m, err := migrate.New(db, dialect, nil)
	require.NoError(t, err, "Failed to create migrator")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, m.Up(ctx), "Failed to run migrations")
}
