package migrate_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/phrazzld/task-api/internal/platform/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestMigrator_UpAppliesSchemaAndSeeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openSQLite(t)

	m, err := migrate.New(db, migrate.DialectSQLite, nil)
	require.NoError(t, err)

	require.NoError(t, m.Up(ctx))

	version, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	assert.Equal(t, 8, countRows(t, db, "priorities"))
	assert.Equal(t, 4, countRows(t, db, "statuses"))
	assert.Equal(t, 0, countRows(t, db, "tasks"))

	for _, table := range []string{"users", "task_status_history", "task_comments", "task_attachments"} {
		assert.Equal(t, 0, countRows(t, db, table), table)
	}

	var color string
	require.NoError(t, db.QueryRow("SELECT color FROM priorities WHERE description = 'Urgent'").Scan(&color))
	assert.Equal(t, "#400080", color)

	// A second run has nothing left to apply.
	require.NoError(t, m.Up(ctx))
}

func TestMigrator_Commands(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openSQLite(t)

	m, err := migrate.New(db, migrate.DialectSQLite, nil)
	require.NoError(t, err)

	require.NoError(t, m.Run(ctx, migrate.CommandUp))
	require.NoError(t, m.Run(ctx, migrate.CommandStatus))
	require.NoError(t, m.Run(ctx, migrate.CommandVersion))

	require.NoError(t, m.Run(ctx, migrate.CommandDown))
	version, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, 0, countRows(t, db, "priorities"))

	err = m.Run(ctx, "sideways")
	assert.ErrorIs(t, err, migrate.ErrUnknownCommand)
}

func TestNew_UnsupportedDialect(t *testing.T) {
	t.Parallel()
	db := openSQLite(t)

	_, err := migrate.New(db, "mysql", nil)
	assert.ErrorIs(t, err, migrate.ErrUnsupportedDialect)
}
