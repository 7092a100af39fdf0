// Package testdb provides database utilities for tests.
//
// SQLite databases are created per test in a temporary directory and have the
// embedded migrations applied, so store tests need no external services.
// PostgreSQL tests use the transaction isolation pattern: each test runs in a
// transaction that is rolled back when it completes.
//
//	func TestMyFeature(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t) // skips when DATABASE_URL is unset, fails in CI
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        taskStore := postgres.NewPostgresTaskStore(tx, nil)
//	        // ...
//	    })
//	}
//
// Environment variables:
//
// - DATABASE_URL: primary PostgreSQL connection string
// - TASKAPI_TEST_DB_URL: alternative connection string
package testdb
