// Package postgres provides the PostgreSQL implementation of store.TaskStore.
// It works against any store.DBTX (a pool or a transaction), uses the pgx
// database/sql driver and maps driver errors onto the store sentinel errors.
package postgres
