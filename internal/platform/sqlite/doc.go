// Package sqlite provides an embedded SQLite implementation of
// store.TaskStore built on the pure-Go modernc.org/sqlite driver.
package sqlite
