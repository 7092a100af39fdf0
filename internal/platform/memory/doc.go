// Package memory provides an in-process implementation of store.TaskStore.
// It is the default backend: data lives for the lifetime of the process and
// is lost on restart.
package memory
