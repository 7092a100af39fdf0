// Package domain contains the core business entities, value objects, and
// domain logic of the application. It represents the heart of the system,
// independent of any specific infrastructure or delivery mechanism.
//
// The central entity is Task. Inputs arriving from clients are expressed as
// TaskInput (full replacement) and TaskPatch (partial update) and validated
// here before any store sees them.
package domain
