package domain

import (
	"strings"
	"time"
)

// Field limits for tasks, counted in Unicode code points.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Task is the primary resource managed by the API.
// ID is assigned by the store that owns the task and never changes afterwards.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskInput carries the fields of a create or full-replace operation.
// Nil pointers mean the client omitted the field.
type TaskInput struct {
	Title       *string `validate:"required,notblank,max=200"`
	Description *string `validate:"omitnil,max=1000"`
	Completed   *bool
}

// TaskPatch carries the fields of a partial update. Only non-nil fields are
// validated and applied.
type TaskPatch struct {
	Title       *string `validate:"omitnil,notblank,max=200"`
	Description *string `validate:"omitnil,max=1000"`
	Completed   *bool
}

// NewTask builds a task from a validated input. Title and description are
// trimmed, completed defaults to false and both timestamps are set to now.
// The caller is responsible for assigning the ID.
func NewTask(in TaskInput, now time.Time) *Task {
	now = now.UTC()
	t := &Task{
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Title = strings.TrimSpace(deref(in.Title))
	t.Description = strings.TrimSpace(deref(in.Description))
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	return t
}

// Replace overwrites title and description from a validated input. Completed
// is only changed when the input provides it.
func (t *Task) Replace(in TaskInput, now time.Time) {
	t.Title = strings.TrimSpace(deref(in.Title))
	t.Description = strings.TrimSpace(deref(in.Description))
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	t.touch(now)
}

// ApplyPatch updates only the fields present in a validated patch.
// UpdatedAt is refreshed even when the patch is empty.
func (t *Task) ApplyPatch(p TaskPatch, now time.Time) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.touch(now)
}

// touch refreshes UpdatedAt, never letting it fall before CreatedAt.
func (t *Task) touch(now time.Time) {
	now = now.UTC()
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
