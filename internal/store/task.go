package store

import (
	"context"

	"github.com/phrazzld/task-api/internal/domain"
)

// TaskFilter selects and slices the tasks returned by TaskStore.List.
type TaskFilter struct {
	// Completed restricts the result to tasks with this completion state.
	// Nil means no filtering.
	Completed *bool

	// Offset is the number of filtered tasks to skip. Negative offsets
	// produce an empty page.
	Offset int

	// Limit is the maximum number of tasks returned. Zero or negative
	// limits produce an empty page.
	Limit int
}

// TaskPage is one slice of the filtered task collection.
type TaskPage struct {
	Tasks []*domain.Task
	// Total is the size of the filtered collection before slicing.
	Total int
}

// TaskStore defines the interface for task persistence.
// Implementations own ID assignment and timestamps, and must be safe for
// concurrent use.
type TaskStore interface {
	// List returns the tasks matching the filter in insertion order,
	// together with the total number of matching tasks.
	List(ctx context.Context, filter TaskFilter) (*TaskPage, error)

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Create stores a new task built from a validated input and returns it
	// with its assigned ID and timestamps.
	Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error)

	// Replace overwrites a task with a validated input.
	// Returns ErrTaskNotFound if the task does not exist.
	Replace(ctx context.Context, id int64, in domain.TaskInput) (*domain.Task, error)

	// Patch applies a validated partial update.
	// Returns ErrTaskNotFound if the task does not exist.
	Patch(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error)

	// Delete removes a task and returns it as it was before removal.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) (*domain.Task, error)
}
