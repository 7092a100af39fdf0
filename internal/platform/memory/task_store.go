package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskStore implements store.TaskStore on top of an insertion-ordered slice
// guarded by a read/write mutex.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  []*domain.Task
	nextID int64
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		s.now = now
	}
}

// NewTaskStore creates an empty store. IDs start at 1.
// If logger is nil, a default logger will be used.
func NewTaskStore(logger *slog.Logger, opts ...Option) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	s := &TaskStore{
		nextID: 1,
		now:    time.Now,
		logger: logger.With(slog.String("component", "memory_task_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// List implements store.TaskStore.List
func (s *TaskStore) List(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		matched = append(matched, t)
	}

	page := &store.TaskPage{
		Tasks: []*domain.Task{},
		Total: len(matched),
	}
	if filter.Offset < 0 || filter.Limit <= 0 || filter.Offset >= len(matched) {
		return page, nil
	}

	end := min(filter.Offset+filter.Limit, len(matched))
	for _, t := range matched[filter.Offset:end] {
		page.Tasks = append(page.Tasks, clone(t))
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("listed tasks",
		slog.Int("total", page.Total),
		slog.Int("returned", len(page.Tasks)))
	return page, nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, store.ErrTaskNotFound
	}
	return clone(s.tasks[i]), nil
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := domain.NewTask(in, s.now())
	t.ID = s.nextID
	s.nextID++
	s.tasks = append(s.tasks, t)

	logger.FromContextOrDefault(ctx, s.logger).Info("task created",
		slog.Int64("task_id", t.ID))
	return clone(t), nil
}

// Replace implements store.TaskStore.Replace
func (s *TaskStore) Replace(ctx context.Context, id int64, in domain.TaskInput) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, store.ErrTaskNotFound
	}
	s.tasks[i].Replace(in, s.now())

	logger.FromContextOrDefault(ctx, s.logger).Info("task replaced",
		slog.Int64("task_id", id))
	return clone(s.tasks[i]), nil
}

// Patch implements store.TaskStore.Patch
func (s *TaskStore) Patch(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, store.ErrTaskNotFound
	}
	s.tasks[i].ApplyPatch(p, s.now())

	logger.FromContextOrDefault(ctx, s.logger).Info("task patched",
		slog.Int64("task_id", id))
	return clone(s.tasks[i]), nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, id int64) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, store.ErrTaskNotFound
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.Int64("task_id", id))
	return removed, nil
}

// indexOf must be called with s.mu held.
func (s *TaskStore) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clone(t *domain.Task) *domain.Task {
	c := *t
	return &c
}
