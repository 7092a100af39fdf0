package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

const taskColumns = `id, title, description, completed, created_at, updated_at`

// SQLiteTaskStore implements store.TaskStore on a SQLite database.
type SQLiteTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteTaskStore creates a task store over db, which may be a pool or a transaction.
// If logger is nil, a default logger will be used.
func NewSQLiteTaskStore(db store.DBTX, logger *slog.Logger) *SQLiteTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_task_store")),
		now:    time.Now,
	}
}

var _ store.TaskStore = (*SQLiteTaskStore)(nil)

// WithClock returns a copy of the store using now as its time source.
func (s *SQLiteTaskStore) WithClock(now func() time.Time) *SQLiteTaskStore {
	return &SQLiteTaskStore{db: s.db, logger: s.logger, now: now}
}

// List implements store.TaskStore.List
func (s *SQLiteTaskStore) List(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	completed := sql.NullBool{}
	if filter.Completed != nil {
		completed = sql.NullBool{Bool: *filter.Completed, Valid: true}
	}

	var page *store.TaskPage
	run := func(ctx context.Context, q store.DBTX) error {
		var err error
		page, err = listPage(ctx, q, completed, filter)
		return err
	}

	var err error
	if beginner, ok := s.db.(store.TxBeginner); ok {
		err = store.RunInTransaction(ctx, beginner, func(ctx context.Context, tx *sql.Tx) error {
			return run(ctx, tx)
		})
	} else {
		err = run(ctx, s.db)
	}
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, taskError("list", "failed to list tasks", err)
	}
	return page, nil
}

// listPage counts and reads one page. Callers run it in a transaction so the
// total matches the rows returned.
func listPage(ctx context.Context, q store.DBTX, completed sql.NullBool, filter store.TaskFilter) (*store.TaskPage, error) {
	page := &store.TaskPage{Tasks: []*domain.Task{}}

	countQuery := `SELECT COUNT(*) FROM tasks WHERE (?1 IS NULL OR completed = ?1)`
	if err := q.QueryRowContext(ctx, countQuery, completed).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	if filter.Offset < 0 || filter.Limit <= 0 || filter.Offset >= page.Total {
		return page, nil
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE (?1 IS NULL OR completed = ?1)
		ORDER BY id ASC
		LIMIT ?2 OFFSET ?3
	`
	rows, err := q.QueryContext(ctx, query, completed, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		page.Tasks = append(page.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return page, nil
}

// GetByID implements store.TaskStore.GetByID
func (s *SQLiteTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := get(ctx, s.db, id)
	if err != nil {
		return nil, s.fail(ctx, "get", id, err)
	}
	return task, nil
}

// Create implements store.TaskStore.Create
func (s *SQLiteTaskStore) Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	task := domain.NewTask(in, s.now())

	query := `
		INSERT INTO tasks (title, description, completed, created_at, updated_at)
		VALUES (?1, ?2, ?3, ?4, ?5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		return nil, s.fail(ctx, "create", 0, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task created successfully",
		slog.Int64("task_id", task.ID))
	return task, nil
}

// Replace implements store.TaskStore.Replace
func (s *SQLiteTaskStore) Replace(ctx context.Context, id int64, in domain.TaskInput) (*domain.Task, error) {
	return s.mutate(ctx, "replace", id, func(task *domain.Task, now time.Time) {
		task.Replace(in, now)
	})
}

// Patch implements store.TaskStore.Patch
func (s *SQLiteTaskStore) Patch(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error) {
	return s.mutate(ctx, "patch", id, func(task *domain.Task, now time.Time) {
		task.ApplyPatch(p, now)
	})
}

// Delete implements store.TaskStore.Delete
func (s *SQLiteTaskStore) Delete(ctx context.Context, id int64) (*domain.Task, error) {
	query := `DELETE FROM tasks WHERE id = ?1 RETURNING ` + taskColumns
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, s.fail(ctx, "delete", id, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted successfully",
		slog.Int64("task_id", id))
	return task, nil
}

func (s *SQLiteTaskStore) mutate(
	ctx context.Context,
	operation string,
	id int64,
	apply func(task *domain.Task, now time.Time),
) (*domain.Task, error) {
	var result *domain.Task
	run := func(ctx context.Context, q store.DBTX) error {
		task, err := get(ctx, q, id)
		if err != nil {
			return err
		}

		apply(task, s.now())

		query := `
			UPDATE tasks
			SET title = ?1, description = ?2, completed = ?3, updated_at = ?4
			WHERE id = ?5
		`
		if _, err := q.ExecContext(ctx, query,
			task.Title,
			task.Description,
			task.Completed,
			task.UpdatedAt,
			task.ID,
		); err != nil {
			return err
		}

		result = task
		return nil
	}

	var err error
	if beginner, ok := s.db.(store.TxBeginner); ok {
		err = store.RunInTransaction(ctx, beginner, func(ctx context.Context, tx *sql.Tx) error {
			return run(ctx, tx)
		})
	} else {
		err = run(ctx, s.db)
	}
	if err != nil {
		return nil, s.fail(ctx, operation, id, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated successfully",
		slog.String("operation", operation),
		slog.Int64("task_id", id))
	return result, nil
}

// fail converts err into a store error and logs anything other than a missing task.
func (s *SQLiteTaskStore) fail(ctx context.Context, operation string, id int64, err error) error {
	err = taskError(operation, "failed to "+operation+" task", err)
	if !errors.Is(err, store.ErrTaskNotFound) {
		logger.FromContextOrDefault(ctx, s.logger).Error("task operation failed",
			slog.String("operation", operation),
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
	}
	return err
}

func get(ctx context.Context, q store.DBTX, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?1`
	return scanTask(q.QueryRowContext(ctx, query, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}
