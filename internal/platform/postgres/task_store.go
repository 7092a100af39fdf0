package postgres

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

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
		now:    time.Now,
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a new store that runs every query inside tx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
		now:    s.now,
	}
}

// WithClock returns a copy of the store using now as its time source.
func (s *PostgresTaskStore) WithClock(now func() time.Time) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:     s.db,
		logger: s.logger,
		now:    now,
	}
}

// timestamp returns the current time at the precision PostgreSQL stores.
func (s *PostgresTaskStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	completed := sql.NullBool{}
	if filter.Completed != nil {
		completed = sql.NullBool{Bool: *filter.Completed, Valid: true}
	}

	var page *store.TaskPage
	err := s.inTx(ctx, listTxOptions, func(ctx context.Context, q store.DBTX) error {
		var err error
		page, err = listPage(ctx, q, completed, filter)
		return err
	})
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, taskError("list", "failed to list tasks", err)
	}

	log.Debug("listed tasks",
		slog.Int("total", page.Total),
		slog.Int("returned", len(page.Tasks)))
	return page, nil
}

// listTxOptions gives the count and the page query one snapshot.
var listTxOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

func listPage(ctx context.Context, q store.DBTX, completed sql.NullBool, filter store.TaskFilter) (*store.TaskPage, error) {
	page := &store.TaskPage{Tasks: []*domain.Task{}}

	countQuery := `
		SELECT COUNT(*)
		FROM tasks
		WHERE ($1::boolean IS NULL OR completed = $1)
	`
	if err := q.QueryRowContext(ctx, countQuery, completed).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	if filter.Offset < 0 || filter.Limit <= 0 || filter.Offset >= page.Total {
		return page, nil
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ($1::boolean IS NULL OR completed = $1)
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.QueryContext(ctx, query, completed, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving task by ID", slog.Int64("task_id", id))

	task, err := s.get(ctx, s.db, id, false)
	if err != nil {
		err = taskError("get", "failed to get task", err)
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found", slog.Int64("task_id", id))
		} else {
			log.Error("failed to get task",
				slog.Int64("task_id", id),
				slog.String("error", err.Error()))
		}
		return nil, err
	}
	return task, nil
}

// Create implements store.TaskStore.Create
// The ID is assigned by the identity column.
func (s *PostgresTaskStore) Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task := domain.NewTask(in, s.timestamp())

	query := `
		INSERT INTO tasks (title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
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
		log.Error("failed to create task", slog.String("error", err.Error()))
		return nil, taskError("create", "failed to insert task", err)
	}

	log.Info("task created successfully", slog.Int64("task_id", task.ID))
	return task, nil
}

// Replace implements store.TaskStore.Replace
// The row is locked, rewritten and saved in one transaction.
func (s *PostgresTaskStore) Replace(ctx context.Context, id int64, in domain.TaskInput) (*domain.Task, error) {
	return s.mutate(ctx, "replace", id, func(task *domain.Task, now time.Time) {
		task.Replace(in, now)
	})
}

// Patch implements store.TaskStore.Patch
func (s *PostgresTaskStore) Patch(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error) {
	return s.mutate(ctx, "patch", id, func(task *domain.Task, now time.Time) {
		task.ApplyPatch(p, now)
	})
}

// Delete implements store.TaskStore.Delete
// Returns the row as it was before removal.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1 RETURNING ` + taskColumns
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		err = taskError("delete", "failed to delete task", err)
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Error("failed to delete task",
				slog.Int64("task_id", id),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return task, nil
}

func (s *PostgresTaskStore) mutate(
	ctx context.Context,
	operation string,
	id int64,
	apply func(task *domain.Task, now time.Time),
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *domain.Task
	err := s.inTx(ctx, nil, func(ctx context.Context, q store.DBTX) error {
		task, err := s.get(ctx, q, id, true)
		if err != nil {
			return err
		}

		apply(task, s.timestamp())

		query := `
			UPDATE tasks
			SET title = $1, description = $2, completed = $3, updated_at = $4
			WHERE id = $5
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
	})
	if err != nil {
		err = taskError(operation, "failed to update task", err)
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Error("failed to update task",
				slog.String("operation", operation),
				slog.Int64("task_id", id),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	log.Info("task updated successfully",
		slog.String("operation", operation),
		slog.Int64("task_id", id))
	return result, nil
}

// inTx runs fn in a new transaction when the store holds a pool, or directly
// on the current transaction otherwise. opts only applies to a new transaction.
func (s *PostgresTaskStore) inTx(
	ctx context.Context,
	opts *sql.TxOptions,
	fn func(ctx context.Context, q store.DBTX) error,
) error {
	beginner, ok := s.db.(store.TxBeginner)
	if !ok {
		return fn(ctx, s.db)
	}
	return store.RunInTransactionWithOptions(ctx, beginner, opts, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, tx)
	})
}

func (s *PostgresTaskStore) get(ctx context.Context, q store.DBTX, id int64, forUpdate bool) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
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
