package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if taskStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskStore cannot be nil for TaskHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/tasks requests
//
//	@Summary		List tasks
//	@Description	Returns a page of tasks in creation order, optionally filtered by completion state.
//	@Tags			tasks
//	@Produce		json
//	@Param			page		query		int		false	"Page number"		default(1)
//	@Param			limit		query		int		false	"Items per page"	default(10)	minimum(1)	maximum(100)
//	@Param			completed	query		bool	false	"Filter by completion state"
//	@Success		200			{object}	TaskListEnvelope
//	@Failure		500			{object}	ErrorEnvelope
//	@Router			/api/tasks [get]
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	query := parseListQuery(r)
	log.Debug("listing tasks",
		slog.Int("page", query.Page),
		slog.Int("limit", query.Limit),
		slog.Bool("filtered", query.Completed != nil))

	page, err := h.taskStore.List(r.Context(), query.filter())
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("list tasks: %w", err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Success:    true,
		Data:       tasksToResponse(page.Tasks),
		Pagination: query.pagination(page.Total),
	})
}

// GetTask handles GET /api/tasks/{id} requests
//
//	@Summary	Get a task
//	@Tags		tasks
//	@Produce	json
//	@Param		id	path		int	true	"Task ID"
//	@Success	200	{object}	TaskEnvelope
//	@Failure	400	{object}	ErrorEnvelope
//	@Failure	404	{object}	ErrorEnvelope
//	@Router		/api/tasks/{id} [get]
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Success: true,
		Data:    taskToResponse(task),
	})
}

// CreateTask handles POST /api/tasks requests
//
//	@Summary	Create a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Param		task	body		TaskRequest	true	"Task to create"
//	@Success	201		{object}	TaskEnvelope
//	@Failure	400		{object}	ErrorEnvelope
//	@Router		/api/tasks [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req TaskRequest
	if err := decodeTaskRequest(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	input := req.toInput()
	if err := input.Validate(); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskStore.Create(r.Context(), input)
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("create task: %w", err))
		return
	}

	log.Info("task created", slog.Int64("task_id", task.ID))
	shared.RespondWithSuccess(w, r, http.StatusCreated, MsgTaskCreated, taskToResponse(task))
}

// ReplaceTask handles PUT /api/tasks/{id} requests
//
//	@Summary		Replace a task
//	@Description	Overwrites title and description. Completed changes only when provided.
//	@Tags			tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int			true	"Task ID"
//	@Param			task	body		TaskRequest	true	"Replacement task"
//	@Success		200		{object}	TaskEnvelope
//	@Failure		400		{object}	ErrorEnvelope
//	@Failure		404		{object}	ErrorEnvelope
//	@Router			/api/tasks/{id} [put]
func (h *TaskHandler) ReplaceTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, req, ok := h.prepareUpdate(w, r)
	if !ok {
		return
	}

	input := req.toInput()
	if err := input.Validate(); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskStore.Replace(r.Context(), id, input)
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("replace task: %w", err))
		return
	}

	log.Info("task replaced", slog.Int64("task_id", task.ID))
	shared.RespondWithSuccess(w, r, http.StatusOK, MsgTaskUpdated, taskToResponse(task))
}

// PatchTask handles PATCH /api/tasks/{id} requests
//
//	@Summary		Update part of a task
//	@Description	Updates only the fields present in the body.
//	@Tags			tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int			true	"Task ID"
//	@Param			task	body		TaskRequest	true	"Fields to update"
//	@Success		200		{object}	TaskEnvelope
//	@Failure		400		{object}	ErrorEnvelope
//	@Failure		404		{object}	ErrorEnvelope
//	@Router			/api/tasks/{id} [patch]
func (h *TaskHandler) PatchTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, req, ok := h.prepareUpdate(w, r)
	if !ok {
		return
	}

	patch := req.toPatch()
	if err := patch.Validate(); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskStore.Patch(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("patch task: %w", err))
		return
	}

	log.Info("task patched", slog.Int64("task_id", task.ID))
	shared.RespondWithSuccess(w, r, http.StatusOK, MsgTaskUpdated, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests
//
//	@Summary	Delete a task
//	@Tags		tasks
//	@Produce	json
//	@Param		id	path		int	true	"Task ID"
//	@Success	200	{object}	TaskEnvelope
//	@Failure	400	{object}	ErrorEnvelope
//	@Failure	404	{object}	ErrorEnvelope
//	@Router		/api/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskStore.Delete(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("delete task: %w", err))
		return
	}

	log.Info("task deleted", slog.Int64("task_id", task.ID))
	shared.RespondWithSuccess(w, r, http.StatusOK, MsgTaskDeleted, taskToResponse(task))
}

// prepareUpdate parses the id, confirms the task exists and decodes the body,
// in that order. It writes the error response and returns false on failure.
func (h *TaskHandler) prepareUpdate(w http.ResponseWriter, r *http.Request) (int64, TaskRequest, bool) {
	var req TaskRequest

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return 0, req, false
	}

	if _, err := h.taskStore.GetByID(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return 0, req, false
	}

	if err := decodeTaskRequest(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return 0, req, false
	}

	return id, req, true
}

// decodeTaskRequest reads a TaskRequest. An empty body is treated as an
// empty object so that it fails validation rather than parsing.
func decodeTaskRequest(w http.ResponseWriter, r *http.Request, req *TaskRequest) error {
	err := shared.DecodeJSON(w, r, req)
	switch {
	case err == nil, errors.Is(err, shared.ErrEmptyBody):
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrInvalidRequestFormat, err)
	}
}
