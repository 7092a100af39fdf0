package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
)

// TaskRequest is the body of create, replace and patch requests.
// Pointer fields distinguish an omitted field from its zero value.
type TaskRequest struct {
	Title       *string `json:"title"       example:"Buy milk"`
	Description *string `json:"description" example:"2 litres, semi-skimmed"`
	Completed   *bool   `json:"completed"   example:"false"`
}

// UnmarshalJSON decodes req and turns an explicit null title or description
// into the empty string. A null title then fails validation the same way a
// blank one does, and a null description clears the field. A null completed
// is left unset.
func (req *TaskRequest) UnmarshalJSON(data []byte) error {
	type plain TaskRequest
	if err := json.Unmarshal(data, (*plain)(req)); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for key, raw := range fields {
		if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		switch {
		case strings.EqualFold(key, "title") && req.Title == nil:
			req.Title = new(string)
		case strings.EqualFold(key, "description") && req.Description == nil:
			req.Description = new(string)
		}
	}
	return nil
}

func (req TaskRequest) toInput() domain.TaskInput {
	return domain.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
}

func (req TaskRequest) toPatch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID          int64     `json:"id"          example:"1"`
	Title       string    `json:"title"       example:"Buy milk"`
	Description string    `json:"description" example:""`
	Completed   bool      `json:"completed"   example:"false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Pagination describes the page returned by the list endpoint.
type Pagination struct {
	Page       int `json:"page"       example:"1"`
	Limit      int `json:"limit"      example:"10"`
	Total      int `json:"total"      example:"42"`
	TotalPages int `json:"totalPages" example:"5"`
}

// TaskEnvelope documents a single-task response.
type TaskEnvelope struct {
	Success bool         `json:"success" example:"true"`
	Message string       `json:"message,omitempty" example:"Task created successfully"`
	Data    TaskResponse `json:"data"`
}

// TaskListEnvelope documents the list response.
type TaskListEnvelope struct {
	Success    bool           `json:"success" example:"true"`
	Data       []TaskResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// ErrorEnvelope documents an error response.
type ErrorEnvelope struct {
	Success bool     `json:"success" example:"false"`
	Message string   `json:"message" example:"Invalid task data"`
	Errors  []string `json:"errors,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// HealthResponse is the body of the liveness endpoint.
type HealthResponse struct {
	Status      string `json:"status"      example:"OK"`
	Timestamp   string `json:"timestamp"   example:"2025-06-17T22:21:22.000Z"`
	Environment string `json:"environment" example:"development"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
