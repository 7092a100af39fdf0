package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// Client-facing messages.
const (
	MsgInvalidTaskID        = "Invalid task ID"
	MsgTaskNotFound         = "Task not found"
	MsgInvalidTaskData      = "Invalid task data"
	MsgInvalidRequestFormat = "Invalid request format"
	MsgTaskAlreadyExists    = "Task already exists"
	MsgTaskCreated          = "Task created successfully"
	MsgTaskUpdated          = "Task updated successfully"
	MsgTaskDeleted          = "Task deleted successfully"
)

// ErrInvalidRequestFormat marks a request body that is not a JSON object of
// the expected shape.
var ErrInvalidRequestFormat = errors.New("invalid request format")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, ErrInvalidRequestFormat),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return shared.InternalErrorMessage
	case errors.Is(err, domain.ErrInvalidID):
		return MsgInvalidTaskID
	case errors.Is(err, ErrInvalidRequestFormat):
		return MsgInvalidRequestFormat
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return MsgInvalidTaskData
	case errors.Is(err, store.ErrNotFound):
		return MsgTaskNotFound
	case errors.Is(err, store.ErrDuplicate):
		return MsgTaskAlreadyExists
	default:
		return shared.InternalErrorMessage
	}
}

// HandleAPIError writes the response for err. Validation errors list every
// failed rule; everything else gets its mapped status and safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		shared.RespondWithValidationErrors(w, r, MsgInvalidTaskData, validationErr.Messages)
		return
	}

	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
