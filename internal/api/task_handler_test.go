package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taskBody mirrors the JSON envelope returned by the task endpoints.
type taskBody struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    TaskResponse `json:"data"`
	Errors  []string     `json:"errors"`
	Error   string       `json:"error"`
}

type listBody struct {
	Success    bool           `json:"success"`
	Data       []TaskResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// mockTaskStore is a func-field TaskStore for failure paths.
type mockTaskStore struct {
	ListFn    func(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error)
	GetByIDFn func(ctx context.Context, id int64) (*domain.Task, error)
	CreateFn  func(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	ReplaceFn func(ctx context.Context, id int64, in domain.TaskInput) (*domain.Task, error)
	PatchFn   func(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, id int64) (*domain.Task, error)
}

func (m *mockTaskStore) List(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error) {
	return m.ListFn(ctx, filter)
}

func (m *mockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockTaskStore) Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	return m.CreateFn(ctx, in)
}

func (m *mockTaskStore) Replace(ctx context.Context, id int64, in domain.TaskInput) (*domain.Task, error) {
	return m.ReplaceFn(ctx, id, in)
}

func (m *mockTaskStore) Patch(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error) {
	return m.PatchFn(ctx, id, p)
}

func (m *mockTaskStore) Delete(ctx context.Context, id int64) (*domain.Task, error) {
	return m.DeleteFn(ctx, id)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newTaskRouter(s store.TaskStore) http.Handler {
	h := NewTaskHandler(s, testLogger())
	r := chi.NewRouter()
	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Get("/{id}", h.GetTask)
		r.Put("/{id}", h.ReplaceTask)
		r.Patch("/{id}", h.PatchTask)
		r.Delete("/{id}", h.DeleteTask)
	})
	return r
}

func newMemoryRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTaskRouter(memory.NewTaskStore(testLogger(), memory.WithClock(steppingClock())))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) taskBody {
	t.Helper()
	var body taskBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) listBody {
	t.Helper()
	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func createTask(t *testing.T, h http.Handler, body string) TaskResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/tasks", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeTask(t, rec).Data
}

func TestNewTaskHandler_PanicsOnNilDependencies(t *testing.T) {
	assert.Panics(t, func() { NewTaskHandler(nil, testLogger()) })
	assert.Panics(t, func() { NewTaskHandler(memory.NewTaskStore(nil), nil) })
}

func TestTaskHandler_Lifecycle(t *testing.T) {
	h := newMemoryRouter(t)

	rec := do(t, h, http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeTask(t, rec)
	assert.True(t, created.Success)
	assert.Equal(t, MsgTaskCreated, created.Message)
	assert.Equal(t, int64(1), created.Data.ID)
	assert.Equal(t, "Buy milk", created.Data.Title)
	assert.Equal(t, "", created.Data.Description)
	assert.False(t, created.Data.Completed)
	assert.Equal(t, created.Data.CreatedAt, created.Data.UpdatedAt)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = do(t, h, http.MethodGet, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeTask(t, rec)
	assert.True(t, got.Success)
	assert.Empty(t, got.Message)
	assert.Equal(t, created.Data, got.Data)

	rec = do(t, h, http.MethodDelete, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decodeTask(t, rec)
	assert.Equal(t, MsgTaskDeleted, deleted.Message)
	assert.Equal(t, created.Data, deleted.Data)

	rec = do(t, h, http.MethodGet, "/api/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, MsgTaskNotFound, decodeTask(t, rec).Message)
}

func TestTaskHandler_CreateTask(t *testing.T) {
	t.Run("ids strictly increase", func(t *testing.T) {
		h := newMemoryRouter(t)
		var last int64
		for range 5 {
			task := createTask(t, h, `{"title":"t"}`)
			assert.Greater(t, task.ID, last)
			assert.False(t, task.UpdatedAt.Before(task.CreatedAt))
			last = task.ID
		}
	})

	t.Run("fields are trimmed", func(t *testing.T) {
		h := newMemoryRouter(t)
		task := createTask(t, h, `{"title":"  Write report  ","description":"  draft  ","completed":true}`)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, "draft", task.Description)
		assert.True(t, task.Completed)
	})

	t.Run("description at the limit is accepted", func(t *testing.T) {
		h := newMemoryRouter(t)
		body, err := json.Marshal(map[string]string{
			"title":       "t",
			"description": strings.Repeat("é", domain.MaxDescriptionLength),
		})
		require.NoError(t, err)
		task := createTask(t, h, string(body))
		assert.Equal(t, domain.MaxDescriptionLength, len([]rune(task.Description)))
	})

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
		wantErrors  []string
	}{
		{
			name:        "missing title",
			body:        `{"description":"x"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgInvalidTaskData,
			wantErrors:  []string{"title is required"},
		},
		{
			name:        "blank title",
			body:        `{"title":"   "}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgInvalidTaskData,
			wantErrors:  []string{"title is required"},
		},
		{
			name:        "null title",
			body:        `{"title":null}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgInvalidTaskData,
			wantErrors:  []string{"title is required"},
		},
		{
			name:        "empty body",
			body:        "",
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgInvalidTaskData,
			wantErrors:  []string{"title is required"},
		},
		{
			name:        "title too long",
			body:        `{"title":"` + strings.Repeat("a", domain.MaxTitleLength+1) + `"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgInvalidTaskData,
			wantErrors:  []string{"title must not exceed 200 characters"},
		},
		{
			name:        "every rule reported",
			body:        `{"title":"","description":"` + strings.Repeat("d", domain.MaxDescriptionLength+1) + `"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgInvalidTaskData,
			wantErrors:  []string{"title is required", "description must not exceed 1000 characters"},
		},
		{
			name:        "malformed json",
			body:        `{"title":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgInvalidRequestFormat,
		},
		{
			name:        "wrong field type",
			body:        `{"title":42}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgInvalidRequestFormat,
		},
		{
			name:        "array body",
			body:        `[{"title":"x"}]`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgInvalidRequestFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newMemoryRouter(t)
			rec := do(t, h, http.MethodPost, "/api/tasks", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeTask(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantErrors, body.Errors)

			list := decodeList(t, do(t, h, http.MethodGet, "/api/tasks", ""))
			assert.Zero(t, list.Pagination.Total)
		})
	}
}

func TestTaskHandler_ListTasks(t *testing.T) {
	h := newMemoryRouter(t)
	for i := range 12 {
		completed := i%3 == 0
		body, err := json.Marshal(map[string]any{"title": "task", "completed": completed})
		require.NoError(t, err)
		createTask(t, h, string(body))
	}

	tests := []struct {
		name           string
		query          string
		wantIDs        []int64
		wantPagination Pagination
	}{
		{
			name:           "defaults",
			query:          "",
			wantIDs:        []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			wantPagination: Pagination{Page: 1, Limit: 10, Total: 12, TotalPages: 2},
		},
		{
			name:           "second page",
			query:          "?page=2&limit=5",
			wantIDs:        []int64{6, 7, 8, 9, 10},
			wantPagination: Pagination{Page: 2, Limit: 5, Total: 12, TotalPages: 3},
		},
		{
			name:           "partial last page",
			query:          "?page=3&limit=5",
			wantIDs:        []int64{11, 12},
			wantPagination: Pagination{Page: 3, Limit: 5, Total: 12, TotalPages: 3},
		},
		{
			name:           "completed filter",
			query:          "?completed=true",
			wantIDs:        []int64{1, 4, 7, 10},
			wantPagination: Pagination{Page: 1, Limit: 10, Total: 4, TotalPages: 1},
		},
		{
			name:           "not completed filter paginated",
			query:          "?completed=false&limit=3&page=2",
			wantIDs:        []int64{6, 8, 9},
			wantPagination: Pagination{Page: 2, Limit: 3, Total: 8, TotalPages: 3},
		},
		{
			name:           "page out of range",
			query:          "?page=9",
			wantIDs:        []int64{},
			wantPagination: Pagination{Page: 9, Limit: 10, Total: 12, TotalPages: 2},
		},
		{
			name:           "negative page",
			query:          "?page=-1",
			wantIDs:        []int64{},
			wantPagination: Pagination{Page: -1, Limit: 10, Total: 12, TotalPages: 2},
		},
		{
			name:           "negative limit",
			query:          "?limit=-4",
			wantIDs:        []int64{},
			wantPagination: Pagination{Page: 1, Limit: -4, Total: 12, TotalPages: 0},
		},
		{
			name:           "zero falls back to defaults",
			query:          "?page=0&limit=0",
			wantIDs:        []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			wantPagination: Pagination{Page: 1, Limit: 10, Total: 12, TotalPages: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/tasks"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			body := decodeList(t, rec)
			assert.True(t, body.Success)
			require.NotNil(t, body.Data, "data must be an array, not omitted")

			ids := make([]int64, 0, len(body.Data))
			for _, task := range body.Data {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantPagination, body.Pagination)
		})
	}
}

func TestTaskHandler_ListTasks_EmptyStore(t *testing.T) {
	rec := do(t, newMemoryRouter(t), http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"success":true,"data":[],"pagination":{"page":1,"limit":10,"total":0,"totalPages":0}}`,
		rec.Body.String())
}

func TestTaskHandler_InvalidID(t *testing.T) {
	h := newMemoryRouter(t)
	createTask(t, h, `{"title":"t"}`)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		for _, raw := range []string{"abc", "1abc", "1.0"} {
			t.Run(method+" "+raw, func(t *testing.T) {
				rec := do(t, h, method, "/api/tasks/"+raw, `{"title":"x"}`)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, MsgInvalidTaskID, decodeTask(t, rec).Message)
			})
		}
	}

	got := decodeTask(t, do(t, h, http.MethodGet, "/api/tasks/1", ""))
	assert.Equal(t, "t", got.Data.Title, "a prefixed id never reaches task 1")
}

func TestTaskHandler_UnknownID(t *testing.T) {
	h := newMemoryRouter(t)
	createTask(t, h, `{"title":"keep me"}`)

	tests := []struct {
		method string
		body   string
	}{
		{http.MethodGet, ""},
		{http.MethodPut, `{"title":"x"}`},
		// existence is checked before the body is looked at
		{http.MethodPut, `{"title":""}`},
		{http.MethodPatch, `not json`},
		{http.MethodDelete, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.body, func(t *testing.T) {
			rec := do(t, h, tt.method, "/api/tasks/99", tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			body := decodeTask(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, MsgTaskNotFound, body.Message)
		})
	}

	list := decodeList(t, do(t, h, http.MethodGet, "/api/tasks", ""))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "keep me", list.Data[0].Title)
}

func TestTaskHandler_ReplaceTask(t *testing.T) {
	t.Run("overwrites title and description", func(t *testing.T) {
		h := newMemoryRouter(t)
		created := createTask(t, h, `{"title":"old","description":"old desc","completed":true}`)

		rec := do(t, h, http.MethodPut, "/api/tasks/1", `{"title":" new "}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeTask(t, rec)
		assert.Equal(t, MsgTaskUpdated, body.Message)
		assert.Equal(t, created.ID, body.Data.ID)
		assert.Equal(t, "new", body.Data.Title)
		assert.Equal(t, "", body.Data.Description)
		assert.True(t, body.Data.Completed, "completed is kept when omitted")
		assert.Equal(t, created.CreatedAt, body.Data.CreatedAt)
		assert.True(t, body.Data.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("sets completed when provided", func(t *testing.T) {
		h := newMemoryRouter(t)
		createTask(t, h, `{"title":"old","completed":true}`)

		rec := do(t, h, http.MethodPut, "/api/tasks/1", `{"title":"new","completed":false}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, decodeTask(t, rec).Data.Completed)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		h := newMemoryRouter(t)
		createTask(t, h, `{"title":"old"}`)

		rec := do(t, h, http.MethodPut, "/api/tasks/1", `{"title":" \t "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeTask(t, rec)
		assert.Equal(t, MsgInvalidTaskData, body.Message)
		assert.Equal(t, []string{"title is required"}, body.Errors)

		got := decodeTask(t, do(t, h, http.MethodGet, "/api/tasks/1", ""))
		assert.Equal(t, "old", got.Data.Title)
	})

	t.Run("null title rejected", func(t *testing.T) {
		h := newMemoryRouter(t)
		createTask(t, h, `{"title":"old"}`)

		rec := do(t, h, http.MethodPut, "/api/tasks/1", `{"title":null}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"title is required"}, decodeTask(t, rec).Errors)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := newMemoryRouter(t)
		createTask(t, h, `{"title":"old"}`)

		rec := do(t, h, http.MethodPut, "/api/tasks/1", `{"title":"x"} trailing`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, MsgInvalidRequestFormat, decodeTask(t, rec).Message)
	})
}

func TestTaskHandler_PatchTask(t *testing.T) {
	t.Run("completed only", func(t *testing.T) {
		h := newMemoryRouter(t)
		created := createTask(t, h, `{"title":"title","description":"desc"}`)

		rec := do(t, h, http.MethodPatch, "/api/tasks/1", `{"completed":true}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeTask(t, rec)
		assert.Equal(t, MsgTaskUpdated, body.Message)
		assert.Equal(t, "title", body.Data.Title)
		assert.Equal(t, "desc", body.Data.Description)
		assert.True(t, body.Data.Completed)
		assert.True(t, body.Data.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("empty object still refreshes updatedAt", func(t *testing.T) {
		h := newMemoryRouter(t)
		created := createTask(t, h, `{"title":"title"}`)

		rec := do(t, h, http.MethodPatch, "/api/tasks/1", `{}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeTask(t, rec)
		assert.Equal(t, created.Title, body.Data.Title)
		assert.True(t, body.Data.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("title trimmed", func(t *testing.T) {
		h := newMemoryRouter(t)
		createTask(t, h, `{"title":"title"}`)

		rec := do(t, h, http.MethodPatch, "/api/tasks/1", `{"title":"  renamed "}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "renamed", decodeTask(t, rec).Data.Title)
	})

	t.Run("present blank title rejected", func(t *testing.T) {
		h := newMemoryRouter(t)
		createTask(t, h, `{"title":"title"}`)

		rec := do(t, h, http.MethodPatch, "/api/tasks/1", `{"title":"  "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeTask(t, rec)
		assert.Equal(t, MsgInvalidTaskData, body.Message)
		assert.Equal(t, []string{"title cannot be empty"}, body.Errors)
	})

	t.Run("null title rejected and task unchanged", func(t *testing.T) {
		h := newMemoryRouter(t)
		createTask(t, h, `{"title":"title"}`)

		rec := do(t, h, http.MethodPatch, "/api/tasks/1", `{"title":null}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeTask(t, rec)
		assert.Equal(t, MsgInvalidTaskData, body.Message)
		assert.Equal(t, []string{"title cannot be empty"}, body.Errors)

		stored := decodeTask(t, do(t, h, http.MethodGet, "/api/tasks/1", ""))
		assert.Equal(t, "title", stored.Data.Title)
	})

	t.Run("null description clears it", func(t *testing.T) {
		h := newMemoryRouter(t)
		createTask(t, h, `{"title":"title","description":"desc"}`)

		rec := do(t, h, http.MethodPatch, "/api/tasks/1", `{"description":null}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeTask(t, rec)
		assert.Equal(t, "", body.Data.Description)
		assert.Equal(t, "title", body.Data.Title)
	})

	t.Run("null completed leaves it unchanged", func(t *testing.T) {
		h := newMemoryRouter(t)
		createTask(t, h, `{"title":"title","completed":true}`)

		rec := do(t, h, http.MethodPatch, "/api/tasks/1", `{"completed":null}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeTask(t, rec).Data.Completed)
	})

	t.Run("description too long", func(t *testing.T) {
		h := newMemoryRouter(t)
		createTask(t, h, `{"title":"title"}`)

		rec := do(t, h, http.MethodPatch, "/api/tasks/1",
			`{"description":"`+strings.Repeat("x", domain.MaxDescriptionLength+1)+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"description must not exceed 1000 characters"}, decodeTask(t, rec).Errors)
	})
}

func TestTaskHandler_DeleteTask_UnknownLeavesStoreUnchanged(t *testing.T) {
	h := newMemoryRouter(t)
	createTask(t, h, `{"title":"a"}`)
	createTask(t, h, `{"title":"b"}`)

	rec := do(t, h, http.MethodDelete, "/api/tasks/3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	list := decodeList(t, do(t, h, http.MethodGet, "/api/tasks", ""))
	assert.Equal(t, 2, list.Pagination.Total)
}

func TestTaskHandler_StoreFailures(t *testing.T) {
	storeErr := errors.New("query failed: SELECT id FROM tasks WHERE password=hunter2")
	existing := &domain.Task{ID: 1, Title: "t"}

	failing := &mockTaskStore{
		ListFn: func(context.Context, store.TaskFilter) (*store.TaskPage, error) {
			return nil, storeErr
		},
		GetByIDFn: func(context.Context, int64) (*domain.Task, error) {
			return existing, nil
		},
		CreateFn: func(context.Context, domain.TaskInput) (*domain.Task, error) {
			return nil, storeErr
		},
		ReplaceFn: func(context.Context, int64, domain.TaskInput) (*domain.Task, error) {
			return nil, storeErr
		},
		PatchFn: func(context.Context, int64, domain.TaskPatch) (*domain.Task, error) {
			return nil, storeErr
		},
		DeleteFn: func(context.Context, int64) (*domain.Task, error) {
			return nil, storeErr
		},
	}
	h := newTaskRouter(failing)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/tasks", ""},
		{http.MethodPost, "/api/tasks", `{"title":"t"}`},
		{http.MethodPut, "/api/tasks/1", `{"title":"t"}`},
		{http.MethodPatch, "/api/tasks/1", `{"completed":true}`},
		{http.MethodDelete, "/api/tasks/1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)

			body := decodeTask(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, "Internal server error", body.Message)
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, body.Error, "hunter2")
			assert.NotContains(t, body.Error, "SELECT")
		})
	}
}

func TestTaskHandler_GetTask_StoreFailure(t *testing.T) {
	h := newTaskRouter(&mockTaskStore{
		GetByIDFn: func(context.Context, int64) (*domain.Task, error) {
			return nil, store.NewStoreError("task", "get", "scan failed", errors.New("conn closed"))
		},
	})

	rec := do(t, h, http.MethodGet, "/api/tasks/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTaskHandler_BodyTooLarge(t *testing.T) {
	h := newMemoryRouter(t)
	big := bytes.Repeat([]byte("a"), 2<<20)
	body := `{"title":"` + string(big) + `"}`

	rec := do(t, h, http.MethodPost, "/api/tasks", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MsgInvalidRequestFormat, decodeTask(t, rec).Message)
}
