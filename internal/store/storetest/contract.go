// Package storetest holds the behavioural tests every store.TaskStore
// implementation must pass. Engine packages call RunTaskStoreTests from their
// own tests with a factory that returns an empty store.
package storetest

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) store.TaskStore

// RunTaskStoreTests exercises the full TaskStore contract against stores
// produced by newStore.
func RunTaskStoreTests(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("create assigns increasing ids", func(t *testing.T) {
		testCreate(t, newStore(t))
	})
	t.Run("get by id", func(t *testing.T) {
		testGetByID(t, newStore(t))
	})
	t.Run("list filters and paginates", func(t *testing.T) {
		testList(t, newStore(t))
	})
	t.Run("replace", func(t *testing.T) {
		testReplace(t, newStore(t))
	})
	t.Run("patch", func(t *testing.T) {
		testPatch(t, newStore(t))
	})
	t.Run("delete", func(t *testing.T) {
		testDelete(t, newStore(t))
	})
	t.Run("concurrent creates", func(t *testing.T) {
		testConcurrentCreate(t, newStore(t))
	})
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Input builds a create input with only a title.
func Input(title string) domain.TaskInput {
	return domain.TaskInput{Title: Ptr(title)}
}

func testCreate(t *testing.T, s store.TaskStore) {
	ctx := context.Background()

	first, err := s.Create(ctx, domain.TaskInput{
		Title:       Ptr("  Buy milk  "),
		Description: Ptr(" 2 litres "),
	})
	require.NoError(t, err)
	second, err := s.Create(ctx, Input("Walk dog"))
	require.NoError(t, err)

	assert.Greater(t, first.ID, int64(0))
	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, "Buy milk", first.Title)
	assert.Equal(t, "2 litres", first.Description)
	assert.False(t, first.Completed)
	assert.False(t, first.UpdatedAt.Before(first.CreatedAt))

	completed, err := s.Create(ctx, domain.TaskInput{Title: Ptr("done"), Completed: Ptr(true)})
	require.NoError(t, err)
	assert.True(t, completed.Completed)
}

func testGetByID(t *testing.T, s store.TaskStore) {
	ctx := context.Background()

	created, err := s.Create(ctx, domain.TaskInput{
		Title:       Ptr("Read book"),
		Description: Ptr(strings.Repeat("é", domain.MaxDescriptionLength)),
	})
	require.NoError(t, err)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assertSameTask(t, created, got)

	_, err = s.GetByID(ctx, created.ID+1000)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func testList(t *testing.T, s store.TaskStore) {
	ctx := context.Background()

	for i, title := range []string{"a", "b", "c", "d", "e"} {
		_, err := s.Create(ctx, domain.TaskInput{
			Title:     Ptr(title),
			Completed: Ptr(i%2 == 0),
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		filter    store.TaskFilter
		wantTotal int
		want      []string
	}{
		{"first page", store.TaskFilter{Offset: 0, Limit: 2}, 5, []string{"a", "b"}},
		{"second page", store.TaskFilter{Offset: 2, Limit: 2}, 5, []string{"c", "d"}},
		{"last partial page", store.TaskFilter{Offset: 4, Limit: 2}, 5, []string{"e"}},
		{"offset past end", store.TaskFilter{Offset: 6, Limit: 2}, 5, []string{}},
		{"completed", store.TaskFilter{Completed: Ptr(true), Limit: 10}, 3, []string{"a", "c", "e"}},
		{"not completed", store.TaskFilter{Completed: Ptr(false), Limit: 10}, 2, []string{"b", "d"}},
		{"completed second page", store.TaskFilter{Completed: Ptr(true), Offset: 2, Limit: 2}, 3, []string{"e"}},
		{"negative offset", store.TaskFilter{Offset: -1, Limit: 10}, 5, []string{}},
		{"negative limit", store.TaskFilter{Limit: -5}, 5, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := s.List(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.wantTotal, page.Total)

			titles := make([]string, 0, len(page.Tasks))
			for _, task := range page.Tasks {
				titles = append(titles, task.Title)
			}
			assert.Equal(t, tc.want, titles)
		})
	}
}

func testReplace(t *testing.T, s store.TaskStore) {
	ctx := context.Background()

	created, err := s.Create(ctx, domain.TaskInput{
		Title:       Ptr("old"),
		Description: Ptr("old description"),
		Completed:   Ptr(true),
	})
	require.NoError(t, err)

	replaced, err := s.Replace(ctx, created.ID, domain.TaskInput{Title: Ptr(" new ")})
	require.NoError(t, err)
	assert.Equal(t, created.ID, replaced.ID)
	assert.Equal(t, "new", replaced.Title)
	assert.Equal(t, "", replaced.Description)
	assert.True(t, replaced.Completed)
	assert.True(t, replaced.CreatedAt.Equal(created.CreatedAt))
	assert.False(t, replaced.UpdatedAt.Before(created.UpdatedAt))

	reopened, err := s.Replace(ctx, created.ID, domain.TaskInput{
		Title:     Ptr("new"),
		Completed: Ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, reopened.Completed)

	stored, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assertSameTask(t, reopened, stored)

	_, err = s.Replace(ctx, created.ID+1000, Input("missing"))
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func testPatch(t *testing.T, s store.TaskStore) {
	ctx := context.Background()

	created, err := s.Create(ctx, domain.TaskInput{
		Title:       Ptr("title"),
		Description: Ptr("keep me"),
	})
	require.NoError(t, err)

	patched, err := s.Patch(ctx, created.ID, domain.TaskPatch{Completed: Ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "title", patched.Title)
	assert.Equal(t, "keep me", patched.Description)
	assert.True(t, patched.Completed)
	assert.False(t, patched.UpdatedAt.Before(created.UpdatedAt))

	renamed, err := s.Patch(ctx, created.ID, domain.TaskPatch{Title: Ptr(" renamed ")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.Title)
	assert.True(t, renamed.Completed)

	stored, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assertSameTask(t, renamed, stored)

	_, err = s.Patch(ctx, created.ID+1000, domain.TaskPatch{})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func testDelete(t *testing.T, s store.TaskStore) {
	ctx := context.Background()

	a, err := s.Create(ctx, Input("a"))
	require.NoError(t, err)
	b, err := s.Create(ctx, Input("b"))
	require.NoError(t, err)

	removed, err := s.Delete(ctx, a.ID)
	require.NoError(t, err)
	assertSameTask(t, a, removed)

	_, err = s.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = s.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	page, err := s.List(ctx, store.TaskFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, b.ID, page.Tasks[0].ID)

	c, err := s.Create(ctx, Input("c"))
	require.NoError(t, err)
	assert.Greater(t, c.ID, b.ID, "ids are never reused")
}

func testConcurrentCreate(t *testing.T, s store.TaskStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const workers = 20
	ids := make(chan int64, workers)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := s.Create(ctx, Input("concurrent"))
			if err != nil {
				errs <- err
				return
			}
			ids <- task.ID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[int64]bool, workers)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func assertSameTask(t *testing.T, want, got *domain.Task) {
	t.Helper()

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.Completed, got.Completed)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt %s != %s", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updatedAt %s != %s", want.UpdatedAt, got.UpdatedAt)
}
