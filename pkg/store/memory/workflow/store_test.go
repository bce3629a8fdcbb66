package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/de-tools/workflow-builder/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newDoc(title string, createdAt time.Time) *store.Workflow {
	return &store.Workflow{
		Title:     title,
		Steps:     []store.Step{{ID: "1", Instruction: "do " + title, Executor: "ai"}},
		CreatedAt: ptr(createdAt),
		UpdatedAt: ptr(createdAt),
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	created := time.Date(2025, 6, 13, 8, 0, 0, 0, time.UTC)

	id, err := s.Create(ctx, newDoc("first", created))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, []store.Step{{ID: "1", Instruction: "do first", Executor: "ai"}}, got.Steps)
	assert.True(t, created.Equal(*got.CreatedAt))

	t.Run("returned documents are copies", func(t *testing.T) {
		got.Steps[0].Instruction = "mutated"
		again, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "do first", again.Steps[0].Instruction)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2025, 6, 13, 8, 0, 0, 0, time.UTC)

	for i, title := range []string{"one", "two", "three"} {
		_, err := s.Create(ctx, newDoc(title, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	workflows, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, workflows, 3)
	assert.Equal(t, "three", workflows[0].Title)
	assert.Equal(t, "two", workflows[1].Title)
	assert.Equal(t, "one", workflows[2].Title)
}

func TestStore_ListBreaksTiesByID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	same := time.Date(2025, 6, 13, 8, 0, 0, 0, time.UTC)

	for _, title := range []string{"one", "two", "three"} {
		_, err := s.Create(ctx, newDoc(title, same))
		require.NoError(t, err)
	}

	workflows, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, workflows, 3)
	assert.Equal(t, "three", workflows[0].Title)
	assert.Equal(t, "one", workflows[2].Title)
}

func TestStore_Update(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	created := time.Date(2025, 6, 13, 8, 0, 0, 0, time.UTC)
	id, err := s.Create(ctx, newDoc("first", created))
	require.NoError(t, err)

	t.Run("overwrites title and steps", func(t *testing.T) {
		updated := created.Add(time.Hour)
		err := s.Update(ctx, id, store.WorkflowUpdate{
			Title:     "renamed",
			Steps:     []store.Step{{ID: "2", Instruction: "call", Executor: "human", AssignedHuman: "Jason Mao"}},
			UpdatedAt: updated,
		})
		require.NoError(t, err)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
		assert.Len(t, got.Steps, 1)
		assert.Equal(t, "Jason Mao", got.Steps[0].AssignedHuman)
		assert.True(t, created.Equal(*got.CreatedAt))
		assert.True(t, updated.Equal(*got.UpdatedAt))
	})

	t.Run("unknown id", func(t *testing.T) {
		err := s.Update(ctx, "missing", store.WorkflowUpdate{Title: "x"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStore_SetRunning(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	id, err := s.Create(ctx, newDoc("first", time.Now()))
	require.NoError(t, err)

	require.NoError(t, s.SetRunning(ctx, id, true))
	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.IsRunning)
	assert.True(t, *got.IsRunning)

	assert.ErrorIs(t, s.SetRunning(ctx, "missing", true), store.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	id, err := s.Create(ctx, newDoc("first", time.Now()))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	t.Run("unknown id is not an error", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, "missing"))
	})
}

func TestStore_DeleteIsNotUndoneByConcurrentWrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		id, err := s.Create(ctx, newDoc("first", time.Now()))
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = s.SetRunning(ctx, id, true)
		}()
		go func() {
			defer wg.Done()
			_ = s.Update(ctx, id, store.WorkflowUpdate{Title: "renamed", UpdatedAt: time.Now()})
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Delete(ctx, id))
		}()
		wg.Wait()

		_, err = s.Get(ctx, id)
		require.ErrorIs(t, err, store.ErrNotFound, "iteration %d", i)
	}
}
