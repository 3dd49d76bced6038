package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"questd/pkg/types"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening an existing database must not fail on schema setup.
	s2, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestTaskCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	task, err := s.InsertTask(ctx, types.TaskDraft{
		Title:       "Water the plants",
		Description: "help me add a task to water the plants",
		Type:        types.TaskSide,
	})
	require.NoError(t, err)
	require.Len(t, task.ID, 26) // ULID
	require.False(t, task.Done)
	require.NotZero(t, task.CreatedAt)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, task.ID, tasks[0].ID)
	require.Equal(t, "Water the plants", tasks[0].Title)
	require.Equal(t, types.TaskSide, tasks[0].Type)

	task.Done = true
	task.CompletedAt = task.CreatedAt + 60
	require.NoError(t, s.UpdateTask(ctx, task))

	tasks, err = s.ListTasks(ctx)
	require.NoError(t, err)
	require.True(t, tasks[0].Done)
	require.Equal(t, task.CompletedAt, tasks[0].CompletedAt)

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	tasks, err = s.ListTasks(ctx)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestListTasksNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.InsertTask(ctx, types.TaskDraft{Title: "first", Type: types.TaskSide})
	require.NoError(t, err)
	second, err := s.InsertTask(ctx, types.TaskDraft{Title: "second", Type: types.TaskSide})
	require.NoError(t, err)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, second.ID, tasks[0].ID)
	require.Equal(t, first.ID, tasks[1].ID)
}

func TestUpdateUnknownTask(t *testing.T) {
	s := openTestStore(t)
	err := s.UpdateTask(context.Background(), types.Task{ID: "nope", Type: types.TaskSide})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUnknownTask(t *testing.T) {
	s := openTestStore(t)
	require.ErrorIs(t, s.DeleteTask(context.Background(), "nope"), ErrNotFound)
}

func TestRewardCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r, err := s.InsertReward(ctx, "movie night", 50)
	require.NoError(t, err)
	require.Len(t, r.ID, 26)
	require.Equal(t, 50, r.Cost)

	rewards, err := s.ListRewards(ctx)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	require.Equal(t, "movie night", rewards[0].Name)

	require.NoError(t, s.DeleteReward(ctx, r.ID))
	require.ErrorIs(t, s.DeleteReward(ctx, r.ID), ErrNotFound)
}
