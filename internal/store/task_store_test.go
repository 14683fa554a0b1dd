package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
	"github.com/nhle/lmtodo/tests/testutil"
)

var day = model.Date{Year: 2025, Month: 3, Day: 14}

func TestAddTask(t *testing.T) {
	clock := testutil.NewClock(day)
	s := testutil.NewTestStore(t, store.WithClock(clock.Now))
	ctx := context.Background()
	p := testutil.MustProject(t, s, "A")

	due := day.AddDays(3)
	task, err := s.AddTask(ctx, "  write report ", due, p.ID)
	require.NoError(t, err)

	assert.NotZero(t, task.ID)
	assert.Equal(t, "write report", task.Title)
	assert.Equal(t, model.StatusOpen, task.Status)
	assert.Equal(t, day, task.CreationDate)
	assert.Equal(t, due, task.DueDate)
	assert.True(t, task.CloseDate.IsZero())
	assert.Equal(t, p.ID, task.ProjectID)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, *task, *got)
}

func TestAddTaskWithoutDueDate(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.MustProject(t, s, "A")

	task := testutil.MustTask(t, s, p.ID, "someday", model.Date{})

	got, err := s.GetTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.True(t, got.DueDate.IsZero())
}

func TestAddTaskRejectsInvalidInput(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	p := testutil.MustProject(t, s, "A")
	testutil.MustTask(t, s, p.ID, "existing", model.Date{})

	_, err := s.AddTask(ctx, "", day, p.ID)
	assert.True(t, errors.Is(err, store.ErrInvalidInput), "got %v", err)

	_, err = s.AddTask(ctx, "orphan", day, p.ID+99)
	assert.True(t, errors.Is(err, store.ErrInvalidInput), "got %v", err)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestEditTaskKeepsStatus(t *testing.T) {
	clock := testutil.NewClock(day)
	s := testutil.NewTestStore(t, store.WithClock(clock.Now))
	ctx := context.Background()
	p := testutil.MustProject(t, s, "A")
	task := testutil.MustTask(t, s, p.ID, "draft", day)
	testutil.MustStatus(t, s, task.ID, model.StatusComplete)

	clock.Set(day.AddDays(5))
	require.NoError(t, s.EditTask(ctx, task.ID, "final", day.AddDays(10)))

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, day.AddDays(10), got.DueDate)
	assert.Equal(t, model.StatusComplete, got.Status)
	assert.Equal(t, day, got.CloseDate)
	assert.Equal(t, day, got.CreationDate)
}

func TestEditTaskErrors(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	p := testutil.MustProject(t, s, "A")
	task := testutil.MustTask(t, s, p.ID, "draft", day)

	err := s.EditTask(ctx, task.ID, "", day)
	assert.True(t, errors.Is(err, store.ErrInvalidInput), "got %v", err)

	err = s.EditTask(ctx, task.ID+1, "x", day)
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
}

func TestDeleteTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	p := testutil.MustProject(t, s, "A")
	task := testutil.MustTask(t, s, p.ID, "gone", day)
	other := testutil.MustTask(t, s, p.ID, "kept", day)

	require.NoError(t, s.DeleteTask(ctx, task.ID))

	_, err := s.GetTask(ctx, task.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
	_, err = s.GetTask(ctx, other.ID)
	assert.NoError(t, err)

	err = s.DeleteTask(ctx, task.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
}

func TestSetTaskStatusCloseDate(t *testing.T) {
	clock := testutil.NewClock(day)
	s := testutil.NewTestStore(t, store.WithClock(clock.Now))
	ctx := context.Background()
	p := testutil.MustProject(t, s, "A")
	task := testutil.MustTask(t, s, p.ID, "ship it", day.AddDays(1))

	require.NoError(t, s.SetTaskStatus(ctx, task.ID, model.StatusComplete))
	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusComplete, got.Status)
	assert.Equal(t, day, got.CloseDate)

	// Same status again the next day: nothing changes.
	clock.Set(day.AddDays(1))
	require.NoError(t, s.SetTaskStatus(ctx, task.ID, model.StatusComplete))
	got, err = s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, day, got.CloseDate)

	// Switching between closed statuses restamps the close date.
	require.NoError(t, s.SetTaskStatus(ctx, task.ID, model.StatusCancelled))
	got, err = s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)
	assert.Equal(t, day.AddDays(1), got.CloseDate)

	require.NoError(t, s.SetTaskStatus(ctx, task.ID, model.StatusOpen))
	got, err = s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, got.Status)
	assert.True(t, got.CloseDate.IsZero())
}

func TestSetTaskStatusErrors(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	p := testutil.MustProject(t, s, "A")
	task := testutil.MustTask(t, s, p.ID, "x", day)

	err := s.SetTaskStatus(ctx, task.ID, model.Status("done"))
	assert.True(t, errors.Is(err, store.ErrInvalidInput), "got %v", err)

	err = s.SetTaskStatus(ctx, task.ID+1, model.StatusComplete)
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, got.Status)
}

func TestToggleTaskStatus(t *testing.T) {
	clock := testutil.NewClock(day)
	s := testutil.NewTestStore(t, store.WithClock(clock.Now))
	ctx := context.Background()
	p := testutil.MustProject(t, s, "A")
	task := testutil.MustTask(t, s, p.ID, "x", day)

	st, err := s.ToggleTaskStatus(ctx, task.ID, model.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, st)

	st, err = s.ToggleTaskStatus(ctx, task.ID, model.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, st)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, got.Status)
	assert.True(t, got.CloseDate.IsZero())

	_, err = s.ToggleTaskStatus(ctx, task.ID+1, model.StatusComplete)
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
}

func TestStatusAlwaysValidAfterMutations(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	p := testutil.MustProject(t, s, "A")

	var ids []int64
	for i := 0; i < 6; i++ {
		ids = append(ids, testutil.MustTask(t, s, p.ID, "t", day).ID)
	}

	steps := []model.Status{
		model.StatusComplete, model.Status("bogus"), model.StatusCancelled,
		model.StatusOpen, model.Status(""), model.StatusComplete,
	}
	for i, st := range steps {
		_ = s.SetTaskStatus(ctx, ids[i], st)
		_, _ = s.ToggleTaskStatus(ctx, ids[(i+1)%len(ids)], st)
	}

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	for _, task := range tasks {
		assert.True(t, task.Status.Valid(), "task %d has status %q", task.ID, task.Status)
		if task.IsOpen() {
			assert.True(t, task.CloseDate.IsZero(), "open task %d has a close date", task.ID)
		} else {
			assert.False(t, task.CloseDate.IsZero(), "closed task %d has no close date", task.ID)
		}
	}
}
