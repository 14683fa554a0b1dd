package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T, opts ...store.Option) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:", opts...)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// Clock is a settable time source for store.WithClock.
type Clock struct {
	now time.Time
}

// NewClock returns a Clock fixed at noon local time on day.
func NewClock(day model.Date) *Clock {
	return &Clock{now: time.Date(day.Year, day.Month, day.Day, 12, 0, 0, 0, time.Local)}
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time { return c.now }

// Set moves the clock to noon on day.
func (c *Clock) Set(day model.Date) {
	c.now = time.Date(day.Year, day.Month, day.Day, 12, 0, 0, 0, time.Local)
}

// Today returns the clock's calendar day.
func (c *Clock) Today() model.Date { return model.DateOf(c.now) }

// MustProject creates a project or fails the test.
func MustProject(t *testing.T, s store.Store, name string) model.Project {
	t.Helper()
	p, err := s.AddProject(context.Background(), name, "")
	if err != nil {
		t.Fatalf("adding project %q: %v", name, err)
	}
	return *p
}

// MustTask creates a task or fails the test.
func MustTask(t *testing.T, s store.Store, projectID int64, title string, due model.Date) model.Task {
	t.Helper()
	task, err := s.AddTask(context.Background(), title, due, projectID)
	if err != nil {
		t.Fatalf("adding task %q: %v", title, err)
	}
	return *task
}

// MustStatus sets a task's status or fails the test.
func MustStatus(t *testing.T, s store.Store, id int64, status model.Status) {
	t.Helper()
	if err := s.SetTaskStatus(context.Background(), id, status); err != nil {
		t.Fatalf("setting status of task %d: %v", id, err)
	}
}
