package store

import (
	"context"
	"errors"

	"github.com/nhle/lmtodo/internal/model"
)

// Error taxonomy. Every error returned by the store wraps at most one of
// these so callers can branch with errors.Is.
var (
	// ErrInvalidInput marks an empty required field, an unknown enum value,
	// or a reference to a parent that does not exist. Nothing was written.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks an operation that targeted a nonexistent id.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable marks a database location that could not be
	// created, opened, or migrated.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store defines the persistence interface for projects, tasks and task
// comments.
type Store interface {
	// === Projects ===

	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	AddProject(ctx context.Context, name, description string) (*model.Project, error)
	EditProject(ctx context.Context, id int64, name, description string) error
	DeleteProject(ctx context.Context, id int64) error

	// === Tasks ===

	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	AddTask(ctx context.Context, title string, due model.Date, projectID int64) (*model.Task, error)
	EditTask(ctx context.Context, id int64, title string, due model.Date) error
	DeleteTask(ctx context.Context, id int64) error
	SetTaskStatus(ctx context.Context, id int64, status model.Status) error
	ToggleTaskStatus(ctx context.Context, id int64, status model.Status) (model.Status, error)

	// === Comments ===

	ListComments(ctx context.Context, taskID int64) ([]model.Comment, error)
	AddComment(ctx context.Context, taskID int64, body string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id string) error

	Close() error
}
