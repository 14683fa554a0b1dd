package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/lmtodo/internal/model"
)

const taskColumns = `id, title, status, creation_date, due_date, close_date,
	COALESCE(project_id, 0) AS project_id`

// ListTasks returns every task across all projects. Order is unspecified;
// ordering belongs to the view engine.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks := []model.Task{}
	if err := s.db.SelectContext(ctx, &tasks, "SELECT "+taskColumns+" FROM tasks"); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	return tasks, nil
}

// GetTask retrieves a single task by id.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	return getTask(ctx, s.db, id)
}

func getTask(ctx context.Context, q sqlx.QueryerContext, id int64) (*model.Task, error) {
	var t model.Task
	err := sqlx.GetContext(ctx, q, &t, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf("task %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}
	return &t, nil
}

// AddTask creates an open task dated today in the given project.
func (s *SQLiteStore) AddTask(
	ctx context.Context,
	title string,
	due model.Date,
	projectID int64,
) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalidf("task title must not be empty")
	}

	task := model.Task{
		Title:        title,
		Status:       model.StatusOpen,
		CreationDate: s.today(),
		DueDate:      due,
		ProjectID:    projectID,
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := rowExists(ctx, tx, "SELECT COUNT(*) FROM projects WHERE id = ?", projectID)
		if err != nil {
			return fmt.Errorf("checking project %d: %w", projectID, err)
		}
		if !exists {
			return invalidf("project %d does not exist", projectID)
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (title, status, creation_date, due_date, close_date, project_id)
			VALUES (?, ?, ?, ?, NULL, ?)`,
			task.Title, string(task.Status), task.CreationDate, task.DueDate, task.ProjectID,
		)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}
		task.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading new task id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// EditTask updates the title and due date. Status and close date are left
// untouched.
func (s *SQLiteStore) EditTask(ctx context.Context, id int64, title string, due model.Date) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalidf("task title must not be empty")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET title = ?, due_date = ? WHERE id = ?",
		title, due, id,
	)
	if err != nil {
		return fmt.Errorf("updating task %d: %w", id, err)
	}
	return checkAffected(result, "task %d", id)
}

// DeleteTask removes a task and its comments.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM task_comments WHERE task_id = ?", id); err != nil {
			return fmt.Errorf("deleting comments of task %d: %w", id, err)
		}
		result, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting task %d: %w", id, err)
		}
		return checkAffected(result, "task %d", id)
	})
}

// SetTaskStatus moves a task to status. Leaving open stamps the close date
// with today, returning to open clears it. Setting the current status again
// changes nothing.
func (s *SQLiteStore) SetTaskStatus(ctx context.Context, id int64, status model.Status) error {
	if !status.Valid() {
		return invalidf("unknown status %q", status)
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := currentStatus(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.applyStatus(ctx, tx, id, current, status)
	})
}

// ToggleTaskStatus sets status, or reopens the task when it already has
// that status. It returns the status the task ends up with.
func (s *SQLiteStore) ToggleTaskStatus(
	ctx context.Context,
	id int64,
	status model.Status,
) (model.Status, error) {
	if !status.Valid() {
		return "", invalidf("unknown status %q", status)
	}

	var next model.Status
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := currentStatus(ctx, tx, id)
		if err != nil {
			return err
		}
		next = status
		if current == status {
			next = model.StatusOpen
		}
		return s.applyStatus(ctx, tx, id, current, next)
	})
	if err != nil {
		return "", err
	}
	return next, nil
}

func currentStatus(ctx context.Context, tx *sqlx.Tx, id int64) (model.Status, error) {
	var current model.Status
	err := tx.GetContext(ctx, &current, "SELECT status FROM tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", notFoundf("task %d", id)
	}
	if err != nil {
		return "", fmt.Errorf("reading status of task %d: %w", id, err)
	}
	return current, nil
}

// applyStatus writes next with the matching close date. It is a no-op when
// next equals current.
func (s *SQLiteStore) applyStatus(
	ctx context.Context,
	tx *sqlx.Tx,
	id int64,
	current, next model.Status,
) error {
	if current == next {
		return nil
	}

	var closeDate model.Date
	if next != model.StatusOpen {
		closeDate = s.today()
	}

	_, err := tx.ExecContext(ctx,
		"UPDATE tasks SET status = ?, close_date = ? WHERE id = ?",
		string(next), closeDate, id,
	)
	if err != nil {
		return fmt.Errorf("updating status of task %d: %w", id, err)
	}
	return nil
}
