package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/lmtodo/internal/model"
)

// ListComments returns the comments of a task, oldest first.
func (s *SQLiteStore) ListComments(ctx context.Context, taskID int64) ([]model.Comment, error) {
	comments := []model.Comment{}
	err := s.db.SelectContext(ctx, &comments, `
		SELECT id, task_id, body, created_at
		FROM task_comments
		WHERE task_id = ?
		ORDER BY created_at, rowid`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying comments of task %d: %w", taskID, err)
	}
	return comments, nil
}

// AddComment attaches a new comment to a task.
func (s *SQLiteStore) AddComment(ctx context.Context, taskID int64, body string) (*model.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, invalidf("comment must not be empty")
	}

	c := model.Comment{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := rowExists(ctx, tx, "SELECT COUNT(*) FROM tasks WHERE id = ?", taskID)
		if err != nil {
			return fmt.Errorf("checking task %d: %w", taskID, err)
		}
		if !exists {
			return invalidf("task %d does not exist", taskID)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO task_comments (id, task_id, body, created_at) VALUES (?, ?, ?, ?)",
			c.ID, c.TaskID, c.Body, c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("adding comment to task %d: %w", taskID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// DeleteComment removes a comment by id.
func (s *SQLiteStore) DeleteComment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM task_comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comment %s: %w", id, err)
	}
	return checkAffected(result, "comment %s", id)
}
