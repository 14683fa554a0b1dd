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

const projectColumns = "id, name, COALESCE(description, '') AS description"

// ListProjects retrieves all projects ordered by id.
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]model.Project, error) {
	projects := []model.Project{}
	err := s.db.SelectContext(ctx, &projects,
		"SELECT "+projectColumns+" FROM projects ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	return projects, nil
}

// GetProject retrieves a single project by id.
func (s *SQLiteStore) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	var p model.Project
	err := s.db.GetContext(ctx, &p,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf("project %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %d: %w", id, err)
	}
	return &p, nil
}

// AddProject inserts a new project and returns it with its assigned id.
func (s *SQLiteStore) AddProject(ctx context.Context, name, description string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("project name must not be empty")
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO projects (name, description) VALUES (?, ?)",
		name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading new project id: %w", err)
	}

	return &model.Project{ID: id, Name: name, Description: description}, nil
}

// EditProject renames a project and replaces its description.
func (s *SQLiteStore) EditProject(ctx context.Context, id int64, name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalidf("project name must not be empty")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE projects SET name = ?, description = ? WHERE id = ?",
		name, description, id,
	)
	if err != nil {
		return fmt.Errorf("updating project %d: %w", id, err)
	}
	return checkAffected(result, "project %d", id)
}

// DeleteProject removes a project together with its tasks and their
// comments in one transaction. The cascade is done here rather than left to
// the foreign key pragma.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := rowExists(ctx, tx, "SELECT COUNT(*) FROM projects WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("checking project %d: %w", id, err)
		}
		if !exists {
			return notFoundf("project %d", id)
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM task_comments WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)",
			id,
		); err != nil {
			return fmt.Errorf("deleting comments of project %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE project_id = ?", id); err != nil {
			return fmt.Errorf("deleting tasks of project %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting project %d: %w", id, err)
		}
		return nil
	})
}

// rowExists runs a COUNT(*) query and reports whether it found anything.
func rowExists(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, query, args...); err != nil {
		return false, err
	}
	return n > 0, nil
}
