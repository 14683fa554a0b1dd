// Package view computes which tasks are visible, and in what order, for a
// project scope, a status filter and a sort key.
package view

import (
	"slices"

	"github.com/nhle/lmtodo/internal/model"
)

// Criteria is the (scope, filter, sort) triple the view is derived from.
type Criteria struct {
	Scope  Scope
	Filter StatusFilter
	Sort   SortKey
}

// DefaultCriteria builds the startup criteria from configuration. Unknown
// values fall back to all projects, Open and creation.
func DefaultCriteria(cfg model.GeneralConfig, projects []model.Project) Criteria {
	return Criteria{
		Scope:  ResolveScope(cfg.DefaultProject, projects),
		Filter: StatusFilterOrDefault(cfg.DefaultFilter),
		Sort:   SortKeyOrDefault(cfg.DefaultSort),
	}
}

// Recompute returns the tasks of snapshot that pass c on the given day,
// ordered by c.Sort with ties broken by id. snapshot is not modified.
func Recompute(snapshot []model.Task, c Criteria, today model.Date) []model.Task {
	visible := make([]model.Task, 0, len(snapshot))
	for _, t := range snapshot {
		if !c.Scope.Includes(t) {
			continue
		}
		if !c.Filter.Includes(t, today) {
			continue
		}
		visible = append(visible, t)
	}

	slices.SortStableFunc(visible, c.Sort.compareTasks)
	return visible
}

// Reselect returns the position of the task with id prevID in visible, or
// -1 when it is gone.
func Reselect(visible []model.Task, prevID int64) int {
	return slices.IndexFunc(visible, func(t model.Task) bool {
		return t.ID == prevID
	})
}
