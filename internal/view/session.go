package view

import (
	"slices"

	"github.com/nhle/lmtodo/internal/model"
)

// Engine holds the task snapshot, the current criteria and the selection,
// and keeps the visible list in step with them.
//
// Loads are numbered: BeginLoad issues a sequence number and ApplySnapshot
// accepts only the most recently issued one, so a slow load can never
// overwrite the result of a newer one.
type Engine struct {
	criteria Criteria
	today    model.Date
	day      func() model.Date

	snapshot []model.Task
	visible  []model.Task

	selectedID int64
	selected   bool

	seq   uint64
	stale bool
}

// NewEngine returns an engine with an empty snapshot that is marked stale
// until the first load is applied.
func NewEngine(c Criteria, today model.Date) *Engine {
	return &Engine{criteria: c, today: today, stale: true}
}

// SetDayFunc makes every recompute read the current day from day, so
// date-relative filters never run against a stale date. Refresh then only
// forces a recompute.
func (e *Engine) SetDayFunc(day func() model.Date) {
	e.day = day
}

// BeginLoad issues the sequence number for a new load.
func (e *Engine) BeginLoad() uint64 {
	e.seq++
	return e.seq
}

// ApplySnapshot replaces the snapshot with tasks if seq is the latest
// issued load. It reports whether the snapshot was accepted.
func (e *Engine) ApplySnapshot(seq uint64, tasks []model.Task) bool {
	if seq != e.seq {
		return false
	}
	e.snapshot = slices.Clone(tasks)
	e.stale = false
	e.recompute()
	return true
}

// Invalidate marks the snapshot as out of date after a mutation.
func (e *Engine) Invalidate() {
	e.stale = true
}

// Stale reports whether a reload is owed.
func (e *Engine) Stale() bool {
	return e.stale
}

// Seq returns the most recently issued load number.
func (e *Engine) Seq() uint64 {
	return e.seq
}

// Criteria returns the current criteria.
func (e *Engine) Criteria() Criteria {
	return e.criteria
}

// Today returns the day date-relative filters are evaluated against.
func (e *Engine) Today() model.Date {
	return e.today
}

// SetCriteria replaces all criteria and recomputes.
func (e *Engine) SetCriteria(c Criteria) {
	e.criteria = c
	e.recompute()
}

// SetScope changes the project scope and recomputes.
func (e *Engine) SetScope(s Scope) {
	e.criteria.Scope = s
	e.recompute()
}

// SetFilter changes the status filter and recomputes.
func (e *Engine) SetFilter(f StatusFilter) {
	e.criteria.Filter = f
	e.recompute()
}

// SetSort changes the sort key and recomputes.
func (e *Engine) SetSort(k SortKey) {
	e.criteria.Sort = k
	e.recompute()
}

// Refresh re-evaluates the view against a new day.
func (e *Engine) Refresh(today model.Date) {
	e.today = today
	e.recompute()
}

// Visible returns the ordered visible tasks. The slice must not be
// modified.
func (e *Engine) Visible() []model.Task {
	return e.visible
}

// Snapshot returns the full task set last applied.
func (e *Engine) Snapshot() []model.Task {
	return e.snapshot
}

// Select marks the task with id as selected if it is visible.
func (e *Engine) Select(id int64) bool {
	if Reselect(e.visible, id) < 0 {
		return false
	}
	e.selectedID, e.selected = id, true
	return true
}

// SelectIndex selects the visible task at i. An out-of-range index clears
// the selection.
func (e *Engine) SelectIndex(i int) {
	if i < 0 || i >= len(e.visible) {
		e.ClearSelection()
		return
	}
	e.selectedID, e.selected = e.visible[i].ID, true
}

// ClearSelection drops the selection.
func (e *Engine) ClearSelection() {
	e.selectedID, e.selected = 0, false
}

// SelectedIndex returns the position of the selected task in the visible
// list, or -1.
func (e *Engine) SelectedIndex() int {
	if !e.selected {
		return -1
	}
	return Reselect(e.visible, e.selectedID)
}

// Selected returns the selected task.
func (e *Engine) Selected() (model.Task, bool) {
	i := e.SelectedIndex()
	if i < 0 {
		return model.Task{}, false
	}
	return e.visible[i], true
}

// recompute rebuilds the visible list and keeps the selection only if the
// selected task is still visible.
func (e *Engine) recompute() {
	if e.day != nil {
		e.today = e.day()
	}
	e.visible = Recompute(e.snapshot, e.criteria, e.today)
	if e.selected && Reselect(e.visible, e.selectedID) < 0 {
		e.ClearSelection()
	}
}
