package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/lmtodo/internal/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		task(1, 1, model.StatusOpen, today.AddDays(-3), today.AddDays(-1)),
		task(2, 1, model.StatusOpen, today.AddDays(-2), today.AddDays(1)),
		task(3, 2, model.StatusComplete, today.AddDays(-1), model.Date{}),
	}
}

func TestEngineSelectionSurvivesRecompute(t *testing.T) {
	e := NewEngine(Criteria{Filter: FilterAll}, today)
	assert.True(t, e.ApplySnapshot(e.BeginLoad(), sampleTasks()))

	assert.True(t, e.Select(2))
	assert.Equal(t, 1, e.SelectedIndex())

	e.SetSort(SortDue)
	assert.Equal(t, []int64{1, 2, 3}, ids(e.Visible()))

	e.SetFilter(FilterOnTime)
	assert.Equal(t, 0, e.SelectedIndex())
	sel, ok := e.Selected()
	assert.True(t, ok)
	assert.Equal(t, int64(2), sel.ID)

	e.SetFilter(FilterOverdue)
	assert.Equal(t, -1, e.SelectedIndex())

	// Cleared, not remembered: the task does not come back selected.
	e.SetFilter(FilterAll)
	assert.Equal(t, -1, e.SelectedIndex())
}

func TestEngineDropsStaleLoads(t *testing.T) {
	e := NewEngine(Criteria{Filter: FilterAll}, today)
	assert.True(t, e.Stale())

	first := e.BeginLoad()
	second := e.BeginLoad()

	assert.True(t, e.ApplySnapshot(second, sampleTasks()))
	assert.False(t, e.ApplySnapshot(first, sampleTasks()[:1]))
	assert.Len(t, e.Visible(), 3)
	assert.False(t, e.Stale())

	e.Invalidate()
	assert.True(t, e.Stale())
	assert.True(t, e.ApplySnapshot(e.BeginLoad(), sampleTasks()[:2]))
	assert.Len(t, e.Visible(), 2)
}

func TestEngineSnapshotIsCopied(t *testing.T) {
	tasks := sampleTasks()
	e := NewEngine(Criteria{Filter: FilterAll}, today)
	e.ApplySnapshot(e.BeginLoad(), tasks)

	tasks[0].Title = "changed behind the engine's back"
	assert.Equal(t, "task", e.Snapshot()[0].Title)
}

func TestEngineRefreshMovesTasksToOverdue(t *testing.T) {
	e := NewEngine(Criteria{Filter: FilterOnTime}, today)
	e.ApplySnapshot(e.BeginLoad(), sampleTasks())
	assert.Equal(t, []int64{2}, ids(e.Visible()))
	e.SelectIndex(0)

	e.Refresh(today.AddDays(2))

	assert.Empty(t, e.Visible())
	assert.Equal(t, -1, e.SelectedIndex())

	e.SetFilter(FilterOverdue)
	assert.Equal(t, []int64{1, 2}, ids(e.Visible()))
}

func TestEngineScope(t *testing.T) {
	e := NewEngine(Criteria{Filter: FilterAll}, today)
	e.ApplySnapshot(e.BeginLoad(), sampleTasks())
	e.Select(3)

	e.SetScope(ProjectScope(1))
	assert.Equal(t, []int64{1, 2}, ids(e.Visible()))
	_, ok := e.Selected()
	assert.False(t, ok)

	e.SetCriteria(Criteria{Scope: ProjectScope(2), Filter: FilterFinished})
	assert.Equal(t, []int64{3}, ids(e.Visible()))

	e.SelectIndex(5)
	assert.Equal(t, -1, e.SelectedIndex())
}

func TestEngineDayFuncIsReadOnEveryRecompute(t *testing.T) {
	day := today
	e := NewEngine(Criteria{Filter: FilterOnTime}, today)
	e.SetDayFunc(func() model.Date { return day })
	e.ApplySnapshot(e.BeginLoad(), sampleTasks())
	assert.Equal(t, []int64{2}, ids(e.Visible()))

	day = today.AddDays(2)
	e.SetFilter(FilterOverdue)
	assert.Equal(t, []int64{1, 2}, ids(e.Visible()))
	assert.Equal(t, day, e.Today())

	e.ApplySnapshot(e.BeginLoad(), sampleTasks())
	assert.Equal(t, []int64{1, 2}, ids(e.Visible()))
}
