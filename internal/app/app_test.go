package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lmtodo/internal/clock"
	"github.com/nhle/lmtodo/internal/keys"
	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
	"github.com/nhle/lmtodo/internal/ui/command"
	"github.com/nhle/lmtodo/internal/ui/confirm"
	"github.com/nhle/lmtodo/internal/ui/taskform"
	"github.com/nhle/lmtodo/internal/view"
	"github.com/nhle/lmtodo/tests/testutil"
)

var today = model.Date{Year: 2025, Month: 6, Day: 15}

// exec runs cmd and feeds every resulting message back into m. Commands
// that do not answer promptly (timers, cursor blinks) are dropped.
func exec(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 100; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		out := make(chan tea.Msg, 1)
		go func() { out <- next() }()

		var msg tea.Msg
		select {
		case msg = <-out:
		case <-time.After(200 * time.Millisecond):
			continue
		}

		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			if _, quit := msg.(tea.QuitMsg); quit {
				continue
			}
			var mdl tea.Model
			mdl, next = m.Update(msg)
			m = mdl.(Model)
			queue = append(queue, next)
		}
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	mdl, cmd := m.Update(msg)
	return exec(t, mdl.(Model), cmd)
}

func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

type fixture struct {
	store *store.SQLiteStore
	clock *testutil.Clock
	cfg   *model.AppConfig
	work  model.Project
	home  model.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := testutil.NewClock(today)
	s := testutil.NewTestStore(t, store.WithClock(c.Now))
	f := &fixture{
		store: s,
		clock: c,
		cfg: &model.AppConfig{General: model.GeneralConfig{
			DBPath:         ":memory:",
			DefaultProject: "Home",
			DefaultFilter:  "All",
			DefaultSort:    "creation",
		}},
	}
	f.work = testutil.MustProject(t, s, "Work")
	f.home = testutil.MustProject(t, s, "Home")
	return f
}

func (f *fixture) start(t *testing.T) Model {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	m := New(f.store, f.cfg, cfgPath, keys.DefaultKeyMap(), WithClock(clock.New(f.clock.Now)))
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return exec(t, m, m.Init())
}

func visibleTitles(m Model) []string {
	var out []string
	for _, t := range m.engine.Visible() {
		out = append(out, t.Title)
	}
	return out
}

func TestStartupResolvesDefaultProject(t *testing.T) {
	f := newFixture(t)
	testutil.MustTask(t, f.store, f.work.ID, "report", model.Date{})
	testutil.MustTask(t, f.store, f.home.ID, "dishes", model.Date{})

	m := f.start(t)

	assert.Equal(t, view.ProjectScope(f.home.ID), m.engine.Criteria().Scope)
	assert.Equal(t, view.FilterAll, m.engine.Criteria().Filter)
	assert.Equal(t, []string{"dishes"}, visibleTitles(m))
	assert.Contains(t, m.View(), "Home")
}

func TestAddTaskSelectsIt(t *testing.T) {
	f := newFixture(t)
	testutil.MustTask(t, f.store, f.home.ID, "dishes", model.Date{})
	m := f.start(t)

	m = send(t, m, taskform.SubmittedMsg{Title: "laundry", Due: today.AddDays(2), ProjectID: f.home.ID})

	assert.Equal(t, []string{"dishes", "laundry"}, visibleTitles(m))
	sel, ok := m.engine.Selected()
	require.True(t, ok)
	assert.Equal(t, "laundry", sel.Title)
	assert.Equal(t, "Task added", m.status)
}

func TestCompleteHidesTaskUnderOpenFilter(t *testing.T) {
	f := newFixture(t)
	f.cfg.General.DefaultFilter = "Open"
	task := testutil.MustTask(t, f.store, f.home.ID, "dishes", model.Date{})
	m := f.start(t)
	m.taskList.Select(task.ID)

	m = press(t, m, "x")

	got, err := f.store.GetTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusComplete, got.Status)
	assert.Empty(t, visibleTitles(m))
	_, ok := m.engine.Selected()
	assert.False(t, ok)
}

func TestDeleteTaskNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	task := testutil.MustTask(t, f.store, f.home.ID, "dishes", model.Date{})
	m := f.start(t)
	m.taskList.Select(task.ID)

	m = press(t, m, "d")
	assert.Equal(t, ViewConfirm, m.currentView)

	m = send(t, m, confirm.ResultMsg{Action: actionDeleteTask, ID: task.ID})
	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, []string{"dishes"}, visibleTitles(m))

	m = send(t, m, confirm.ResultMsg{Action: actionDeleteTask, ID: task.ID, Confirmed: true})
	assert.Empty(t, visibleTitles(m))
	assert.Equal(t, "Task deleted", m.status)
}

func TestDayChangeMovesTaskToOverdue(t *testing.T) {
	f := newFixture(t)
	f.cfg.General.DefaultFilter = "Overdue"
	testutil.MustTask(t, f.store, f.home.ID, "rent", today)
	m := f.start(t)
	assert.Empty(t, visibleTitles(m))

	f.clock.Set(today.AddDays(1))
	mdl, _ := m.Update(clock.DayChangedMsg{Today: today.AddDays(1)})
	m = mdl.(Model)

	assert.Equal(t, []string{"rent"}, visibleTitles(m))
}

func TestFilterUsesCurrentDayWithoutTick(t *testing.T) {
	f := newFixture(t)
	f.cfg.General.DefaultFilter = "Open"
	testutil.MustTask(t, f.store, f.home.ID, "rent", today)
	m := f.start(t)
	require.Equal(t, []string{"rent"}, visibleTitles(m))

	// Midnight passes but the timer has not fired yet.
	f.clock.Set(today.AddDays(1))
	m = send(t, m, command.CommandMsg{Command: command.Command{Verb: command.VerbFilter, Arg: "overdue"}})
	assert.Equal(t, []string{"rent"}, visibleTitles(m))
	assert.Equal(t, today.AddDays(1), m.engine.Today())

	m = exec(t, m, m.taskList.Reload())
	assert.Equal(t, []string{"rent"}, visibleTitles(m))

	m = send(t, m, command.CommandMsg{Command: command.Command{Verb: command.VerbFilter, Arg: "on time"}})
	assert.Empty(t, visibleTitles(m))
}

func TestStoreErrorShownInStatusBar(t *testing.T) {
	f := newFixture(t)
	m := f.start(t)

	m = send(t, m, taskform.SubmittedMsg{Title: "orphan", ProjectID: 999})

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "invalid input")
	assert.Contains(t, m.View(), "invalid input")
}

func TestAddTaskWithoutProjects(t *testing.T) {
	c := testutil.NewClock(today)
	s := testutil.NewTestStore(t, store.WithClock(c.Now))
	cfg := &model.AppConfig{General: model.GeneralConfig{DBPath: ":memory:"}}
	m := New(s, cfg, filepath.Join(t.TempDir(), "c.yaml"), keys.DefaultKeyMap(), WithClock(clock.New(c.Now)))
	m = exec(t, m, m.Init())

	m = press(t, m, "n")
	assert.Equal(t, ViewList, m.currentView)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, errNoProjects.Error())
}

func TestPaletteCommands(t *testing.T) {
	f := newFixture(t)
	testutil.MustTask(t, f.store, f.work.ID, "report", today.AddDays(-1))
	testutil.MustTask(t, f.store, f.home.ID, "dishes", model.Date{})
	m := f.start(t)

	m = send(t, m, command.CommandMsg{Command: command.Command{Verb: command.VerbScope, Arg: "all projects"}})
	m = send(t, m, command.CommandMsg{Command: command.Command{Verb: command.VerbFilter, Arg: "overdue"}})
	assert.Equal(t, []string{"report"}, visibleTitles(m))

	m = send(t, m, command.CommandMsg{Command: command.Command{Verb: command.VerbScope, Arg: "Nope"}})
	assert.True(t, m.statusErr)
	assert.True(t, m.engine.Criteria().Scope.IsAll())

	m = send(t, m, command.CommandMsg{Command: command.Command{Verb: command.VerbSort, Arg: "Status"}})
	assert.Equal(t, view.SortStatus, m.engine.Criteria().Sort)
}

func TestDeletedScopeProjectFallsBackToAll(t *testing.T) {
	f := newFixture(t)
	testutil.MustTask(t, f.store, f.work.ID, "report", model.Date{})
	testutil.MustTask(t, f.store, f.home.ID, "dishes", model.Date{})
	m := f.start(t)
	require.Equal(t, view.ProjectScope(f.home.ID), m.engine.Criteria().Scope)

	require.NoError(t, f.store.DeleteProject(context.Background(), f.home.ID))
	m = press(t, m, "r")

	assert.True(t, m.engine.Criteria().Scope.IsAll())
	assert.Equal(t, []string{"report"}, visibleTitles(m))
}

func TestResultsFromSwappedOutStoreAreDropped(t *testing.T) {
	f := newFixture(t)
	testutil.MustTask(t, f.store, f.home.ID, "dishes", model.Date{})
	m := f.start(t)

	// Started against the old store, finished after the switch.
	pendingLoad := m.taskList.LoadTasks()
	pendingSave := createTask(f.store, "laundry", model.Date{}, f.home.ID)
	pendingProjects := loadProjects(f.store)

	next := testutil.NewTestStore(t, store.WithClock(f.clock.Now))
	home := testutil.MustProject(t, next, "Home")
	testutil.MustTask(t, next, home.ID, "moved", model.Date{})
	m = send(t, m, settingsAppliedMsg{store: next, cfg: f.cfg})
	require.NoError(t, f.store.Close())

	m = send(t, m, pendingLoad())
	assert.False(t, m.statusErr)
	m = send(t, m, pendingSave())
	m = send(t, m, pendingProjects())

	assert.False(t, m.statusErr)
	assert.Equal(t, msgSwappedOut, m.status)
	assert.Equal(t, []string{"moved"}, visibleTitles(m))
	assert.Equal(t, []model.Project{home}, m.taskList.Projects())
}
