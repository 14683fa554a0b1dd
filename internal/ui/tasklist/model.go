package tasklist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lmtodo/internal/keys"
	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
	"github.com/nhle/lmtodo/internal/theme"
	"github.com/nhle/lmtodo/internal/view"
)

// TasksLoadedMsg is sent when a task load finishes. Seq identifies the load
// so superseded results can be dropped.
type TasksLoadedMsg struct {
	Seq   uint64
	Tasks []model.Task
	Err   error
}

// SelectedTaskMsg is sent when the user opens a task.
type SelectedTaskMsg struct {
	Task model.Task
}

// Model is the task list view. The view engine decides which tasks are
// shown; this model renders them and forwards criteria changes.
type Model struct {
	list     list.Model
	store    store.Store
	keys     *keys.KeyMap
	engine   *view.Engine
	sel      *selection
	projects []model.Project
	loaded   bool
	width    int
	height   int
}

// New creates a new task list model around engine.
func New(s store.Store, k *keys.KeyMap, engine *view.Engine, width, height int) Model {
	sel := &selection{}
	l := list.New([]list.Item{}, ItemDelegate{sel: sel}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("task", "tasks")
	l.DisableQuitKeybindings()

	return Model{
		list:   l,
		store:  s,
		keys:   k,
		engine: engine,
		sel:    sel,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		if msg.Err != nil {
			return m, nil
		}
		if !m.engine.ApplySnapshot(msg.Seq, msg.Tasks) {
			return m, nil
		}
		m.loaded = true
		cmd := m.syncItems()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Select):
		t, ok := m.engine.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return SelectedTaskMsg{Task: t} }

	case key.Matches(msg, m.keys.NextFilter):
		cmd = m.SetFilter(m.engine.Criteria().Filter.Next())
	case key.Matches(msg, m.keys.PrevFilter):
		cmd = m.SetFilter(m.engine.Criteria().Filter.Prev())
	case key.Matches(msg, m.keys.FilterAll):
		cmd = m.SetFilter(view.FilterAll)
	case key.Matches(msg, m.keys.FilterOnTime):
		cmd = m.SetFilter(view.FilterOnTime)
	case key.Matches(msg, m.keys.FilterOverdue):
		cmd = m.SetFilter(view.FilterOverdue)
	case key.Matches(msg, m.keys.FilterOpen):
		cmd = m.SetFilter(view.FilterOpen)
	case key.Matches(msg, m.keys.FilterFinished):
		cmd = m.SetFilter(view.FilterFinished)
	case key.Matches(msg, m.keys.FilterCancelled):
		cmd = m.SetFilter(view.FilterCancelled)

	case key.Matches(msg, m.keys.CycleSort):
		cmd = m.SetSort(m.engine.Criteria().Sort.Next())

	case key.Matches(msg, m.keys.NextProject):
		cmd = m.SetScope(m.stepScope(1))
	case key.Matches(msg, m.keys.PrevProject):
		cmd = m.SetScope(m.stepScope(-1))
	case key.Matches(msg, m.keys.AllProjects):
		cmd = m.SetScope(view.AllProjects)

	case !m.sel.active && len(m.engine.Visible()) > 0 &&
		(key.Matches(msg, m.keys.Up) || key.Matches(msg, m.keys.Down)):
		// The first move after the selection was cleared picks the top row.
		m.engine.SelectIndex(0)
		m.sel.active = true
		m.list.Select(0)

	default:
		prev := m.list.Index()
		m.list, cmd = m.list.Update(msg)
		if m.sel.active || m.list.Index() != prev {
			m.engine.SelectIndex(m.list.Index())
			m.sel.active = m.engine.SelectedIndex() >= 0
		}
	}

	return m, cmd
}

// stepScope moves the scope through "all projects" and each project in
// id order.
func (m Model) stepScope(step int) view.Scope {
	scopes := make([]view.Scope, 0, len(m.projects)+1)
	scopes = append(scopes, view.AllProjects)
	for _, p := range m.projects {
		scopes = append(scopes, view.ProjectScope(p.ID))
	}

	cur := 0
	for i, s := range scopes {
		if s == m.engine.Criteria().Scope {
			cur = i
			break
		}
	}
	n := len(scopes)
	return scopes[((cur+step)%n+n)%n]
}

// SetFilter changes the status filter.
func (m *Model) SetFilter(f view.StatusFilter) tea.Cmd {
	m.engine.SetFilter(f)
	return m.syncItems()
}

// SetSort changes the sort key.
func (m *Model) SetSort(k view.SortKey) tea.Cmd {
	m.engine.SetSort(k)
	return m.syncItems()
}

// SetScope changes the project scope.
func (m *Model) SetScope(s view.Scope) tea.Cmd {
	m.engine.SetScope(s)
	return m.syncItems()
}

// SetToday re-evaluates date-relative filters for a new day.
func (m *Model) SetToday(d model.Date) tea.Cmd {
	m.engine.Refresh(d)
	return m.syncItems()
}

// SetProjects updates the known projects. A scope pointing at a project
// that no longer exists falls back to all projects.
func (m *Model) SetProjects(projects []model.Project) tea.Cmd {
	m.projects = projects
	if !m.engine.Criteria().Scope.Valid(projects) {
		m.engine.SetScope(view.AllProjects)
	}
	return m.syncItems()
}

// Projects returns the projects last passed to SetProjects.
func (m Model) Projects() []model.Project {
	return m.projects
}

// Scope returns the current project scope.
func (m Model) Scope() view.Scope {
	return m.engine.Criteria().Scope
}

// Selected returns the selected task, if any.
func (m Model) Selected() (model.Task, bool) {
	return m.engine.Selected()
}

// Select selects the task with id once it is visible.
func (m *Model) Select(id int64) {
	if m.engine.Select(id) {
		m.list.Select(m.engine.SelectedIndex())
		m.sel.active = true
	}
}

// CriteriaSummary describes the scope, filter and sort for the header.
func (m Model) CriteriaSummary() string {
	c := m.engine.Criteria()
	return fmt.Sprintf("%s · %s · by %s",
		c.Scope.Label(m.projects), c.Filter, c.Sort.Label())
}

// syncItems rebuilds the list rows from the engine's visible tasks and
// moves the cursor to the selected task.
func (m *Model) syncItems() tea.Cmd {
	names := make(map[int64]string, len(m.projects))
	for _, p := range m.projects {
		names[p.ID] = p.Name
	}

	visible := m.engine.Visible()
	showProject := m.engine.Criteria().Scope.IsAll()
	today := m.engine.Today()

	items := make([]list.Item, len(visible))
	for i, t := range visible {
		item := TaskItem{Task: t, Due: view.DueState(t, today)}
		if showProject {
			item.Project = names[t.ProjectID]
		}
		items[i] = item
	}
	cmd := m.list.SetItems(items)

	if idx := m.engine.SelectedIndex(); idx >= 0 {
		m.list.Select(idx)
		m.sel.active = true
	} else {
		m.list.Select(0)
		m.sel.active = false
	}
	return cmd
}

// View renders the task list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case !m.loaded:
		return style.Render("Loading tasks...")
	case len(m.projects) == 0:
		return style.Render("No projects yet.\n\nPress 'p' to create one, then 'n' to add a task.")
	case len(m.engine.Snapshot()) > 0:
		return style.Render("No matching tasks.\nPress 'f' to change the filter or '0' for all projects.")
	default:
		return style.Render("No tasks yet.\n\nPress 'n' to add one.")
	}
}

// LoadTasks returns a tea.Cmd that loads every task. The load is numbered
// by the engine; only the most recent one is applied.
func (m Model) LoadTasks() tea.Cmd {
	seq := m.engine.BeginLoad()
	s := m.store
	return func() tea.Msg {
		tasks, err := s.ListTasks(context.Background())
		return TasksLoadedMsg{Seq: seq, Tasks: tasks, Err: err}
	}
}

// Reload invalidates the snapshot after a mutation and loads it again.
func (m Model) Reload() tea.Cmd {
	m.engine.Invalidate()
	return m.LoadTasks()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}

// SetStore swaps the backing store after the database moved.
func (m *Model) SetStore(s store.Store) {
	m.store = s
}
