package app

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lmtodo/internal/clock"
	"github.com/nhle/lmtodo/internal/keys"
	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
	"github.com/nhle/lmtodo/internal/ui"
	"github.com/nhle/lmtodo/internal/ui/command"
	configview "github.com/nhle/lmtodo/internal/ui/config"
	"github.com/nhle/lmtodo/internal/ui/confirm"
	"github.com/nhle/lmtodo/internal/ui/detail"
	helpview "github.com/nhle/lmtodo/internal/ui/help"
	"github.com/nhle/lmtodo/internal/ui/projectmgr"
	"github.com/nhle/lmtodo/internal/ui/taskform"
	"github.com/nhle/lmtodo/internal/ui/tasklist"
	"github.com/nhle/lmtodo/internal/view"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
	ViewTaskCreate
	ViewTaskEdit
	ViewProjectList
	ViewSettings
	ViewConfirm
)

const actionDeleteTask = "delete_task"

// msgSwappedOut is shown when a change raced a database switch.
const msgSwappedOut = "Database switched before the change was saved; try again"

// errNoProjects is shown when a task is added before any project exists.
var errNoProjects = errors.New("create a project first (press p)")

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence layer.
type Model struct {
	currentView   ViewState
	previousView  ViewState
	layout        ui.Layout
	store         store.Store
	cfg           *model.AppConfig
	cfgPath       string
	open          Opener
	keys          *keys.KeyMap
	engine        *view.Engine
	clock         *clock.Watcher
	taskList      tasklist.Model
	detail        detail.Model
	helpView      helpview.Model
	commandView   command.Model
	settingsView  configview.Model
	taskForm      taskform.Model
	projectView   projectmgr.Model
	confirmView   confirm.Model
	scopeResolved bool
	pendingSelect int64
	ready         bool
	status        string
	statusErr     bool
}

// Option configures a Model.
type Option func(*Model)

// WithClock sets the day watcher. The default follows the system clock.
func WithClock(w *clock.Watcher) Option {
	return func(m *Model) { m.clock = w }
}

// WithOpener sets how a relocated database is opened.
func WithOpener(open Opener) Option {
	return func(m *Model) { m.open = open }
}

// New creates the root application model. cfgPath is where settings are
// saved back to.
func New(s store.Store, cfg *model.AppConfig, cfgPath string, k *keys.KeyMap, opts ...Option) Model {
	m := Model{
		currentView: ViewList,
		store:       s,
		cfg:         cfg,
		cfgPath:     cfgPath,
		open:        OpenSQLite,
		keys:        k,
		clock:       clock.New(nil),
	}
	for _, opt := range opts {
		opt(&m)
	}

	// The project scope is resolved once projects are loaded.
	m.engine = view.NewEngine(view.DefaultCriteria(cfg.General, nil), m.clock.Today())
	m.engine.SetDayFunc(m.clock.Today)

	m.taskList = tasklist.New(s, k, m.engine, 80, 24)
	m.detail = detail.New(s, k, 80, 24)
	m.helpView = helpview.New(k, 80, 24)
	m.commandView = command.New(80, 24)
	m.settingsView = configview.New(cfg.General, k, 80, 24)
	m.taskForm = taskform.New(80, 24)
	m.projectView = projectmgr.New(s, k, 80, 24)
	m.confirmView = confirm.New(80)
	return m
}

// Init loads projects and tasks and starts watching for midnight.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadProjects(m.store),
		m.taskList.Init(),
		m.clock.Wait(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		m.taskForm.SetSize(contentWidth, contentHeight)
		m.projectView.SetSize(contentWidth, contentHeight)
		m.confirmView.SetSize(contentWidth)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case clock.DayChangedMsg:
		cmd := m.taskList.SetToday(msg.Today)
		m.refreshDetail()
		return m, tea.Batch(cmd, m.clock.Wait())

	case projectsLoadedMsg:
		if m.swappedOut(msg.src) {
			return m, nil
		}
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		cmd := m.taskList.SetProjects(msg.projects)
		m.settingsView.SetProjects(msg.projects)
		if !m.scopeResolved {
			m.scopeResolved = true
			cmd = tea.Batch(cmd, m.taskList.SetScope(view.ResolveScope(m.cfg.General.DefaultProject, msg.projects)))
		}
		return m, cmd

	case tasklist.TasksLoadedMsg:
		if msg.Err != nil && msg.Seq == m.engine.Seq() {
			m.setError(msg.Err)
		}
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		if m.pendingSelect != 0 && !m.engine.Stale() {
			m.taskList.Select(m.pendingSelect)
			m.pendingSelect = 0
		}
		m.refreshDetail()
		return m, cmd

	case tasklist.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		cmd := m.detail.Open(msg.Task, m.projectName(msg.Task.ProjectID), m.clock.Today())
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.ActionMsg:
		t, ok := m.findTask(msg.TaskID)
		if !ok {
			return m, nil
		}
		switch msg.Action {
		case detail.ActionEdit:
			cmd := m.startEdit(t)
			return m, cmd
		case detail.ActionComplete:
			return m, toggleStatus(m.store, t.ID, model.StatusComplete)
		case detail.ActionCancel:
			return m, toggleStatus(m.store, t.ID, model.StatusCancelled)
		}
		return m, nil

	case detail.CommentsLoadedMsg:
		if m.swappedOut(msg.Store) {
			return m, nil
		}
		if msg.Err != nil {
			m.setError(msg.Err)
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case detail.CommentChangedMsg:
		if msg.Err != nil && m.swappedOut(msg.Store) {
			m.setStatus(msgSwappedOut)
		} else if msg.Err != nil {
			m.setError(msg.Err)
		} else {
			m.setStatus("Comments updated")
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case taskform.SubmittedMsg:
		m.currentView = m.previousView
		if msg.ID == 0 {
			return m, createTask(m.store, msg.Title, msg.Due, msg.ProjectID)
		}
		return m, editTask(m.store, msg.ID, msg.Title, msg.Due)

	case taskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case taskSavedMsg:
		if msg.err != nil && m.swappedOut(msg.src) {
			m.setStatus(msgSwappedOut)
			return m, nil
		}
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if msg.created {
			m.pendingSelect = msg.id
			m.setStatus("Task added")
		} else {
			m.setStatus("Task updated")
		}
		return m, m.taskList.Reload()

	case taskDeletedMsg:
		if msg.err != nil && m.swappedOut(msg.src) {
			m.setStatus(msgSwappedOut)
			return m, nil
		}
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("Task deleted")
		return m, m.taskList.Reload()

	case statusChangedMsg:
		if msg.err != nil && m.swappedOut(msg.src) {
			m.setStatus(msgSwappedOut)
			return m, nil
		}
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Task #%d is now %s", msg.id, strings.ToLower(msg.status.Label())))
		return m, m.taskList.Reload()

	case confirm.ResultMsg:
		m.currentView = m.previousView
		if msg.Confirmed && msg.Action == actionDeleteTask {
			return m, deleteTask(m.store, msg.ID)
		}
		return m, nil

	case projectmgr.ProjectListCloseMsg:
		m.currentView = ViewList
		return m, nil

	case projectmgr.ProjectSelectedMsg:
		m.currentView = ViewList
		cmd := m.taskList.SetScope(view.ProjectScope(msg.ID))
		return m, cmd

	case projectmgr.ProjectChangedMsg:
		if msg.Deleted != 0 {
			return m, tea.Batch(loadProjects(m.store), m.taskList.Reload())
		}
		return m, loadProjects(m.store)

	case command.CommandMsg:
		m.currentView = m.previousView
		if msg.Err != nil {
			m.setError(msg.Err)
			return m, nil
		}
		cmd := m.executeCommand(msg.Command)
		return m, cmd

	case configview.ConfigDoneMsg:
		m.currentView = ViewList
		return m, nil

	case configview.ApplyMsg:
		return m, applySettings(m.store, m.cfg, m.cfgPath, msg.General, msg.DBAction, m.open)

	case settingsAppliedMsg:
		cmd := m.finishSettings(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.clearStatus()
		if cmd, ok := m.handleGlobalKey(msg); ok {
			return m, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey handles keys that switch views. It reports false when the
// key belongs to the active view.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return nil, true
		}
		return nil, false

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return nil, true
		}
		return nil, false

	case ViewDetail:
		if m.detail.Editing() {
			return nil, false
		}
		switch {
		case key.Matches(msg, m.keys.Help):
			m.openView(ViewHelp)
			return nil, true
		case key.Matches(msg, m.keys.Command):
			m.openView(ViewCommand)
			return m.commandView.Focus(), true
		}
		return nil, false

	case ViewList:
	default:
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.openView(ViewHelp)
		return nil, true

	case key.Matches(msg, m.keys.Command):
		m.openView(ViewCommand)
		return m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Refresh):
		return m.refresh(), true

	case key.Matches(msg, m.keys.AddTask):
		return m.startCreate(), true

	case key.Matches(msg, m.keys.EditTask):
		t, ok := m.taskList.Selected()
		if !ok {
			return nil, true
		}
		return m.startEdit(t), true

	case key.Matches(msg, m.keys.RemoveTask):
		t, ok := m.taskList.Selected()
		if !ok {
			return nil, true
		}
		m.openView(ViewConfirm)
		return m.confirmView.Ask(actionDeleteTask, t.ID,
			fmt.Sprintf("Delete task %q?", t.Title),
			"Its comments are deleted too."), true

	case key.Matches(msg, m.keys.Complete):
		t, ok := m.taskList.Selected()
		if !ok {
			return nil, true
		}
		return toggleStatus(m.store, t.ID, model.StatusComplete), true

	case key.Matches(msg, m.keys.Cancel):
		t, ok := m.taskList.Selected()
		if !ok {
			return nil, true
		}
		return toggleStatus(m.store, t.ID, model.StatusCancelled), true

	case key.Matches(msg, m.keys.Projects):
		m.openView(ViewProjectList)
		return m.projectView.Init(), true

	case key.Matches(msg, m.keys.Settings):
		m.openView(ViewSettings)
		return m.settingsView.Init(), true
	}

	return nil, false
}

func (m *Model) openView(v ViewState) {
	m.previousView = m.currentView
	m.currentView = v
}

func (m *Model) refresh() tea.Cmd {
	return tea.Batch(loadProjects(m.store), m.taskList.Reload())
}

func (m *Model) startCreate() tea.Cmd {
	projects := m.taskList.Projects()
	if len(projects) == 0 {
		m.setError(errNoProjects)
		return nil
	}
	m.openView(ViewTaskCreate)
	return m.taskForm.StartCreate(projects, m.taskList.Scope().ProjectID)
}

func (m *Model) startEdit(t model.Task) tea.Cmd {
	m.openView(ViewTaskEdit)
	return m.taskForm.StartEdit(t)
}

// executeCommand runs a command from the palette.
func (m *Model) executeCommand(c command.Command) tea.Cmd {
	switch c.Verb {
	case command.VerbQuit:
		return tea.Quit
	case command.VerbRefresh:
		return m.refresh()
	case command.VerbProjects:
		m.openView(ViewProjectList)
		return m.projectView.Init()
	case command.VerbSettings:
		m.openView(ViewSettings)
		return m.settingsView.Init()
	case command.VerbHelp:
		m.openView(ViewHelp)
		return nil

	case command.VerbFilter:
		f, err := view.ParseStatusFilter(c.Arg)
		if err != nil {
			m.setError(err)
			return nil
		}
		return m.taskList.SetFilter(f)

	case command.VerbSort:
		k, err := view.ParseSortKey(c.Arg)
		if err != nil {
			m.setError(err)
			return nil
		}
		return m.taskList.SetSort(k)

	case command.VerbScope:
		projects := m.taskList.Projects()
		s := view.ResolveScope(c.Arg, projects)
		if s.IsAll() && !strings.EqualFold(c.Arg, model.AllProjectsName) && !strings.EqualFold(c.Arg, "all") {
			m.setError(fmt.Errorf("no project named %q", c.Arg))
			return nil
		}
		return m.taskList.SetScope(s)

	case command.VerbDBMove, command.VerbDBNew:
		general := m.cfg.General
		general.DBPath = c.Arg
		action := configview.DBMove
		if c.Verb == command.VerbDBNew {
			action = configview.DBFresh
		}
		m.setStatus("Relocating database...")
		return applySettings(m.store, m.cfg, m.cfgPath, general, action, m.open)
	}
	return nil
}

// finishSettings adopts the outcome of applySettings.
func (m *Model) finishSettings(msg settingsAppliedMsg) tea.Cmd {
	var cmds []tea.Cmd
	if msg.store != nil {
		m.swapStore(msg.store)
		cmds = append(cmds, m.refresh())
	}
	m.cfg = msg.cfg

	if msg.err != nil {
		m.setError(msg.err)
	} else {
		m.setStatus("Settings saved")
	}

	var cmd tea.Cmd
	m.settingsView, cmd = m.settingsView.Update(configview.AppliedMsg{General: m.cfg.General, Err: msg.err})
	return tea.Batch(append(cmds, cmd)...)
}

// swappedOut reports whether src is a store the app no longer uses. Its
// results are dropped; the current store was reloaded when it was adopted.
func (m Model) swappedOut(src store.Store) bool {
	return src != nil && src != m.store
}

func (m *Model) swapStore(s store.Store) {
	m.store = s
	m.taskList.SetStore(s)
	m.detail.SetStore(s)
	m.projectView.SetStore(s)
}

// refreshDetail keeps the detail view in step with the latest snapshot and
// leaves it when its task is gone.
func (m *Model) refreshDetail() {
	id := m.detail.TaskID()
	if id == 0 || m.engine.Stale() {
		return
	}
	t, ok := m.findTask(id)
	if !ok {
		if m.currentView == ViewDetail {
			m.currentView = ViewList
		}
		return
	}
	m.detail.SetTask(t, m.projectName(t.ProjectID), m.clock.Today())
}

func (m Model) findTask(id int64) (model.Task, bool) {
	for _, t := range m.engine.Snapshot() {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (m Model) projectName(id int64) string {
	return view.ProjectScope(id).Label(m.taskList.Projects())
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	log.Printf("error: %v", err)
	m.status = "Error: " + err.Error()
	m.statusErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewProjectList:
		m.projectView, cmd = m.projectView.Update(msg)
	case ViewConfirm:
		m.confirmView, cmd = m.confirmView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("LMTodo", m.taskList.CriteriaSummary())
	content := m.renderContent()

	bar := m.status
	if bar == "" {
		bar = m.keyHints()
	}
	statusBar := m.layout.RenderStatusBar(bar, m.statusErr)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.taskForm.View()
	case ViewProjectList:
		return m.projectView.View()
	case ViewConfirm:
		return lipgloss.Place(m.layout.ContentWidth(), m.layout.ContentHeight(),
			lipgloss.Center, lipgloss.Center, m.confirmView.View())
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDetail:
		return "esc back | c comment | d delete comment | e edit | x complete | X cancel"
	case ViewSettings:
		return "enter edit | esc back"
	case ViewTaskCreate, ViewTaskEdit:
		return "enter submit | esc cancel"
	case ViewProjectList:
		return "enter show tasks | n new | e edit | d delete | esc back"
	case ViewConfirm:
		return "y/n answer"
	default:
		return "q quit | ? help | n new | x done | X cancel | f filter | s sort | [ ] project | p projects"
	}
}

// Close closes the store currently in use.
func (m Model) Close() error {
	return m.store.Close()
}
