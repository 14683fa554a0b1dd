package projectmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lmtodo/internal/keys"
	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
	"github.com/nhle/lmtodo/internal/theme"
)

// ProjectListCloseMsg signals the parent to close the project view.
type ProjectListCloseMsg struct{}

// ProjectChangedMsg signals that projects were created, edited or deleted.
// Deleted is set when tasks may have gone with a project.
type ProjectChangedMsg struct {
	Deleted int64
}

// ProjectSelectedMsg asks the parent to scope the task list to a project.
type ProjectSelectedMsg struct {
	ID int64
}

type projectMode int

const (
	modeList projectMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name        string
	description string
	confirm     bool
}

type projectsLoadedMsg struct {
	projects []model.Project
	counts   map[int64]taskCount
	err      error
}

// taskCount is how many tasks a project holds, and how many are open.
type taskCount struct {
	open, total int
}

func (c taskCount) String() string {
	if c.total == 0 {
		return "no tasks"
	}
	return fmt.Sprintf("%d open / %d", c.open, c.total)
}

type projectSavedMsg struct{ err error }

type projectDeletedMsg struct {
	id  int64
	err error
}

// Model is the Bubble Tea model for project management.
type Model struct {
	mode        projectMode
	store       store.Store
	keys        *keys.KeyMap
	projects    []model.Project
	counts      map[int64]taskCount
	selectedIdx int
	editingID   int64
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new project manager model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		store: s,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init loads projects from the store.
func (m Model) Init() tea.Cmd {
	return m.loadProjects()
}

// SetStore swaps the backing store after the database moved.
func (m *Model) SetStore(s store.Store) {
	m.store = s
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case projectsLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.projects = msg.projects
		m.counts = msg.counts
		if m.selectedIdx >= len(m.projects) {
			m.selectedIdx = max(len(m.projects)-1, 0)
		}
		return m, nil

	case projectSavedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "Project saved"
		return m, tea.Batch(m.loadProjects(), changed(0))

	case projectDeletedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "Project deleted"
		return m, tea.Batch(m.loadProjects(), changed(msg.id))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func changed(deleted int64) tea.Cmd {
	return func() tea.Msg { return ProjectChangedMsg{Deleted: deleted} }
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return ProjectListCloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.projects) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.projects)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.projects) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.projects) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		p, ok := m.current()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return ProjectSelectedMsg{ID: p.ID} }

	case key.Matches(msg, m.keys.AddProject):
		m.editingID = 0
		m.fb.name = ""
		m.fb.description = ""
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.EditProject):
		p, ok := m.current()
		if !ok {
			return m, nil
		}
		m.editingID = p.ID
		m.fb.name = p.Name
		m.fb.description = p.Description
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.DeleteProject):
		if _, ok := m.current(); !ok {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) current() (model.Project, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.projects) {
		return model.Project{}, false
	}
	return m.projects[m.selectedIdx], true
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Project name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Placeholder("Optional description").
				Value(&m.fb.description),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(keys.FormKeyMap())
}

func (m Model) buildConfirmForm() *huh.Form {
	p, _ := m.current()
	desc := "It has no tasks."
	if n := m.counts[p.ID].total; n == 1 {
		desc = "Its task and the task's comments are deleted too."
	} else if n > 1 {
		desc = fmt.Sprintf("Its %d tasks and their comments are deleted too.", n)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete project %q?", p.Name)).
				Description(desc).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(keys.FormKeyMap())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveProject()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if p, ok := m.current(); ok && m.fb.confirm {
			return m, m.deleteProject(p.ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the project manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Projects"))
	b.WriteString("\n\n")

	if len(m.projects) == 0 {
		b.WriteString(theme.MutedStyle.Italic(true).Render("No projects yet. Press 'n' to create one."))
	} else {
		for i, p := range m.projects {
			label := fmt.Sprintf("%-20s %s", p.Name, theme.MutedStyle.Render(m.counts[p.ID].String()))
			if p.Description != "" {
				label += theme.MutedStyle.Render("  " + firstLine(p.Description))
			}

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.MutedStyle.Render(
		"enter show tasks | n new | e edit | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func (m Model) loadProjects() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		projects, err := s.ListProjects(ctx)
		if err != nil {
			return projectsLoadedMsg{err: err}
		}
		tasks, err := s.ListTasks(ctx)
		if err != nil {
			return projectsLoadedMsg{err: err}
		}
		counts := make(map[int64]taskCount, len(projects))
		for _, t := range tasks {
			c := counts[t.ProjectID]
			c.total++
			if t.IsOpen() {
				c.open++
			}
			counts[t.ProjectID] = c
		}
		return projectsLoadedMsg{projects: projects, counts: counts}
	}
}

func (m Model) saveProject() tea.Cmd {
	s := m.store
	name := m.fb.name
	desc := strings.TrimSpace(m.fb.description)
	editID := m.editingID
	return func() tea.Msg {
		if editID == 0 {
			_, err := s.AddProject(context.Background(), name, desc)
			return projectSavedMsg{err: err}
		}
		return projectSavedMsg{err: s.EditProject(context.Background(), editID, name, desc)}
	}
}

func (m Model) deleteProject(id int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteProject(context.Background(), id)
		return projectDeletedMsg{id: id, err: err}
	}
}
