package taskform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/keys"
	"github.com/nhle/lmtodo/internal/theme"
)

// SubmittedMsg is dispatched when the form is completed. ID is zero for a
// new task.
type SubmittedMsg struct {
	ID        int64
	Title     string
	Due       model.Date
	ProjectID int64
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title     string
	dueDate   string
	projectID string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editID   int64
	projects []model.Project
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new task. The project selector
// starts on projectID when it exists.
func (m *Model) StartCreate(projects []model.Project, projectID int64) tea.Cmd {
	m.editID = 0
	m.projects = projects
	m.fb.title = ""
	m.fb.dueDate = ""
	m.fb.projectID = ""
	for _, p := range projects {
		if p.ID == projectID || m.fb.projectID == "" {
			m.fb.projectID = strconv.FormatInt(p.ID, 10)
		}
		if p.ID == projectID {
			break
		}
	}

	m.form = m.buildForm(
		m.titleField(),
		m.dueField(),
		m.projectField(),
	)
	return m.form.Init()
}

// StartEdit initializes the form for editing title and due date of t.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	m.editID = t.ID
	m.fb.title = t.Title
	m.fb.dueDate = t.DueDate.String()
	m.fb.projectID = strconv.FormatInt(t.ProjectID, 10)

	m.form = m.buildForm(
		m.titleField(),
		m.dueField(),
	)
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.handleSubmit()
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editID != 0 {
		titleText = "Edit Task"
	}

	content := theme.TitleStyle.Render(titleText) + "\n" + m.form.View()
	return theme.ListItemStyle.Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm(fields ...huh.Field) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithShowHelp(true).
		WithKeyMap(keys.FormKeyMap())
}

func (m *Model) titleField() huh.Field {
	return huh.NewInput().
		Title("Title").
		Placeholder("What needs to be done?").
		Value(&m.fb.title).
		Validate(validateRequired("Title"))
}

func (m *Model) dueField() huh.Field {
	return huh.NewInput().
		Title("Due Date").
		Placeholder("YYYY-MM-DD (optional)").
		Value(&m.fb.dueDate).
		Validate(validateOptionalDate)
}

func (m *Model) projectField() huh.Field {
	opts := make([]huh.Option[string], 0, len(m.projects))
	for _, p := range m.projects {
		opts = append(opts, huh.NewOption(p.Name, strconv.FormatInt(p.ID, 10)))
	}
	return huh.NewSelect[string]().
		Title("Project").
		Options(opts...).
		Value(&m.fb.projectID)
}

func (m Model) handleSubmit() tea.Cmd {
	// Both values were validated by the form.
	due, _ := model.ParseDate(strings.TrimSpace(m.fb.dueDate))
	projectID, _ := strconv.ParseInt(m.fb.projectID, 10, 64)

	msg := SubmittedMsg{
		ID:        m.editID,
		Title:     strings.TrimSpace(m.fb.title),
		Due:       due,
		ProjectID: projectID,
	}
	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
