package detail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lmtodo/internal/keys"
	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
	"github.com/nhle/lmtodo/internal/theme"
	"github.com/nhle/lmtodo/internal/view"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// CommentsLoadedMsg carries the comments of a task. Store is the store the
// load ran against.
type CommentsLoadedMsg struct {
	TaskID   int64
	Comments []model.Comment
	Err      error
	Store    store.Store
}

// CommentChangedMsg reports the outcome of adding or deleting a comment.
type CommentChangedMsg struct {
	TaskID int64
	Err    error
	Store  store.Store
}

// ActionMsg asks the parent to run a task action on the displayed task.
type ActionMsg struct {
	Action string
	TaskID int64
}

// Task actions reachable from the detail view.
const (
	ActionEdit     = "edit"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)

type mode int

const (
	modeView mode = iota
	modeComment
	modeConfirmDelete
)

type formBindings struct {
	body    string
	confirm bool
}

// Model is the task detail view component.
type Model struct {
	task     *model.Task
	project  string
	today    model.Date
	comments []model.Comment
	cursor   int
	mode     mode
	form     *huh.Form
	fb       *formBindings
	viewport viewport.Model
	store    store.Store
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model.
func New(s store.Store, keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		store:    s,
		keys:     keys,
		fb:       &formBindings{},
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetStore swaps the backing store after the database moved.
func (m *Model) SetStore(s store.Store) {
	m.store = s
}

// Open shows t and starts loading its comments.
func (m *Model) Open(t model.Task, project string, today model.Date) tea.Cmd {
	m.task = &t
	m.project = project
	m.today = today
	m.comments = nil
	m.cursor = 0
	m.mode = modeView
	m.loading = true
	m.refresh()
	m.viewport.GotoTop()
	return m.loadComments()
}

// TaskID returns the id of the displayed task, or zero.
func (m Model) TaskID() int64 {
	if m.task == nil {
		return 0
	}
	return m.task.ID
}

// Editing reports whether a form has focus, so global keys stay local.
func (m Model) Editing() bool {
	return m.mode != modeView
}

// SetTask replaces the displayed task after a reload, keeping comments.
func (m *Model) SetTask(t model.Task, project string, today model.Date) {
	m.task = &t
	m.project = project
	m.today = today
	m.refresh()
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CommentsLoadedMsg:
		if m.task == nil || msg.TaskID != m.task.ID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.comments = msg.Comments
		m.cursor = min(m.cursor, max(len(m.comments)-1, 0))
		m.refresh()
		return m, nil

	case CommentChangedMsg:
		m.mode = modeView
		if msg.Err != nil || m.task == nil || msg.TaskID != m.task.ID {
			return m, nil
		}
		return m, m.loadComments()

	case tea.KeyMsg:
		if m.mode != modeView {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}

	if m.mode != modeView {
		return m.updateForm(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case m.task == nil:
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if len(m.comments) > 0 {
			m.cursor = (m.cursor + 1) % len(m.comments)
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.comments) > 0 {
			m.cursor = (m.cursor - 1 + len(m.comments)) % len(m.comments)
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.AddComment):
		m.fb.body = ""
		m.form = m.buildCommentForm()
		m.mode = modeComment
		return m, m.form.Init()

	case key.Matches(msg, m.keys.DeleteComment):
		if len(m.comments) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.form = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.form.Init()

	case key.Matches(msg, m.keys.EditTask):
		return m, m.action(ActionEdit)
	case key.Matches(msg, m.keys.Complete):
		return m, m.action(ActionComplete)
	case key.Matches(msg, m.keys.Cancel):
		return m, m.action(ActionCancel)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) action(name string) tea.Cmd {
	id := m.task.ID
	return func() tea.Msg { return ActionMsg{Action: name, TaskID: id} }
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeView
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		switch m.mode {
		case modeComment:
			return m, m.addComment(m.fb.body)
		case modeConfirmDelete:
			if m.fb.confirm && m.cursor < len(m.comments) {
				return m, m.deleteComment(m.comments[m.cursor].ID)
			}
		}
		m.mode = modeView
		return m, nil
	case huh.StateAborted:
		m.mode = modeView
		return m, nil
	}
	return m, cmd
}

func (m Model) buildCommentForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Comment").
				Placeholder("Write a note").
				Value(&m.fb.body).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("comment is empty")
					}
					return nil
				}),
		),
	).WithWidth(min(max(m.width-4, 40), 100)).WithKeyMap(keys.FormKeyMap())
}

func (m Model) buildConfirmForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete this comment?").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(min(max(m.width-4, 40), 100)).WithKeyMap(keys.FormKeyMap())
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No task selected")
	}

	if m.mode != modeView && m.form != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			lipgloss.NewStyle().Padding(0, 2).Render(m.form.View()),
		)
	}

	return m.viewport.View()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	statusBadge := theme.StatusStyle(task.Status).Render(task.Status.Label())
	due := view.DueState(*task, m.today)
	badges := []string{statusBadge}
	if due != view.DueNone {
		badges = append(badges, "  ", theme.DueStyle(due).Render(due.String()))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, badges...))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(10)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	meta := func(label, value string) {
		if value == "" {
			value = "-"
		}
		sections = append(sections, metaStyle.Render(label)+valStyle.Render(value))
	}

	meta("Project:", m.project)
	meta("Created:", task.CreationDate.String())
	meta("Due:", task.DueDate.String())
	if !task.IsOpen() {
		meta("Closed:", task.CloseDate.String())
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", separator, "")

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, headerStyle.Render(
		fmt.Sprintf("Comments (%d)", len(m.comments)),
	))
	sections = append(sections, "")

	switch {
	case m.loading:
		sections = append(sections, theme.MutedStyle.Render("Loading comments..."))
	case len(m.comments) == 0:
		sections = append(sections, theme.MutedStyle.Italic(true).Render("No comments. Press 'c' to add one."))
	default:
		timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
		for i, c := range m.comments {
			header := timeStyle.Render(c.CreatedAt.Local().Format("2006-01-02 15:04"))
			block := header + "\n" + c.Body
			if i == m.cursor {
				sections = append(sections, theme.SelectedItemStyle.Render(block))
			} else {
				sections = append(sections, theme.ListItemStyle.Render(block))
			}
			sections = append(sections, "")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.refresh()
}

func (m Model) loadComments() tea.Cmd {
	s := m.store
	id := m.task.ID
	return func() tea.Msg {
		comments, err := s.ListComments(context.Background(), id)
		return CommentsLoadedMsg{TaskID: id, Comments: comments, Err: err, Store: s}
	}
}

func (m Model) addComment(body string) tea.Cmd {
	s := m.store
	id := m.task.ID
	return func() tea.Msg {
		_, err := s.AddComment(context.Background(), id, body)
		return CommentChangedMsg{TaskID: id, Err: err, Store: s}
	}
}

func (m Model) deleteComment(commentID string) tea.Cmd {
	s := m.store
	id := m.task.ID
	return func() tea.Msg {
		return CommentChangedMsg{TaskID: id, Err: s.DeleteComment(context.Background(), commentID), Store: s}
	}
}
