// Package confirm is a yes/no dialog for destructive task actions.
package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lmtodo/internal/keys"
	"github.com/nhle/lmtodo/internal/theme"
)

// ResultMsg carries the user's answer. Confirmed is false when the dialog
// was dismissed.
type ResultMsg struct {
	Action    string
	ID        int64
	Confirmed bool
}

type bindings struct {
	yes bool
}

// Model wraps a single huh confirm field.
type Model struct {
	form   *huh.Form
	b      *bindings
	action string
	id     int64
	width  int
}

// New creates an idle confirm dialog.
func New(width int) Model {
	return Model{b: &bindings{}, width: width}
}

// Ask opens the dialog for action on id.
func (m *Model) Ask(action string, id int64, title, description string) tea.Cmd {
	m.action = action
	m.id = id
	m.b.yes = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&m.b.yes),
		),
	).WithWidth(min(max(m.width-4, 30), 80)).WithKeyMap(keys.FormKeyMap())
	return m.form.Init()
}

// Update forwards msg to the form and emits a ResultMsg once answered.
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
		return m, m.result(m.b.yes)
	case huh.StateAborted:
		return m, m.result(false)
	}
	return m, cmd
}

func (m *Model) result(yes bool) tea.Cmd {
	res := ResultMsg{Action: m.action, ID: m.id, Confirmed: yes}
	m.form = nil
	return func() tea.Msg { return res }
}

// View renders the dialog.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return theme.PanelStyle.Render(lipgloss.NewStyle().Render(m.form.View()))
}

// SetSize updates the dialog width.
func (m *Model) SetSize(width int) {
	m.width = width
}
