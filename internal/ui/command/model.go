package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lmtodo/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Command Command
	Err     error
}

// Command is a parsed palette line: a verb and its remaining argument.
type Command struct {
	Verb string
	Arg  string
}

// Palette verbs.
const (
	VerbQuit     = "quit"
	VerbRefresh  = "refresh"
	VerbProjects = "projects"
	VerbSettings = "settings"
	VerbHelp     = "help"
	VerbFilter   = "filter"
	VerbSort     = "sort"
	VerbScope    = "scope"
	VerbDBMove   = "db move"
	VerbDBNew    = "db new"
)

type verbSpec struct {
	verb   string
	argReq bool
	usage  string
}

var verbs = []verbSpec{
	{VerbQuit, false, "quit"},
	{VerbRefresh, false, "refresh"},
	{VerbProjects, false, "projects"},
	{VerbSettings, false, "settings"},
	{VerbHelp, false, "help"},
	{VerbFilter, true, "filter <all|on time|overdue|open|finished|cancelled>"},
	{VerbSort, true, "sort <creation|due|status>"},
	{VerbScope, true, "scope <project name|id|All Projects>"},
	{VerbDBMove, true, "db move <path>"},
	{VerbDBNew, true, "db new <path>"},
}

var verbAliases = map[string]string{
	"q":       VerbQuit,
	"r":       VerbRefresh,
	"reload":  VerbRefresh,
	"project": VerbScope,
	"config":  VerbSettings,
}

// Parse splits a palette line into a known verb and its argument.
func Parse(line string) (Command, error) {
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return Command{}, fmt.Errorf("empty command")
	}

	lower := strings.ToLower(line)
	for i := len(verbs) - 1; i >= 0; i-- {
		v := verbs[i]
		if lower != v.verb && !strings.HasPrefix(lower, v.verb+" ") {
			continue
		}
		arg := strings.TrimSpace(line[len(v.verb):])
		if v.argReq && arg == "" {
			return Command{}, fmt.Errorf("usage: %s", v.usage)
		}
		return Command{Verb: v.verb, Arg: arg}, nil
	}

	head, rest, _ := strings.Cut(line, " ")
	if verb, ok := verbAliases[strings.ToLower(head)]; ok {
		return Parse(verb + " " + rest)
	}
	return Command{}, fmt.Errorf("unknown command %q", head)
}

// Usage lists the palette commands, one per line.
func Usage() []string {
	out := make([]string, len(verbs))
	for i, v := range verbs {
		out[i] = v.usage
	}
	return out
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			c, err := Parse(line)
			return m, func() tea.Msg {
				return CommandMsg{Command: c, Err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Command Palette")
	hints := theme.MutedStyle.Render(strings.Join(Usage(), "\n"))

	content := lipgloss.JoinVertical(lipgloss.Left, title, m.input.View(), "", hints)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
