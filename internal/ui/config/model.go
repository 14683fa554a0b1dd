package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lmtodo/internal/keys"
	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/theme"
	"github.com/nhle/lmtodo/internal/view"
)

// ConfigMode represents the current state of the settings view.
type ConfigMode int

const (
	ModeSummary ConfigMode = iota // Show current settings
	ModeForm                      // Editing
	ModeApplying                  // Waiting for the parent to save
	ModeResult                    // Show the outcome
)

// Database actions offered when the path changes.
const (
	DBMove  = "move"
	DBFresh = "fresh"
)

// ConfigDoneMsg signals the settings view should close.
type ConfigDoneMsg struct{}

// ApplyMsg asks the parent to persist General. When the database path
// changed, DBAction says whether to move the current file or start empty.
type ApplyMsg struct {
	General  model.GeneralConfig
	DBAction string
}

// AppliedMsg reports the outcome of an ApplyMsg back to the settings view.
type AppliedMsg struct {
	General model.GeneralConfig
	Err     error
}

type formBindings struct {
	project  string
	filter   string
	sort     string
	dbPath   string
	dbAction string
}

// Model is the Bubble Tea model for the settings view.
type Model struct {
	mode     ConfigMode
	current  model.GeneralConfig
	projects []model.Project
	form     *huh.Form
	fb       *formBindings
	spinner  spinner.Model
	result   error
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new settings view model.
func New(general model.GeneralConfig, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		mode:    ModeSummary,
		current: general,
		fb:      &formBindings{},
		spinner: sp,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetProjects updates the choices for the default project.
func (m *Model) SetProjects(projects []model.Project) {
	m.projects = projects
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case AppliedMsg:
		m.result = msg.Err
		if msg.Err == nil {
			m.current = msg.General
		}
		m.mode = ModeResult
		return m, nil

	case spinner.TickMsg:
		if m.mode == ModeApplying {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.mode == ModeForm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeSummary:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return ConfigDoneMsg{} }
		case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.EditTask):
			return m, m.startForm()
		}
	case ModeForm:
		return m.updateForm(msg)
	case ModeResult:
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Select) {
			m.mode = ModeSummary
			m.result = nil
		}
	}
	return m, nil
}

func (m *Model) startForm() tea.Cmd {
	m.fb.project = m.projectValue(m.current.DefaultProject)
	m.fb.filter = view.StatusFilterOrDefault(m.current.DefaultFilter).String()
	m.fb.sort = view.SortKeyOrDefault(m.current.DefaultSort).String()
	m.fb.dbPath = m.current.DBPath
	m.fb.dbAction = DBMove

	m.form = m.buildForm()
	m.mode = ModeForm
	return m.form.Init()
}

// projectValue normalizes a configured project reference to a select value.
func (m Model) projectValue(ref string) string {
	s := view.ResolveScope(ref, m.projects)
	if s.IsAll() {
		return model.AllProjectsName
	}
	return strconv.FormatInt(s.ProjectID, 10)
}

func (m Model) buildForm() *huh.Form {
	projectOpts := []huh.Option[string]{huh.NewOption(model.AllProjectsName, model.AllProjectsName)}
	for _, p := range m.projects {
		projectOpts = append(projectOpts, huh.NewOption(p.Name, strconv.FormatInt(p.ID, 10)))
	}

	filterOpts := make([]huh.Option[string], 0, len(view.StatusFilters))
	for _, f := range view.StatusFilters {
		filterOpts = append(filterOpts, huh.NewOption(f.String(), f.String()))
	}

	sortOpts := make([]huh.Option[string], 0, len(view.SortKeys))
	for _, k := range view.SortKeys {
		sortOpts = append(sortOpts, huh.NewOption(k.Label(), k.String()))
	}

	fb := m.fb
	current := m.current.DBPath

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default Project").
				Options(projectOpts...).
				Value(&fb.project),
			huh.NewSelect[string]().
				Title("Default Filter").
				Options(filterOpts...).
				Value(&fb.filter),
			huh.NewSelect[string]().
				Title("Default Sort").
				Options(sortOpts...).
				Value(&fb.sort),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Database Path").
				Description("SQLite file holding projects, tasks and comments").
				Value(&fb.dbPath).
				Validate(validatePath),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Existing Data").
				Description("The database path changed").
				Options(
					huh.NewOption("Move the current database to the new path", DBMove),
					huh.NewOption("Start with an empty database", DBFresh),
				).
				Value(&fb.dbAction),
		).WithHideFunc(func() bool {
			return cleanPath(fb.dbPath) == cleanPath(current)
		}),
	).WithWidth(m.formWidth()).WithShowHelp(true).WithKeyMap(keys.FormKeyMap())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeSummary
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		apply := m.applyMsg()
		m.mode = ModeApplying
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg { return apply })
	case huh.StateAborted:
		m.mode = ModeSummary
		return m, nil
	}
	return m, cmd
}

// applyMsg turns the form values into an ApplyMsg.
func (m Model) applyMsg() ApplyMsg {
	general := m.current
	general.DefaultProject = m.fb.project
	general.DefaultFilter = m.fb.filter
	general.DefaultSort = m.fb.sort

	msg := ApplyMsg{General: general}
	newPath := cleanPath(m.fb.dbPath)
	if newPath != cleanPath(m.current.DBPath) {
		msg.General.DBPath = newPath
		msg.DBAction = m.fb.dbAction
	}
	return msg
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return filepath.Clean(model.ExpandHome(p))
}

func validatePath(s string) error {
	p := cleanPath(s)
	if p == "" {
		return fmt.Errorf("path is required")
	}
	if strings.HasSuffix(strings.TrimSpace(s), string(filepath.Separator)) {
		return fmt.Errorf("path must name a file, not a directory")
	}
	return nil
}

// View renders the settings view.
func (m Model) View() string {
	var content string
	switch m.mode {
	case ModeForm:
		if m.form != nil {
			content = m.form.View()
		}
	case ModeApplying:
		content = m.spinner.View() + " Saving settings..."
	case ModeResult:
		content = m.viewResult()
	default:
		content = m.viewSummary()
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(content)
}

func (m Model) viewSummary() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(18)
	valueStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	lines := []string{
		theme.TitleStyle.Render("Settings"),
		row("Default project", view.ResolveScope(m.current.DefaultProject, m.projects).Label(m.projects)),
		row("Default filter", view.StatusFilterOrDefault(m.current.DefaultFilter).String()),
		row("Default sort", view.SortKeyOrDefault(m.current.DefaultSort).Label()),
		row("Database", m.current.DBPath),
		"",
		theme.MutedStyle.Render("enter edit | esc back"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewResult() string {
	if m.result != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Foreground(theme.ColorRed).Render("Settings not saved"),
			"",
			m.result.Error(),
			"",
			theme.MutedStyle.Render("Nothing was changed. Press enter to continue."),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen).Render("Settings saved"),
		"",
		theme.MutedStyle.Render("Press enter to continue."),
	)
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}
