package keys

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual reload from the database
	Refresh key.Binding

	// Task actions
	AddTask    key.Binding
	EditTask   key.Binding
	RemoveTask key.Binding
	Complete   key.Binding
	Cancel     key.Binding

	// Filters
	NextFilter      key.Binding
	PrevFilter      key.Binding
	FilterAll       key.Binding
	FilterOnTime    key.Binding
	FilterOverdue   key.Binding
	FilterOpen      key.Binding
	FilterFinished  key.Binding
	FilterCancelled key.Binding

	// Sort
	CycleSort key.Binding

	// Project scope
	Projects    key.Binding
	NextProject key.Binding
	PrevProject key.Binding
	AllProjects key.Binding

	// Project manager
	AddProject    key.Binding
	EditProject   key.Binding
	DeleteProject key.Binding

	// Detail view
	AddComment    key.Binding
	DeleteComment key.Binding

	// Settings panel
	Settings key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open / choose"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		AddTask: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		EditTask: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit task"),
		),
		RemoveTask: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete task"),
		),
		Complete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "complete / reopen"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "cancel / reopen"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "next filter"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "previous filter"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all"),
		),
		FilterOnTime: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "on time"),
		),
		FilterOverdue: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "overdue"),
		),
		FilterOpen: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "open"),
		),
		FilterFinished: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "finished"),
		),
		FilterCancelled: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "cancelled"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		Projects: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "projects"),
		),
		NextProject: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next project"),
		),
		PrevProject: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous project"),
		),
		AllProjects: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "all projects"),
		),
		AddProject: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new project"),
		),
		EditProject: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit project"),
		),
		DeleteProject: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete project"),
		),
		AddComment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		DeleteComment: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete comment"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
	}
}

// bindings maps configurable action names to their binding. The names
// follow the shortcut keys of the config file.
func (k *KeyMap) bindings() map[string]*key.Binding {
	return map[string]*key.Binding{
		"down":             &k.Down,
		"up":               &k.Up,
		"select":           &k.Select,
		"back":             &k.Back,
		"quit":             &k.Quit,
		"command":          &k.Command,
		"help":             &k.Help,
		"refresh":          &k.Refresh,
		"add_task":         &k.AddTask,
		"edit_task":        &k.EditTask,
		"remove_task":      &k.RemoveTask,
		"mark_completed":   &k.Complete,
		"mark_canceled":    &k.Cancel,
		"next_filter":      &k.NextFilter,
		"prev_filter":      &k.PrevFilter,
		"filter_all":       &k.FilterAll,
		"on_time":          &k.FilterOnTime,
		"overdue":          &k.FilterOverdue,
		"filter_active":    &k.FilterOpen,
		"filter_completed": &k.FilterFinished,
		"filter_canceled":  &k.FilterCancelled,
		"cycle_sort":       &k.CycleSort,
		"select_project":   &k.Projects,
		"next_project":     &k.NextProject,
		"prev_project":     &k.PrevProject,
		"all_projects":     &k.AllProjects,
		"add_project":      &k.AddProject,
		"edit_project":     &k.EditProject,
		"delete_project":   &k.DeleteProject,
		"add_comment":      &k.AddComment,
		"delete_comment":   &k.DeleteComment,
		"config_panel":     &k.Settings,
	}
}

// Actions returns the configurable action names in sorted order.
func (k *KeyMap) Actions() []string {
	names := make([]string, 0, len(k.bindings()))
	for name := range k.bindings() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromConfig returns the default key map with the configured shortcuts
// applied. A value may list several keys separated by commas. Action names
// that are not recognised are returned so the caller can report them.
func FromConfig(shortcuts map[string]string) (*KeyMap, []string) {
	k := DefaultKeyMap()
	table := k.bindings()

	var unknown []string
	for action, value := range shortcuts {
		b, ok := table[strings.ToLower(strings.TrimSpace(action))]
		if !ok {
			unknown = append(unknown, action)
			continue
		}

		var ks []string
		for _, part := range strings.Split(value, ",") {
			if part = normalize(part); part != "" {
				ks = append(ks, part)
			}
		}
		if len(ks) == 0 {
			continue
		}

		desc := b.Help().Desc
		b.SetKeys(ks...)
		b.SetHelp(strings.Join(ks, "/"), desc)
	}
	sort.Strings(unknown)

	return k, unknown
}

// normalize lowercases modifier-style shortcuts such as "Ctrl+T" to the
// form Bubble Tea reports ("ctrl+t"). Single characters keep their case.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 1 {
		return s
	}
	return strings.ToLower(s)
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.AddTask,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit, k.Help, k.Command, k.Refresh, k.Settings},
		{k.AddTask, k.EditTask, k.RemoveTask, k.Complete, k.Cancel, k.AddComment, k.DeleteComment},
		{k.NextFilter, k.PrevFilter, k.FilterAll, k.FilterOnTime, k.FilterOverdue, k.FilterOpen, k.FilterFinished, k.FilterCancelled},
		{k.CycleSort, k.Projects, k.NextProject, k.PrevProject, k.AllProjects, k.AddProject, k.EditProject, k.DeleteProject},
	}
}

// FormKeyMap is the huh key map shared by every form. Esc aborts a form.
func FormKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	)
	return km
}
