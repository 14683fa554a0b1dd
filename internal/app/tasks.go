package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
	configview "github.com/nhle/lmtodo/internal/ui/config"
)

// Result messages carry src, the store the command ran against. A result
// from a store that has since been swapped out is stale.

// projectsLoadedMsg carries the project list.
type projectsLoadedMsg struct {
	projects []model.Project
	err      error
	src      store.Store
}

// taskSavedMsg is sent after a task is created or edited.
type taskSavedMsg struct {
	id      int64
	created bool
	err     error
	src     store.Store
}

// taskDeletedMsg is sent after a task is deleted.
type taskDeletedMsg struct {
	err error
	src store.Store
}

// statusChangedMsg is sent after a status toggle.
type statusChangedMsg struct {
	id     int64
	status model.Status
	err    error
	src    store.Store
}

// settingsAppliedMsg is sent after settings were saved. store is set when
// the database changed and the app must switch to it.
type settingsAppliedMsg struct {
	store store.Store
	cfg   *model.AppConfig
	err   error
}

func loadProjects(s store.Store) tea.Cmd {
	return func() tea.Msg {
		projects, err := s.ListProjects(context.Background())
		return projectsLoadedMsg{projects: projects, err: err, src: s}
	}
}

// createTask persists a new task.
func createTask(s store.Store, title string, due model.Date, projectID int64) tea.Cmd {
	return func() tea.Msg {
		t, err := s.AddTask(context.Background(), title, due, projectID)
		if err != nil {
			return taskSavedMsg{created: true, err: err, src: s}
		}
		return taskSavedMsg{id: t.ID, created: true, src: s}
	}
}

// editTask updates title and due date of a task.
func editTask(s store.Store, id int64, title string, due model.Date) tea.Cmd {
	return func() tea.Msg {
		err := s.EditTask(context.Background(), id, title, due)
		return taskSavedMsg{id: id, err: err, src: s}
	}
}

// deleteTask removes a task and its comments.
func deleteTask(s store.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		return taskDeletedMsg{err: s.DeleteTask(context.Background(), id), src: s}
	}
}

// toggleStatus flips a task between status and open.
func toggleStatus(s store.Store, id int64, status model.Status) tea.Cmd {
	return func() tea.Msg {
		st, err := s.ToggleTaskStatus(context.Background(), id, status)
		return statusChangedMsg{id: id, status: st, err: err, src: s}
	}
}

// applySettings saves new defaults and, when dbAction is set, relocates
// the database first. Only the edited fields are written to the file.
func applySettings(cur store.Store, cfg *model.AppConfig, cfgPath string, general model.GeneralConfig, dbAction string, open Opener) tea.Cmd {
	return func() tea.Msg {
		res := settingsAppliedMsg{cfg: cfg}

		if dbAction != "" {
			fresh := dbAction == configview.DBFresh
			s, moved, err := RelocateDatabase(cur, cfg, cfgPath, general.DBPath, fresh, open)
			if s != cur {
				res.store = s
			}
			if err != nil {
				res.err = err
				return res
			}
			res.cfg = moved
		}

		next := *res.cfg
		next.General.DefaultProject = general.DefaultProject
		next.General.DefaultFilter = general.DefaultFilter
		next.General.DefaultSort = general.DefaultSort
		if next.General == res.cfg.General {
			return res
		}

		err := model.UpdateConfig(cfgPath, func(c *model.AppConfig) {
			c.General.DefaultProject = general.DefaultProject
			c.General.DefaultFilter = general.DefaultFilter
			c.General.DefaultSort = general.DefaultSort
		})
		if err != nil {
			res.err = err
			return res
		}
		res.cfg = &next
		return res
	}
}
