package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/theme"
	"github.com/nhle/lmtodo/internal/view"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task    model.Task
	Project string // empty when the list is scoped to one project
	Due     view.Due
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{i.Task.Status.Label(), "created " + i.Task.CreationDate.String()}
	if !i.Task.DueDate.IsZero() {
		parts = append(parts, "due "+i.Task.DueDate.String())
	}
	return strings.Join(parts, " | ")
}

// selection is shared by reference between the Model and its delegate so
// the delegate knows whether the cursor row is actually selected.
type selection struct {
	active bool
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct {
	sel *selection
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	t := ti.Task

	prefix := "○"
	switch t.Status {
	case model.StatusComplete:
		prefix = "✓"
	case model.StatusCancelled:
		prefix = "✗"
	}

	status := theme.StatusStyle(t.Status).Render(t.Status.Label())

	title := t.Title
	if ti.Project != "" {
		title += lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("  [" + ti.Project + "]")
	}

	dates := ""
	if !t.DueDate.IsZero() {
		style := theme.MutedStyle
		if t.IsOpen() {
			style = theme.DueStyle(ti.Due)
		}
		dates += style.Render("  due " + t.DueDate.String())
	}
	if closed := t.ClosedOn(); !closed.IsZero() {
		style := theme.MutedStyle
		if t.Status == model.StatusComplete {
			style = theme.DueStyle(ti.Due)
		}
		dates += style.Render("  closed " + closed.String())
	}

	line := fmt.Sprintf("%s %s %s%s", prefix, status, title, dates)

	if !t.IsOpen() {
		line = theme.DimmedStyle.Render(line)
	}

	if index == m.Index() && d.sel != nil && d.sel.active {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
