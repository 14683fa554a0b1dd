package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
	"github.com/nhle/lmtodo/internal/view"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// printTable writes rows under headers, or empty when there are none.
func printTable(w io.Writer, empty string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func dateCell(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

func taskRow(t model.Task, project string, today model.Date) []string {
	due := "-"
	if d := view.DueState(t, today); d != view.DueNone {
		due = d.String()
	}
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Status.Label(),
		t.Title,
		project,
		dateCell(t.CreationDate),
		dateCell(t.DueDate),
		dateCell(t.ClosedOn()),
		due,
	}
}

// parseID reads a positive integer id argument.
func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s id %q is not a positive number", store.ErrInvalidInput, what, s)
	}
	return id, nil
}

// resolveProject finds a project by id or case-insensitive name.
func resolveProject(ref string, projects []model.Project) (model.Project, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, p := range projects {
			if p.ID == id {
				return p, nil
			}
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) {
			return p, nil
		}
	}
	return model.Project{}, fmt.Errorf("%w: no project %q", store.ErrInvalidInput, ref)
}

func projectNames(projects []model.Project) map[int64]string {
	names := make(map[int64]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names
}
