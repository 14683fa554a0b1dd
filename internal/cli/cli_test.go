package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

type harness struct {
	t       *testing.T
	cfgPath string
	dbPath  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		t:       t,
		cfgPath: filepath.Join(dir, "config.yaml"),
		dbPath:  filepath.Join(dir, "tasks.db"),
	}
	cfg := &model.AppConfig{General: model.GeneralConfig{
		DBPath:         h.dbPath,
		DefaultProject: model.AllProjectsName,
		DefaultFilter:  "All",
		DefaultSort:    "creation",
	}}
	require.NoError(t, model.SaveConfig(h.cfgPath, cfg))
	return h
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	cmd := newRootCmd("test", &options{now: func() time.Time { return fixedNow }})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", h.cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func TestProjectCommands(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.mustRun("project", "list"), "No projects.")
	assert.Contains(t, h.mustRun("project", "add", "Work", "-d", "Day job"), "Created project #1 Work")
	h.mustRun("project", "add", "Home")

	out := h.mustRun("project", "list")
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "Day job")
	assert.Contains(t, out, "Home")

	h.mustRun("project", "edit", "1", "Office")
	out = h.mustRun("project", "list")
	assert.Contains(t, out, "Office")
	assert.Contains(t, out, "Day job", "description kept when -d is not given")

	h.mustRun("project", "rm", "2")
	assert.NotContains(t, h.mustRun("project", "list"), "Home")
}

func TestProjectAddRejectsBlankName(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("project", "add", "  ")
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestTaskLifecycle(t *testing.T) {
	h := newHarness(t)
	h.mustRun("project", "add", "Work")

	out := h.mustRun("task", "add", "Write report", "--project", "work", "--due", "2026-03-09")
	assert.Contains(t, out, "Created task #1 in Work")
	h.mustRun("task", "add", "Plan sprint", "-p", "1", "--due", "2026-03-20")
	h.mustRun("task", "add", "Tidy desk", "-p", "Work")

	out = h.mustRun("task", "list", "--filter", "overdue")
	assert.Contains(t, out, "Write report")
	assert.NotContains(t, out, "Plan sprint")
	assert.Contains(t, out, "overdue")

	out = h.mustRun("task", "list", "--filter", "on time")
	assert.Contains(t, out, "Plan sprint")
	assert.NotContains(t, out, "Write report")
	assert.NotContains(t, out, "Tidy desk", "tasks without a due date are neither on time nor overdue")

	assert.Contains(t, h.mustRun("task", "done", "1"), "Task #1 is Complete")
	out = h.mustRun("task", "list", "--filter", "finished")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "closed late")
	assert.Contains(t, out, "2026-03-10")

	h.mustRun("task", "reopen", "1")
	out = h.mustRun("task", "list", "--filter", "open")
	assert.Contains(t, out, "Write report")

	h.mustRun("task", "cancel", "3")
	out = h.mustRun("task", "list", "--filter", "cancelled")
	assert.Contains(t, out, "Tidy desk")

	h.mustRun("task", "rm", "3")
	assert.NotContains(t, h.mustRun("task", "list"), "Tidy desk")
}

func TestTaskListSortAndScope(t *testing.T) {
	h := newHarness(t)
	h.mustRun("project", "add", "Work")
	h.mustRun("project", "add", "Home")
	h.mustRun("task", "add", "Later", "-p", "Work", "--due", "2026-04-01")
	h.mustRun("task", "add", "Sooner", "-p", "Work", "--due", "2026-03-15")
	h.mustRun("task", "add", "Laundry", "-p", "Home")

	out := h.mustRun("task", "list", "--sort", "due", "--project", "Work")
	assert.Less(t, strings.Index(out, "Sooner"), strings.Index(out, "Later"))
	assert.NotContains(t, out, "Laundry")
	assert.Contains(t, out, "Work · All · by Due Date")

	out = h.mustRun("task", "list", "--project", "All Projects")
	assert.Contains(t, out, "Laundry")
	assert.Contains(t, out, "Later")
}

func TestTaskListRejectsUnknownCriteria(t *testing.T) {
	h := newHarness(t)
	h.mustRun("project", "add", "Work")

	_, err := h.run("task", "list", "--filter", "someday")
	assert.Error(t, err)

	_, err = h.run("task", "list", "--sort", "priority")
	assert.Error(t, err)

	_, err = h.run("task", "list", "--project", "Garden")
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestTaskAddValidation(t *testing.T) {
	h := newHarness(t)
	h.mustRun("project", "add", "Work")

	_, err := h.run("task", "add", "No project")
	assert.Error(t, err, "--project is required")

	_, err = h.run("task", "add", "Bad date", "-p", "Work", "--due", "10/03/2026")
	assert.Error(t, err)

	_, err = h.run("task", "add", "   ", "-p", "Work")
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = h.run("task", "done", "42")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = h.run("task", "done", "abc")
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestTaskEditKeepsOrClearsDue(t *testing.T) {
	h := newHarness(t)
	h.mustRun("project", "add", "Work")
	h.mustRun("task", "add", "Report", "-p", "Work", "--due", "2026-03-20")

	h.mustRun("task", "edit", "1", "Quarterly report")
	out := h.mustRun("task", "list")
	assert.Contains(t, out, "Quarterly report")
	assert.Contains(t, out, "2026-03-20")

	h.mustRun("task", "edit", "1", "Quarterly report", "--due", "")
	assert.NotContains(t, h.mustRun("task", "list"), "2026-03-20")
}

func TestCommentCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun("project", "add", "Work")
	h.mustRun("task", "add", "Report", "-p", "Work")

	assert.Contains(t, h.mustRun("comment", "list", "1"), "No comments.")

	out := h.mustRun("comment", "add", "1", "waiting", "on", "numbers")
	assert.Contains(t, out, "to task #1")
	id := strings.Fields(strings.TrimPrefix(out, "Added comment "))[0]

	assert.Contains(t, h.mustRun("comment", "list", "1"), "waiting on numbers")

	h.mustRun("comment", "rm", id)
	assert.Contains(t, h.mustRun("comment", "list", "1"), "No comments.")

	_, err := h.run("comment", "add", "9", "orphan")
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	_, err = h.run("comment", "list", "9")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDBMove(t *testing.T) {
	h := newHarness(t)
	h.mustRun("project", "add", "Work")

	assert.Equal(t, h.dbPath+"\n", h.mustRun("db", "path"))

	dest := filepath.Join(t.TempDir(), "moved", "tasks.db")
	assert.Contains(t, h.mustRun("db", "move", dest), "Moved database to "+dest)

	assert.Equal(t, dest+"\n", h.mustRun("db", "path"))
	assert.Contains(t, h.mustRun("project", "list"), "Work")
	_, err := os.Stat(h.dbPath)
	assert.True(t, os.IsNotExist(err))
}

func TestDBMoveFresh(t *testing.T) {
	h := newHarness(t)
	h.mustRun("project", "add", "Work")

	dest := filepath.Join(t.TempDir(), "fresh.db")
	assert.Contains(t, h.mustRun("db", "move", dest, "--fresh"), "Started a new database at")

	assert.Contains(t, h.mustRun("project", "list"), "No projects.")
	_, err := os.Stat(h.dbPath)
	assert.NoError(t, err, "old database is left in place")
}

func TestDBMoveRefusesExistingFile(t *testing.T) {
	h := newHarness(t)
	h.mustRun("project", "add", "Work")

	dest := filepath.Join(t.TempDir(), "taken.db")
	require.NoError(t, os.WriteFile(dest, []byte("x"), 0o644))

	_, err := h.run("db", "move", dest)
	assert.ErrorIs(t, err, store.ErrInvalidInput)
	assert.Equal(t, h.dbPath+"\n", h.mustRun("db", "path"))
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "lmtodo test\n", h.mustRun("version"))
}
