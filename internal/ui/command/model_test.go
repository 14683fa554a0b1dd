package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"quit", Command{Verb: VerbQuit}},
		{"  Q ", Command{Verb: VerbQuit}},
		{"reload", Command{Verb: VerbRefresh}},
		{"filter on time", Command{Verb: VerbFilter, Arg: "on time"}},
		{"sort   due", Command{Verb: VerbSort, Arg: "due"}},
		{"scope All Projects", Command{Verb: VerbScope, Arg: "All Projects"}},
		{"project Home", Command{Verb: VerbScope, Arg: "Home"}},
		{"db move /tmp/todo.db", Command{Verb: VerbDBMove, Arg: "/tmp/todo.db"}},
		{"DB NEW ~/x.db", Command{Verb: VerbDBNew, Arg: "~/x.db"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, line := range []string{"", "   ", "frobnicate", "filter", "db move", "db"} {
		_, err := Parse(line)
		assert.Error(t, err, "line %q", line)
	}

	_, err := Parse("sort")
	assert.EqualError(t, err, "usage: sort <creation|due|status>")
}

func TestEnterEmitsCommand(t *testing.T) {
	m := New(80, 20)
	for _, r := range "sort status" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg{Command: Command{Verb: VerbSort, Arg: "status"}}, cmd())
	assert.Empty(t, m.input.Value())
}
