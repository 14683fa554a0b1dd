package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDefaultKeyMap(t *testing.T) {
	k := DefaultKeyMap()

	assert.True(t, key.Matches(runeKey('n'), k.AddTask))
	assert.True(t, key.Matches(runeKey('x'), k.Complete))
	assert.True(t, key.Matches(runeKey('X'), k.Cancel))
	assert.False(t, key.Matches(runeKey('x'), k.Cancel))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, k.Select))
}

func TestFromConfig(t *testing.T) {
	k, unknown := FromConfig(map[string]string{
		"add_task":       "a, ctrl+T",
		"Mark_Completed": "C",
		"teleport":       "t",
		"quit":           " , ",
	})

	assert.Equal(t, []string{"teleport"}, unknown)

	assert.True(t, key.Matches(runeKey('a'), k.AddTask))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlT}, k.AddTask))
	assert.False(t, key.Matches(runeKey('n'), k.AddTask))
	assert.Equal(t, "a/ctrl+t", k.AddTask.Help().Key)
	assert.Equal(t, "new task", k.AddTask.Help().Desc)

	assert.True(t, key.Matches(runeKey('C'), k.Complete))

	// Empty overrides keep the default.
	assert.True(t, key.Matches(runeKey('q'), k.Quit))
}

func TestActionsAreSorted(t *testing.T) {
	actions := DefaultKeyMap().Actions()
	assert.Contains(t, actions, "add_task")
	assert.IsIncreasing(t, actions)
}
