package confirm

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbortReportsNotConfirmed(t *testing.T) {
	m := New(80)
	m.Ask("delete_task", 7, "Delete task?", "")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, ResultMsg{Action: "delete_task", ID: 7}, cmd())
	assert.Empty(t, m.View())
}

func TestResultCarriesAnswer(t *testing.T) {
	m := New(80)
	m.Ask("delete_task", 3, "Delete task?", "")

	msg := m.result(true)()
	assert.Equal(t, ResultMsg{Action: "delete_task", ID: 3, Confirmed: true}, msg)
}

func TestIdleDialogIgnoresInput(t *testing.T) {
	m := New(80)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}
