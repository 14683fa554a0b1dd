package taskform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lmtodo/internal/model"
)

func TestValidators(t *testing.T) {
	assert.Error(t, validateRequired("Title")("   "))
	assert.NoError(t, validateRequired("Title")("buy milk"))

	assert.NoError(t, validateOptionalDate(""))
	assert.NoError(t, validateOptionalDate(" 2025-01-31 "))
	assert.Error(t, validateOptionalDate("31/01/2025"))
	assert.Error(t, validateOptionalDate("2025-02-30"))
}

func TestStartCreatePicksProject(t *testing.T) {
	projects := []model.Project{{ID: 4, Name: "Work"}, {ID: 9, Name: "Home"}}

	m := New(80, 24)
	m.StartCreate(projects, 9)
	assert.Equal(t, "9", m.fb.projectID)

	m.StartCreate(projects, 0)
	assert.Equal(t, "4", m.fb.projectID)
}

func TestSubmitBuildsMessage(t *testing.T) {
	m := New(80, 24)
	m.StartEdit(model.Task{ID: 7, Title: "old", ProjectID: 3})
	m.fb.title = "  new title "
	m.fb.dueDate = "2025-03-01"

	msg, ok := m.handleSubmit()().(SubmittedMsg)
	require.True(t, ok)
	assert.Equal(t, SubmittedMsg{
		ID:        7,
		Title:     "new title",
		Due:       model.Date{Year: 2025, Month: 3, Day: 1},
		ProjectID: 3,
	}, msg)
}
