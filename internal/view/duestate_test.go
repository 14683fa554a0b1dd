package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/lmtodo/internal/model"
)

func TestDueState(t *testing.T) {
	due := today

	closed := func(st model.Status, on model.Date) model.Task {
		tk := task(1, 1, st, today.AddDays(-5), due)
		tk.CloseDate = on
		return tk
	}

	cases := []struct {
		name string
		task model.Task
		want Due
	}{
		{"no due date", task(1, 1, model.StatusOpen, today, model.Date{}), DueNone},
		{"due today", task(1, 1, model.StatusOpen, today, due), DueOnTime},
		{"due yesterday", task(1, 1, model.StatusOpen, today, due.AddDays(-1)), DueOverdue},
		{"completed early", closed(model.StatusComplete, due.AddDays(-1)), DueClosedOnTime},
		{"completed on the day", closed(model.StatusComplete, due), DueClosedOnTime},
		{"completed late", closed(model.StatusComplete, due.AddDays(1)), DueClosedLate},
		{"cancelled", closed(model.StatusCancelled, due.AddDays(1)), DueNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DueState(tc.task, today))
		})
	}
}
