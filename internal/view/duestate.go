package view

import "github.com/nhle/lmtodo/internal/model"

// Due describes how a task stands against its due date.
type Due int

const (
	// DueNone means the task has no due date, or was cancelled.
	DueNone Due = iota
	DueOnTime
	DueOverdue
	DueClosedOnTime
	DueClosedLate
)

func (d Due) String() string {
	switch d {
	case DueOnTime:
		return "on time"
	case DueOverdue:
		return "overdue"
	case DueClosedOnTime:
		return "closed on time"
	case DueClosedLate:
		return "closed late"
	default:
		return "none"
	}
}

// DueState classifies t against today. Open tasks are on time or overdue;
// completed tasks are judged by their close date.
func DueState(t model.Task, today model.Date) Due {
	if t.DueDate.IsZero() {
		return DueNone
	}
	switch t.Status {
	case model.StatusOpen:
		if t.DueDate.Before(today) {
			return DueOverdue
		}
		return DueOnTime
	case model.StatusComplete:
		closed := t.ClosedOn()
		if closed.IsZero() {
			return DueNone
		}
		if closed.After(t.DueDate) {
			return DueClosedLate
		}
		return DueClosedOnTime
	default:
		return DueNone
	}
}
