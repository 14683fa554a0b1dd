package model

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a task.
type Status string

// Task status constants. No other value is ever persisted.
const (
	StatusOpen      Status = "open"
	StatusComplete  Status = "complete"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusOpen, StatusComplete, StatusCancelled}

// ParseStatus converts a stored or user-supplied name into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusOpen:
		return StatusOpen, nil
	case StatusComplete:
		return StatusComplete, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Valid reports whether s is one of the three statuses.
func (s Status) Valid() bool {
	return s.Rank() < len(Statuses)
}

// Rank orders statuses: open, complete, cancelled.
func (s Status) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return len(Statuses)
}

// Label returns the capitalised display name.
func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusComplete:
		return "Complete"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Task is a unit of work belonging to exactly one project.
type Task struct {
	ID           int64  `json:"id" db:"id"`
	Title        string `json:"title" db:"title"`
	Status       Status `json:"status" db:"status"`
	CreationDate Date   `json:"creation_date" db:"creation_date"`
	DueDate      Date   `json:"due_date" db:"due_date"`
	CloseDate    Date   `json:"close_date" db:"close_date"`
	ProjectID    int64  `json:"project_id" db:"project_id"`
}

// IsOpen reports whether the task is still open.
func (t Task) IsOpen() bool {
	return t.Status == StatusOpen
}

// ClosedOn returns the close date, or the zero Date while the task is open
// regardless of what is stored.
func (t Task) ClosedOn() Date {
	if t.IsOpen() {
		return Date{}
	}
	return t.CloseDate
}
