package model

import "time"

// Comment is a free-text note attached to a task.
// Its lifecycle is bound to the parent task.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	TaskID    int64     `json:"task_id" db:"task_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
