package model

// AllProjectsName is the label used for the "every project" scope.
const AllProjectsName = "All Projects"

// Project is a named container grouping tasks.
type Project struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}
