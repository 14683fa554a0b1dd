package view

import (
	"strconv"
	"strings"

	"github.com/nhle/lmtodo/internal/model"
)

// Scope restricts the view to one project. The zero Scope covers all
// projects.
type Scope struct {
	ProjectID int64
}

// AllProjects is the scope that includes every task.
var AllProjects = Scope{}

// ProjectScope returns the scope of a single project.
func ProjectScope(id int64) Scope {
	return Scope{ProjectID: id}
}

// IsAll reports whether s covers every project.
func (s Scope) IsAll() bool {
	return s.ProjectID == 0
}

// Includes reports whether t falls inside the scope.
func (s Scope) Includes(t model.Task) bool {
	return s.IsAll() || t.ProjectID == s.ProjectID
}

// Label names the scope using projects, falling back to the id.
func (s Scope) Label(projects []model.Project) string {
	if s.IsAll() {
		return model.AllProjectsName
	}
	for _, p := range projects {
		if p.ID == s.ProjectID {
			return p.Name
		}
	}
	return "#" + strconv.FormatInt(s.ProjectID, 10)
}

// ResolveScope maps a configured project reference to a scope. ref may be
// "All Projects", a project id, or a project name (case-insensitive).
// Anything that matches no existing project resolves to all projects.
func ResolveScope(ref string, projects []model.Project) Scope {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.EqualFold(ref, model.AllProjectsName) {
		return AllProjects
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, p := range projects {
			if p.ID == id {
				return ProjectScope(id)
			}
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) {
			return ProjectScope(p.ID)
		}
	}
	return AllProjects
}

// Valid reports whether the scope still points at an existing project.
func (s Scope) Valid(projects []model.Project) bool {
	if s.IsAll() {
		return true
	}
	for _, p := range projects {
		if p.ID == s.ProjectID {
			return true
		}
	}
	return false
}
