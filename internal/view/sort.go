package view

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/nhle/lmtodo/internal/model"
)

// SortKey orders the visible tasks.
type SortKey int

const (
	SortCreation SortKey = iota
	SortDue
	SortStatus

	numSortKeys
)

// SortKeys lists every sort key in display order.
var SortKeys = []SortKey{SortCreation, SortDue, SortStatus}

var sortNames = [numSortKeys]string{
	SortCreation: "creation",
	SortDue:      "due",
	SortStatus:   "status",
}

var sortLabels = [numSortKeys]string{
	SortCreation: "Creation Date",
	SortDue:      "Due Date",
	SortStatus:   "Status",
}

// sortCompare compares two tasks on the primary key only. Ties are broken
// by id in compareTasks.
var sortCompare = [numSortKeys]func(a, b model.Task) int{
	SortCreation: func(a, b model.Task) int {
		return a.CreationDate.Compare(b.CreationDate)
	},
	SortDue: func(a, b model.Task) int {
		// Tasks without a due date go last.
		switch az, bz := a.DueDate.IsZero(), b.DueDate.IsZero(); {
		case az && bz:
			return 0
		case az:
			return 1
		case bz:
			return -1
		}
		return a.DueDate.Compare(b.DueDate)
	},
	SortStatus: func(a, b model.Task) int {
		return cmp.Compare(a.Status.Rank(), b.Status.Rank())
	},
}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	return k >= 0 && k < numSortKeys
}

// String returns the config name of the key.
func (k SortKey) String() string {
	if !k.Valid() {
		return fmt.Sprintf("SortKey(%d)", int(k))
	}
	return sortNames[k]
}

// Label returns the human-readable name of the key.
func (k SortKey) Label() string {
	if !k.Valid() {
		return k.String()
	}
	return sortLabels[k]
}

// Next returns the following key, wrapping around.
func (k SortKey) Next() SortKey {
	return SortKey((int(k) + 1) % int(numSortKeys))
}

// compareTasks orders a before b under key k, falling back to id.
func (k SortKey) compareTasks(a, b model.Task) int {
	if k.Valid() {
		if c := sortCompare[k](a, b); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}

// ParseSortKey accepts the config name or the label, case-insensitively.
func ParseSortKey(s string) (SortKey, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for k := range sortNames {
		if key == sortNames[k] || key == strings.ToLower(sortLabels[k]) {
			return SortKey(k), nil
		}
	}
	return SortCreation, fmt.Errorf("unknown sort key %q", s)
}

// SortKeyOrDefault parses s and falls back to creation.
func SortKeyOrDefault(s string) SortKey {
	k, err := ParseSortKey(s)
	if err != nil {
		return SortCreation
	}
	return k
}
