package view

import (
	"fmt"
	"strings"

	"github.com/nhle/lmtodo/internal/model"
)

// StatusFilter selects tasks by status and, for the date-relative cases, by
// due date against today.
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterOnTime
	FilterOverdue
	FilterOpen
	FilterFinished
	FilterCancelled

	numFilters
)

// StatusFilters lists every filter in display order.
var StatusFilters = []StatusFilter{
	FilterAll, FilterOnTime, FilterOverdue, FilterOpen, FilterFinished, FilterCancelled,
}

// filterPredicates holds one inclusion rule per filter. The array length
// makes a missing case a compile error.
var filterPredicates = [numFilters]func(t model.Task, today model.Date) bool{
	FilterAll: func(model.Task, model.Date) bool { return true },
	FilterOnTime: func(t model.Task, today model.Date) bool {
		return t.IsOpen() && !t.DueDate.IsZero() && !t.DueDate.Before(today)
	},
	FilterOverdue: func(t model.Task, today model.Date) bool {
		return t.IsOpen() && !t.DueDate.IsZero() && t.DueDate.Before(today)
	},
	FilterOpen:      func(t model.Task, _ model.Date) bool { return t.Status == model.StatusOpen },
	FilterFinished:  func(t model.Task, _ model.Date) bool { return t.Status == model.StatusComplete },
	FilterCancelled: func(t model.Task, _ model.Date) bool { return t.Status == model.StatusCancelled },
}

var filterNames = [numFilters]string{
	FilterAll:       "All",
	FilterOnTime:    "On Time",
	FilterOverdue:   "Overdue",
	FilterOpen:      "Open",
	FilterFinished:  "Finished",
	FilterCancelled: "Cancelled",
}

// filterAliases maps extra spellings, mostly the shortcut action names of
// older config files, to filters.
var filterAliases = map[string]StatusFilter{
	"ontime":    FilterOnTime,
	"on_time":   FilterOnTime,
	"on-time":   FilterOnTime,
	"late":      FilterOverdue,
	"active":    FilterOpen,
	"complete":  FilterFinished,
	"completed": FilterFinished,
	"done":      FilterFinished,
	"canceled":  FilterCancelled,
}

// Valid reports whether f is a known filter.
func (f StatusFilter) Valid() bool {
	return f >= 0 && f < numFilters
}

// Includes reports whether t passes the filter on the given day.
// An unknown filter includes nothing.
func (f StatusFilter) Includes(t model.Task, today model.Date) bool {
	if !f.Valid() {
		return false
	}
	return filterPredicates[f](t, today)
}

func (f StatusFilter) String() string {
	if !f.Valid() {
		return fmt.Sprintf("StatusFilter(%d)", int(f))
	}
	return filterNames[f]
}

// Next returns the following filter in display order, wrapping around.
func (f StatusFilter) Next() StatusFilter {
	return StatusFilter((int(f) + 1) % int(numFilters))
}

// Prev returns the preceding filter in display order, wrapping around.
func (f StatusFilter) Prev() StatusFilter {
	return StatusFilter((int(f) + int(numFilters) - 1) % int(numFilters))
}

// ParseStatusFilter matches a filter by display name, case-insensitively,
// or by one of its aliases.
func ParseStatusFilter(s string) (StatusFilter, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for f, name := range filterNames {
		if strings.ToLower(name) == key {
			return StatusFilter(f), nil
		}
	}
	if f, ok := filterAliases[key]; ok {
		return f, nil
	}
	return FilterOpen, fmt.Errorf("unknown filter %q", s)
}

// StatusFilterOrDefault parses s and falls back to Open.
func StatusFilterOrDefault(s string) StatusFilter {
	f, err := ParseStatusFilter(s)
	if err != nil {
		return FilterOpen
	}
	return f
}
