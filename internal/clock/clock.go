// Package clock tells the UI when the calendar day changes so date-relative
// filters can be re-evaluated.
package clock

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/lmtodo/internal/model"
)

// DayChangedMsg is a tea.Msg sent when local midnight has passed.
type DayChangedMsg struct {
	Today model.Date
}

// slack is added after midnight so the wake-up lands on the new day even
// if the timer fires slightly early.
const slack = time.Second

// Watcher schedules day-change messages.
type Watcher struct {
	now func() time.Time
}

// New returns a Watcher using now as its time source. A nil now means
// time.Now.
func New(now func() time.Time) *Watcher {
	if now == nil {
		now = time.Now
	}
	return &Watcher{now: now}
}

// Today returns the current local calendar day.
func (w *Watcher) Today() model.Date {
	return model.DateOf(w.now())
}

// Wait returns a tea.Cmd that fires once, shortly after the next local
// midnight. Call it again after handling the message to keep watching.
func (w *Watcher) Wait() tea.Cmd {
	return tea.Tick(UntilMidnight(w.now())+slack, func(time.Time) tea.Msg {
		return DayChangedMsg{Today: w.Today()}
	})
}

// UntilMidnight returns the time left until the next local midnight after t.
func UntilMidnight(t time.Time) time.Duration {
	y, m, d := t.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
	return next.Sub(t)
}
