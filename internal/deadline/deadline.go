// Package deadline parses free-text task deadlines and classifies them
// against the current time.
package deadline

import (
	"strings"
	"time"
)

// Status is the due classification of a task deadline.
type Status int

const (
	// NotYet means the deadline is further out than the due-soon window.
	NotYet Status = iota
	// DueSoon means the deadline falls inside [now, now+window].
	DueSoon
	// Overdue means the deadline is already in the past.
	Overdue
)

// String returns a short label for the status.
func (s Status) String() string {
	switch s {
	case DueSoon:
		return "due_soon"
	case Overdue:
		return "overdue"
	default:
		return "not_yet"
	}
}

// formats is the ordered list of accepted deadline layouts. Order matters:
// the first layout that parses wins, so "31.12.2025 23:59" never degrades
// to a date-only parse. The last entry covers the normalized form the
// store keeps deadlines in.
var formats = []string{
	"02.01.2006 15:04",
	"02.01.2006",
	"2006-01-02 15:04",
}

// Parse attempts the accepted layouts in priority order and returns the
// first match. Deadlines carry no zone, so they are read as local wall
// time; Classify compares them against a local now, keeping "two hours
// from now" meaning two hours on the operator's clock regardless of the
// host zone. The boolean is false when the string is empty or matches no
// layout; an unparsable deadline is "no deadline", not an error.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range formats {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Classify maps a deadline to its status relative to now. Both window
// edges are inclusive of DueSoon: a deadline equal to now, or equal to
// now+window, is due soon. Anything strictly before now is overdue.
func Classify(now, deadline time.Time, window time.Duration) Status {
	if deadline.Before(now) {
		return Overdue
	}
	if !deadline.After(now.Add(window)) {
		return DueSoon
	}
	return NotYet
}
