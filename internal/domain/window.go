package domain

import (
	"errors"
	"time"
)

// ErrWindowInverted is returned when a time window's start is not before its end.
var ErrWindowInverted = errors.New("time window start must be before end")

// DefaultWindowDays is the span of the default analytics window.
const DefaultWindowDays = 30

// TimeWindow is the half-open interval [Start, End) over which aggregation
// is scoped. It is an immutable value type constructed fresh per request.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeWindow creates a TimeWindow covering [start, end).
// Returns ErrWindowInverted if start is not strictly before end.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !start.Before(end) {
		return TimeWindow{}, ErrWindowInverted
	}
	return TimeWindow{Start: start, End: end}, nil
}

// WindowEndingAt returns the window covering the given number of days up to end.
func WindowEndingAt(end time.Time, days int) TimeWindow {
	return TimeWindow{
		Start: end.Add(-time.Duration(days) * 24 * time.Hour),
		End:   end,
	}
}

// DefaultWindow returns the standard analytics window: the last 30 days up to now.
func DefaultWindow(now time.Time) TimeWindow {
	return WindowEndingAt(now, DefaultWindowDays)
}

// Contains reports whether t falls within [Start, End).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration returns the length of the window.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
