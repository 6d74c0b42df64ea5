package domain

import (
	"fmt"
	"time"
)

// TimeWindow is a half-open interval [Start, End) in outlet-local time.
// The zero value is not a valid window; use NewTimeWindow.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

// NewTimeWindow validates start < end and returns an immutable window
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !start.Before(end) {
		return TimeWindow{}, fmt.Errorf("%w: window start %s must be before end %s",
			ErrInvalidInput, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeWindow{start: start, end: end}, nil
}

// MustTimeWindow is NewTimeWindow that panics on an invalid window
func MustTimeWindow(start, end time.Time) TimeWindow {
	w, err := NewTimeWindow(start, end)
	if err != nil {
		panic(err)
	}
	return w
}

func (w TimeWindow) Start() time.Time { return w.start }

func (w TimeWindow) End() time.Time { return w.end }

func (w TimeWindow) Duration() time.Duration { return w.end.Sub(w.start) }

// IsZero reports whether the window was never initialised
func (w TimeWindow) IsZero() bool {
	return w.start.IsZero() && w.end.IsZero()
}

// Overlaps reports whether an existing window w blocks the candidate window c.
//
// The rule has three branches:
//   - w starts inside c:       c.start <= w.start < c.end
//   - w ends inside c:         c.start < w.end <= c.end
//   - w strictly contains c:   w.start < c.start && w.end > c.end
//
// Windows that only touch (w.end == c.start or c.end == w.start) do not overlap,
// back-to-back reservations rely on this.
func (w TimeWindow) Overlaps(c TimeWindow) bool {
	startsInside := !w.start.Before(c.start) && w.start.Before(c.end)
	endsInside := w.end.After(c.start) && !w.end.After(c.end)
	contains := w.start.Before(c.start) && w.end.After(c.end)
	return startsInside || endsInside || contains
}

// Contains reports whether t lies in [start, end)
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}
