// Package daterange walks calendar dates between two bounds, or outward
// from a single bound in fixed-width windows when the other is open.
package daterange

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

var (
	ErrNoBounds       = errors.New("date range needs at least one bound")
	ErrInvertedBounds = errors.New("lower bound is after upper bound")
	ErrInvalidStep    = errors.New("step must be at least one day")
)

// Open-ended walk parameters. Their numeric effect is fixed; no further
// meaning is attached to them.
const (
	openLimitDays   = 180
	openCadenceDays = 7
	windowSpanDays  = 4
)

// Layout is the string form of dates in Window.String.
const Layout = "2006-01-02 15:04:05"

// Mode is selected from which bounds were supplied.
type Mode int

const (
	Bounded      Mode = iota // both bounds
	BackwardOpen             // upper bound only
	ForwardOpen              // lower bound only
)

func (m Mode) String() string {
	switch m {
	case Bounded:
		return "bounded"
	case BackwardOpen:
		return "backward-open"
	case ForwardOpen:
		return "forward-open"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Window is one produced element. Bounded iterators produce single dates,
// for which Start equals End.
type Window struct {
	Start time.Time
	End   time.Time
}

// Single reports whether w holds one date rather than a span.
func (w Window) Single() bool {
	return w.Start.Equal(w.End)
}

// Days returns every midnight from Start through End inclusive.
func (w Window) Days() []time.Time {
	var days []time.Time
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (w Window) String() string {
	if w.Single() {
		return w.Start.Format(Layout)
	}
	return w.Start.Format(Layout) + "/" + w.End.Format(Layout)
}

// Iterator holds the walk state. It is not safe for concurrent use.
type Iterator struct {
	mode   Mode
	cursor time.Time
	step   int
	lower  time.Time
	upper  time.Time
	done   bool
}

// New builds an iterator. A zero time.Time means the bound is absent. step
// only applies to Bounded mode; open modes always move seven days at a time.
func New(lower, upper time.Time, step int) (*Iterator, error) {
	it := &Iterator{step: step, lower: lower, upper: upper}
	switch {
	case lower.IsZero() && upper.IsZero():
		return nil, ErrNoBounds
	case !lower.IsZero() && !upper.IsZero():
		if lower.After(upper) {
			return nil, fmt.Errorf("%w: %s > %s", ErrInvertedBounds, lower.Format(Layout), upper.Format(Layout))
		}
		if step < 1 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidStep, step)
		}
		it.mode = Bounded
	case lower.IsZero():
		it.mode = BackwardOpen
	default:
		it.mode = ForwardOpen
	}
	it.Reset()
	return it, nil
}

// Mode returns the iteration mode chosen at construction.
func (it *Iterator) Mode() Mode { return it.mode }

// Reset rewinds the iterator to its first element.
func (it *Iterator) Reset() {
	it.done = false
	if it.mode == BackwardOpen {
		it.cursor = it.upper
	} else {
		it.cursor = it.lower
	}
}

// Next returns the next element, or false once the walk is exhausted.
// Exhaustion is sticky until Reset.
func (it *Iterator) Next() (Window, bool) {
	if it.done {
		return Window{}, false
	}
	current := it.cursor
	day := midnight(current)

	switch it.mode {
	case Bounded:
		if current.After(it.upper) {
			it.done = true
			return Window{}, false
		}
		it.cursor = current.AddDate(0, 0, it.step)
		return Window{Start: day, End: day}, true
	case BackwardOpen:
		if !current.After(it.upper.AddDate(0, 0, -openLimitDays)) {
			it.done = true
			return Window{}, false
		}
		it.cursor = current.AddDate(0, 0, -openCadenceDays)
		return Window{Start: day.AddDate(0, 0, -windowSpanDays), End: day}, true
	case ForwardOpen:
		if !current.Before(it.lower.AddDate(0, 0, openLimitDays)) {
			it.done = true
			return Window{}, false
		}
		it.cursor = current.AddDate(0, 0, openCadenceDays)
		return Window{Start: day, End: day.AddDate(0, 0, windowSpanDays)}, true
	}
	it.done = true
	return Window{}, false
}

// All adapts the iterator for range-over-func. It continues from the current
// position; call Reset first to walk from the beginning.
func (it *Iterator) All() iter.Seq[Window] {
	return func(yield func(Window) bool) {
		for {
			w, ok := it.Next()
			if !ok || !yield(w) {
				return
			}
		}
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
