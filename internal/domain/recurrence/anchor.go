// internal/domain/recurrence/anchor.go
package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// NewTimeOfDay validates the components and returns the TimeOfDay.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: time of day %02d:%02d:%02d", ErrInvalidAnchor, hour, minute, second)
	}
	return TimeOfDay{Hour: hour, Minute: minute, Second: second}, nil
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("%w: time of day %q, expected HH:MM[:SS]", ErrInvalidAnchor, s)
	}
	values := make([]int, 3)
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: time of day %q: %v", ErrInvalidAnchor, s, err)
		}
		values[i] = v
	}
	return NewTimeOfDay(values[0], values[1], values[2])
}

// Offset is the time elapsed since midnight.
func (t TimeOfDay) Offset() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute + time.Duration(t.Second)*time.Second
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Anchor describes when a periodic event is due: the periodicity class, the
// day within one period and the time of day.
//
// Day is 0-6 (0 = Sunday) for Weekly, 1-31 for Monthly and 1-366 for Yearly.
// Daily and Never ignore it.
type Anchor struct {
	Periodicity Periodicity
	Day         int
	Time        TimeOfDay
}

// NewAnchor validates day against the periodicity's range.
func NewAnchor(p Periodicity, day int, tod TimeOfDay) (Anchor, error) {
	if !p.Valid() {
		return Anchor{}, fmt.Errorf("%w: %d", ErrUnknownPeriodicity, int(p))
	}
	if _, err := NewTimeOfDay(tod.Hour, tod.Minute, tod.Second); err != nil {
		return Anchor{}, err
	}
	lo, hi, usesDay := p.dayRange()
	if !usesDay {
		return Anchor{Periodicity: p, Time: tod}, nil
	}
	if day < lo || day > hi {
		return Anchor{}, fmt.Errorf("%w: day %d out of range [%d,%d] for %s", ErrInvalidAnchor, day, lo, hi, p)
	}
	return Anchor{Periodicity: p, Day: day, Time: tod}, nil
}

// Validate applies the NewAnchor checks to a, which may have been built as a
// struct literal.
func (a Anchor) Validate() error {
	_, err := NewAnchor(a.Periodicity, a.Day, a.Time)
	return err
}

// ParseAnchor reads the textual form produced by Anchor.String:
//
//	monthly:23@08:30    weekly:1@09:00:00    daily@06:00    never
//
// A missing time defaults to midnight.
func ParseAnchor(s string) (Anchor, error) {
	spec := strings.TrimSpace(s)
	var tod TimeOfDay
	if at := strings.IndexByte(spec, '@'); at >= 0 {
		var err error
		tod, err = ParseTimeOfDay(spec[at+1:])
		if err != nil {
			return Anchor{}, err
		}
		spec = spec[:at]
	}

	name, dayStr, hasDay := strings.Cut(spec, ":")
	p, err := ParsePeriodicity(name)
	if err != nil {
		return Anchor{}, err
	}

	day := 0
	if hasDay {
		day, err = strconv.Atoi(strings.TrimSpace(dayStr))
		if err != nil {
			return Anchor{}, fmt.Errorf("%w: day %q: %v", ErrInvalidAnchor, dayStr, err)
		}
	} else if _, _, usesDay := p.dayRange(); usesDay {
		return Anchor{}, fmt.Errorf("%w: %s anchor %q needs a day", ErrInvalidAnchor, p, s)
	}
	return NewAnchor(p, day, tod)
}

func (a Anchor) String() string {
	switch a.Periodicity {
	case Never:
		return "never"
	case Daily:
		return fmt.Sprintf("daily@%s", a.Time)
	default:
		return fmt.Sprintf("%s:%d@%s", a.Periodicity, a.Day, a.Time)
	}
}
