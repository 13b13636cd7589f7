// internal/domain/recurrence/periodicity.go
package recurrence

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPeriodicity is returned for periodicity names or values outside the known set.
var ErrUnknownPeriodicity = errors.New("unknown periodicity")

// ErrInvalidAnchor is returned when an anchor day or time falls outside its valid range.
var ErrInvalidAnchor = errors.New("invalid anchor")

// Periodicity is the recurrence granularity of an Anchor.
type Periodicity int

const (
	Daily Periodicity = iota + 1
	Weekly
	Monthly
	Yearly
	Never
)

var periodicityNames = map[Periodicity]string{
	Daily:   "daily",
	Weekly:  "weekly",
	Monthly: "monthly",
	Yearly:  "yearly",
	Never:   "never",
}

// ParsePeriodicity maps a case-insensitive name ("daily", "weekly", ...) to its Periodicity.
func ParsePeriodicity(name string) (Periodicity, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for p, n := range periodicityNames {
		if n == normalized {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPeriodicity, name)
}

func (p Periodicity) String() string {
	if n, ok := periodicityNames[p]; ok {
		return n
	}
	return fmt.Sprintf("periodicity(%d)", int(p))
}

// Valid reports whether p is one of the declared periodicities.
func (p Periodicity) Valid() bool {
	_, ok := periodicityNames[p]
	return ok
}

// dayRange returns the inclusive anchor-day range for p. usesDay is false
// for periodicities that ignore the anchor day.
func (p Periodicity) dayRange() (lo, hi int, usesDay bool) {
	switch p {
	case Weekly:
		return 0, 6, true // 0 = Sunday
	case Monthly:
		return 1, 31, true
	case Yearly:
		return 1, 366, true
	default:
		return 0, 0, false
	}
}
