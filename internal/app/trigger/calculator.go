// Package trigger computes the next due timestamp of a recurrence anchor.
package trigger

import (
	"fmt"
	"time"

	"period_scheduler/internal/domain/recurrence"
)

// maxClampSteps bounds the month-end clamp: no month is shorter than 28
// days, so an anchor day of at most 31 needs at most three decrements.
const maxClampSteps = 3

// Never returns the sentinel meaning "no further occurrence" in loc.
func Never(loc *time.Location) time.Time {
	return time.Date(3000, time.January, 1, 0, 0, 0, 0, loc)
}

// IsNever reports whether t is the sentinel returned for Never anchors.
func IsNever(t time.Time) bool {
	return t.Equal(Never(t.Location()))
}

// Next returns the first timestamp strictly after last that satisfies anchor.
// For recurrence.Never it returns the Never sentinel.
//
// The candidate is the anchor placed inside the period that contains last.
// When last is at or past that candidate, the candidate moves one period
// forward.
//
// An anchor whose day or time is out of range for its periodicity yields
// recurrence.ErrInvalidAnchor.
func Next(last time.Time, anchor recurrence.Anchor) (time.Time, error) {
	if err := anchor.Validate(); err != nil {
		return time.Time{}, err
	}
	switch anchor.Periodicity {
	case recurrence.Never:
		return Never(last.Location()), nil
	case recurrence.Daily:
		return nextDaily(last, anchor.Time), nil
	case recurrence.Weekly:
		return nextWeekly(last, anchor.Day, anchor.Time), nil
	case recurrence.Monthly:
		return nextMonthly(last, anchor.Day, anchor.Time), nil
	case recurrence.Yearly:
		return nextYearly(last, anchor.Day, anchor.Time), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %s", recurrence.ErrUnknownPeriodicity, anchor.Periodicity)
	}
}

func at(year int, month time.Month, day int, tod recurrence.TimeOfDay, loc *time.Location) time.Time {
	return time.Date(year, month, day, tod.Hour, tod.Minute, tod.Second, 0, loc)
}

func nextDaily(last time.Time, tod recurrence.TimeOfDay) time.Time {
	y, m, d := last.Date()
	candidate := at(y, m, d, tod, last.Location())
	if !candidate.After(last) {
		candidate = at(y, m, d+1, tod, last.Location())
	}
	return candidate
}

func nextWeekly(last time.Time, weekday int, tod recurrence.TimeOfDay) time.Time {
	y, m, d := last.Date()
	sunday := d - int(last.Weekday())
	candidate := at(y, m, sunday+weekday, tod, last.Location())
	if !candidate.After(last) {
		candidate = at(y, m, sunday+weekday+7, tod, last.Location())
	}
	return candidate
}

func nextMonthly(last time.Time, day int, tod recurrence.TimeOfDay) time.Time {
	y, m, _ := last.Date()
	loc := last.Location()

	// Days past the month's end spill into the next month here.
	candidate := at(y, m, day, tod, loc)
	if !candidate.After(last) {
		return monthlyRollover(y, m, day, tod, loc)
	}
	if day >= 28 && candidate.Month() != m && candidate.Day() <= 4 {
		for candidate.Day() <= 4 {
			candidate = candidate.AddDate(0, 0, -1)
		}
		if !candidate.After(last) {
			return monthlyRollover(y, m, day, tod, loc)
		}
	}
	return candidate
}

// monthlyRollover places the anchor in the month after (year, month),
// pulling day back to that month's last day when it does not exist there.
func monthlyRollover(year int, month time.Month, day int, tod recurrence.TimeOfDay, loc *time.Location) time.Time {
	if month == time.December {
		year, month = year+1, time.January
	} else {
		month++
	}
	length := DaysIn(year, month)
	for i := 0; i < maxClampSteps && day > length; i++ {
		day--
	}
	return at(year, month, day, tod, loc)
}

func nextYearly(last time.Time, dayOfYear int, tod recurrence.TimeOfDay) time.Time {
	y := last.Year()
	loc := last.Location()

	if n := daysInYear(y); dayOfYear > n {
		dayOfYear = n
	}
	candidate := at(y, time.January, dayOfYear, tod, loc)
	if candidate.After(last) {
		return candidate
	}

	// Same calendar date next year; Feb 29 becomes Feb 28 outside leap years.
	month, day := candidate.Month(), candidate.Day()
	if n := DaysIn(y+1, month); day > n {
		day = n
	}
	return at(y+1, month, day, tod, loc)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
