// Package businessday aligns dates to Monday-Friday business weeks and
// detects the last business day of daily, weekly and monthly periods.
// Holidays are not taken into account.
package businessday

import (
	"time"

	"period_scheduler/internal/domain/period"
)

// weekdayIndex numbers days Monday=0 .. Sunday=6.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	return weekdayIndex(t) < 5
}

// IsValidDate reports whether year-month-day names a real calendar date.
func IsValidDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// WeekBounds returns the Monday and Friday of the business week containing
// date. Saturday belongs to the week that just ended; Sunday belongs to the
// week that starts the next day. The time of day is preserved.
func WeekBounds(date time.Time) (monday, friday time.Time) {
	idx := weekdayIndex(date)
	if idx == 6 {
		idx = -1
	}
	return date.AddDate(0, 0, -idx), date.AddDate(0, 0, 4-idx)
}

// FirstDayIfLastBusinessDay returns the first day of the kind's period when
// date is the last business day of that period. The boolean is false when
// date is not; that is a normal outcome, not a failure.
//
//   - Daily: any business day closes its own period.
//   - Weekly: only Friday closes the week; the result is that week's Monday.
//   - Monthly: date must have no later business day in its month; the result
//     is the 1st of the month, moved forward to Monday when it is a weekend.
func FirstDayIfLastBusinessDay(kind period.Kind, date time.Time) (time.Time, bool) {
	if !IsBusinessDay(date) {
		return time.Time{}, false
	}
	switch kind {
	case period.Daily:
		return date, true
	case period.Weekly:
		if date.Weekday() == time.Friday {
			return date.AddDate(0, 0, -4), true
		}
		return time.Time{}, false
	case period.Monthly:
		for next := date.AddDate(0, 0, 1); next.Month() == date.Month(); next = next.AddDate(0, 0, 1) {
			if IsBusinessDay(next) {
				return time.Time{}, false
			}
		}
		first := date.AddDate(0, 0, 1-date.Day())
		switch first.Weekday() {
		case time.Saturday:
			first = first.AddDate(0, 0, 2)
		case time.Sunday:
			first = first.AddDate(0, 0, 1)
		}
		return first, true
	default:
		return time.Time{}, false
	}
}
