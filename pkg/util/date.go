package util

import (
	"time"
)

// DateLayout is the calendar-date format used in configs and CSV files.
const DateLayout = "2006-01-02"

// ParseDate tries YYYY-MM-DD, RFC3339, and RFC3339Nano. Returns (t, true) if any worked.
// The result is truncated to a UTC calendar date; daily bars carry no intraday time.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Midnight(t), true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Midnight(t), true
	}
	return time.Time{}, false
}

// ParseDateDefault parses a date or returns default if empty/invalid.
func ParseDateDefault(s string, def time.Time) time.Time {
	if t, ok := ParseDate(s); ok {
		return t
	}
	return def
}

// Midnight truncates a timestamp to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekEndDate returns the calendar date of the next occurrence (inclusive) of the
// week-ending weekday. Two dates belong to the same trading week iff their
// week-end dates match.
func WeekEndDate(t time.Time, weekEnd time.Weekday) time.Time {
	t = Midnight(t)
	days := (int(weekEnd) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, days)
}
