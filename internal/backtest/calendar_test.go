package backtest

import (
	"testing"
	"time"
)

func businessDays(start time.Time, n int, skip ...time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	day := start
	for len(out) < n {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			holiday := false
			for _, s := range skip {
				if day.Equal(s) {
					holiday = true
					break
				}
			}
			if !holiday {
				out = append(out, day)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func TestWeeklyRebalanceDaysMarkFridays(t *testing.T) {
	// Mon 2024-01-01 .. Fri 2024-01-12: two full weeks.
	dates := businessDays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10)
	marks := WeeklyRebalanceDays(dates, time.Friday)

	for i, d := range dates {
		want := d.Weekday() == time.Friday
		if marks[i] != want {
			t.Fatalf("date %v: designated=%v, want %v", d, marks[i], want)
		}
	}
}

func TestWeeklyRebalanceDaysHolidayFriday(t *testing.T) {
	// Friday 2024-01-05 is a holiday: Thursday becomes the week's rebalance day.
	holiday := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	dates := businessDays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 9, holiday)
	marks := WeeklyRebalanceDays(dates, time.Friday)

	thursday := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	for i, d := range dates {
		if d.Equal(thursday) && !marks[i] {
			t.Fatalf("holiday week must rebalance on Thursday")
		}
		if d.Weekday() == time.Monday && marks[i] {
			t.Fatalf("Monday %v must not be designated", d)
		}
	}
}

func TestWeeklyRebalanceDaysLastDayDesignated(t *testing.T) {
	// A series ending mid-week still closes out its final partial week.
	dates := businessDays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 8) // ends Wed
	marks := WeeklyRebalanceDays(dates, time.Friday)
	if !marks[len(marks)-1] {
		t.Fatalf("last trading day must be designated")
	}
}

func TestDailyRebalanceDays(t *testing.T) {
	dates := businessDays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 5)
	for i, m := range DailyRebalanceDays(dates) {
		if !m {
			t.Fatalf("day %d not designated under daily cadence", i)
		}
	}
}
