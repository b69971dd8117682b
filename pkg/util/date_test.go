package util

import (
	"testing"
	"time"
)

func TestParseDatePlain(t *testing.T) {
	got, ok := ParseDate("2024-10-11")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateRFC3339Truncates(t *testing.T) {
	got, ok := ParseDate("2024-10-11T15:04:05Z")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestParseDateDefault(t *testing.T) {
	def := time.Date(2024, 10, 11, 0, 0, 0, 0, time.UTC)
	got := ParseDateDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestWeekEndDate(t *testing.T) {
	// Mon 2024-10-07 through Fri 2024-10-11 share the Friday week end.
	fri := time.Date(2024, 10, 11, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 5; d++ {
		day := time.Date(2024, 10, 7+d, 0, 0, 0, 0, time.UTC)
		if !WeekEndDate(day, time.Friday).Equal(fri) {
			t.Fatalf("day %v mapped to %v, want %v", day, WeekEndDate(day, time.Friday), fri)
		}
	}
	// The following Monday belongs to the next week.
	mon := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	if WeekEndDate(mon, time.Friday).Equal(fri) {
		t.Fatalf("next Monday must not share the week end")
	}
}
