package utils

import (
	"testing"
	"time"
)

func TestParseLocalDateTime(t *testing.T) {
	got, err := ParseLocalDateTime("2026-03-10", "09:30")
	if err != nil {
		t.Fatalf("ParseLocalDateTime: %v", err)
	}
	// 09:30 at UTC+7 is 02:30 UTC.
	want := time.Date(2026, 3, 10, 2, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := ParseLocalDateTime("2026-03-10", "25:00"); err == nil {
		t.Fatalf("expected error for invalid clock")
	}
	if _, err := ParseLocalDateTime("10/03/2026", "09:30"); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestLocalDayBounds(t *testing.T) {
	// 01:00 UTC on March 10 is 08:00 local; the local day runs from
	// March 9 17:00 UTC to March 10 17:00 UTC.
	start, end := LocalDayBounds(time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC))
	wantStart := time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Fatalf("got [%v, %v), want [%v, %v)", start, end, wantStart, wantEnd)
	}

	// 20:00 UTC is already 03:00 local of the NEXT day.
	start, _ = LocalDayBounds(time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC))
	if !start.Equal(wantEnd) {
		t.Fatalf("late-UTC instant should fall in the next local day, got start %v", start)
	}
}

func TestFormatLocal(t *testing.T) {
	got := FormatLocal(time.Date(2026, 3, 10, 2, 30, 0, 0, time.UTC))
	if got != "10 Mar 2026 09:30" {
		t.Fatalf("FormatLocal = %q", got)
	}
}
