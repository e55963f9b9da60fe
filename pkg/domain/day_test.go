package domain

import (
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	tests := []struct {
		weekday time.Weekday
		want    DayOfWeek
	}{
		{time.Monday, Monday},
		{time.Wednesday, Wednesday},
		{time.Saturday, Saturday},
		{time.Sunday, Sunday},
	}
	for _, tc := range tests {
		if got := DayOf(tc.weekday); got != tc.want {
			t.Errorf("DayOf(%v) = %d, want %d", tc.weekday, got, tc.want)
		}
	}
}

func TestDayLabels(t *testing.T) {
	if got := Wednesday.Label(); got != "Wednesday" {
		t.Errorf("Wednesday.Label() = %q, want %q", got, "Wednesday")
	}
	if got := Sunday.Short(); got != "Sun" {
		t.Errorf("Sunday.Short() = %q, want %q", got, "Sun")
	}
	if got := DayOfWeek(9).Label(); got == "" {
		t.Error("out-of-range Label() should still return something")
	}
}

func TestDayValid(t *testing.T) {
	if !Monday.Valid() || !Sunday.Valid() {
		t.Error("Monday and Sunday must be valid")
	}
	if DayOfWeek(-1).Valid() || DayOfWeek(7).Valid() {
		t.Error("out-of-range days must be invalid")
	}
}

func TestNextDate(t *testing.T) {
	// 2026-08-24 is a Monday.
	monday := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	// Same day: a Monday stays on the 24th.
	if got := Monday.NextDate(monday); got.Day() != 24 {
		t.Errorf("Monday.NextDate(monday) = %v, want the 24th", got)
	}
	// Later in the week.
	if got := Friday.NextDate(monday); got.Day() != 28 {
		t.Errorf("Friday.NextDate(monday) = %v, want the 28th", got)
	}
	// Earlier weekday wraps to next week.
	friday := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	if got := Tuesday.NextDate(friday); got.Day() != 1 || got.Month() != time.September {
		t.Errorf("Tuesday.NextDate(friday) = %v, want Sep 1", got)
	}
}
