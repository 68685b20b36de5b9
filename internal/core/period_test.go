package core

import (
	"testing"
	"time"
)

func TestPeriodBounds(t *testing.T) {
	day := DailyPeriod(time.Date(2024, 3, 15, 17, 45, 0, 0, time.UTC))
	start, end := day.Bounds()
	if start != time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("daily start: got %v", start)
	}
	if end != time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("daily end: got %v", end)
	}
	if day.String() != "2024-03-15" {
		t.Fatalf("daily label: got %s", day.String())
	}

	month := MonthlyPeriod(2024, time.February)
	_, end = month.Bounds()
	if end != time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("monthly end should roll into March, got %v", end)
	}
	if month.String() != "2024-02" {
		t.Fatalf("monthly label should be zero-padded, got %s", month.String())
	}

	year := YearlyPeriod(2024)
	start, end = year.Bounds()
	if start.Year() != 2024 || end.Year() != 2025 {
		t.Fatalf("yearly bounds: got %v .. %v", start, end)
	}
}

func TestPeriodContains(t *testing.T) {
	day := DailyPeriod(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	cases := []struct {
		at time.Time
		in bool
	}{
		{time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC), true},
		{time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2024, 3, 14, 23, 59, 59, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if day.Contains(tc.at) != tc.in {
			t.Fatalf("Contains(%v): expected %v", tc.at, tc.in)
		}
	}
}
