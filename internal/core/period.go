package core

import (
	"fmt"
	"time"
)

// Period is a calendar day, month or year used by the revenue reports and
// the transaction list filters. Bounds are half-open UTC instants, so the
// matching is a genuine range comparison over timestamps rather than a
// string-prefix test.
type Period struct {
	start time.Time
	end   time.Time
	label string
}

// DailyPeriod covers the calendar day of the given date (UTC).
func DailyPeriod(date time.Time) Period {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return Period{
		start: start,
		end:   start.AddDate(0, 0, 1),
		label: start.Format("2006-01-02"),
	}
}

// MonthlyPeriod covers the given year and month.
func MonthlyPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{
		start: start,
		end:   start.AddDate(0, 1, 0),
		label: fmt.Sprintf("%04d-%02d", year, month),
	}
}

// YearlyPeriod covers the given calendar year.
func YearlyPeriod(year int) Period {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return Period{
		start: start,
		end:   start.AddDate(1, 0, 0),
		label: fmt.Sprintf("%04d", year),
	}
}

// Bounds returns the half-open range [start, end).
func (p Period) Bounds() (start, end time.Time) {
	return p.start, p.end
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(p.start) && t.Before(p.end)
}

func (p Period) String() string {
	return p.label
}

// PeriodSummary aggregates the transactions of a period. A period with no
// transactions yields all-zero values, never nulls.
type PeriodSummary struct {
	Total    Money `json:"total"`
	NetTotal Money `json:"net_total"`
	VATTotal Money `json:"vat_total"`
	Count    int64 `json:"count"`
}
