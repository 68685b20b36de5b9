package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"ventas/internal/core"
)

type dailyReport struct {
	Date string `json:"date"`
	core.PeriodSummary
}

type monthlyReport struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	core.PeriodSummary
}

type yearlyReport struct {
	Year int `json:"year"`
	core.PeriodSummary
}

// summarize serves a period summary, preferring the cache.
func (s *Server) summarize(r *http.Request, p core.Period) (core.PeriodSummary, error) {
	if cached, ok := s.summaryCache.Get(p.String()); ok {
		return cached, nil
	}

	summary, err := s.store.SumPeriod(r.Context(), p)
	if err != nil {
		return core.PeriodSummary{}, err
	}

	s.summaryCache.Set(p.String(), summary)
	return summary, nil
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid date %q", core.ErrValidation, v))
			return
		}
		day = parsed
	}

	period := core.DailyPeriod(day)
	summary, err := s.summarize(r, period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dailyReport{Date: period.String(), PeriodSummary: summary})
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := s.summarize(r, core.MonthlyPeriod(year, month))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, monthlyReport{Year: year, Month: int(month), PeriodSummary: summary})
}

func (s *Server) handleYearlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := s.summarize(r, core.YearlyPeriod(year))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, yearlyReport{Year: year, PeriodSummary: summary})
}
