package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ventas/internal/core"
)

// saleRequest is the write payload for transactions. The rate is a pointer
// so an omitted rate (default applies) is distinguishable from an explicit 0.
type saleRequest struct {
	ClientID    int64         `json:"client_id"`
	Amount      core.Money    `json:"amount"`
	VATRate     *core.VATRate `json:"vat_rate"`
	Description string        `json:"description"`
	Date        string        `json:"transaction_date"`
}

func (req saleRequest) toTransaction() (core.Transaction, error) {
	t := core.Transaction{
		ClientID:    req.ClientID,
		Amount:      req.Amount,
		VATRate:     core.DefaultVATRate,
		Description: req.Description,
	}
	if req.VATRate != nil {
		t.VATRate = *req.VATRate
	}
	if req.Date != "" {
		date, err := parseTimestamp(req.Date)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("%w: invalid transaction_date %q", core.ErrValidation, req.Date)
		}
		t.Date = date
	}
	return t, nil
}

// salesFilter builds the optional list filter: an exact day, a month or a
// whole year. Absent parameters mean no filtering at all.
func salesFilter(r *http.Request) (*core.Period, error) {
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("date")); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", core.ErrValidation, v)
		}
		p := core.DailyPeriod(day)
		return &p, nil
	}

	if strings.TrimSpace(q.Get("month")) != "" {
		year, month, err := parseYearMonth(r)
		if err != nil {
			return nil, err
		}
		p := core.MonthlyPeriod(year, month)
		return &p, nil
	}

	if strings.TrimSpace(q.Get("year")) != "" {
		year, err := parseYear(r)
		if err != nil {
			return nil, err
		}
		p := core.YearlyPeriod(year)
		return &p, nil
	}

	return nil, nil
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	period, err := salesFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sales, err := s.store.ListTransactions(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sales == nil {
		sales = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, sales)
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body", core.ErrValidation))
		return
	}

	sale, err := req.toTransaction()
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.sales.CreateSale(r.Context(), sale)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body", core.ErrValidation))
		return
	}

	sale, err := req.toTransaction()
	if err != nil {
		writeError(w, r, err)
		return
	}
	sale.ID = id

	updated, err := s.sales.UpdateSale(r.Context(), sale)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.sales.DeleteSale(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	writeMessage(w, "transaction deleted")
}
