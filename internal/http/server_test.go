package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"ventas/internal/core"
	"ventas/internal/services"
	"ventas/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "ventas.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}

	srv := NewServer(":0", services.NewSaleService(repo, nil), repo)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		srv.Shutdown(context.Background())
		repo.Close()
	})
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return res.StatusCode
}

func createTestClient(t *testing.T, base, name string) core.Client {
	t.Helper()
	var created core.Client
	status := doJSON(t, http.MethodPost, base+"/api/clients", map[string]string{"name": name}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create client: status %d", status)
	}
	return created
}

func TestClientLifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	created := createTestClient(t, ts.URL, "Bar Manolo")
	if created.ID == 0 {
		t.Fatal("created client should have an id")
	}

	var listed []core.Client
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/clients", nil, &listed); status != http.StatusOK {
		t.Fatalf("list clients: status %d", status)
	}
	if len(listed) != 1 || listed[0].Name != "Bar Manolo" {
		t.Fatalf("unexpected client list: %+v", listed)
	}

	var updated core.Client
	url := fmt.Sprintf("%s/api/clients/%d", ts.URL, created.ID)
	body := map[string]string{"name": "Bar Manolo e Hijos", "email": "manolo@example.com"}
	if status := doJSON(t, http.MethodPut, url, body, &updated); status != http.StatusOK {
		t.Fatalf("update client: status %d", status)
	}
	if updated.Name != "Bar Manolo e Hijos" || updated.Email != "manolo@example.com" {
		t.Fatalf("unexpected updated client: %+v", updated)
	}

	var msg map[string]string
	if status := doJSON(t, http.MethodDelete, url, nil, &msg); status != http.StatusOK {
		t.Fatalf("delete client: status %d", status)
	}
	if msg["message"] == "" {
		t.Fatal("delete should return a success message")
	}

	if status := doJSON(t, http.MethodPut, url, body, nil); status != http.StatusNotFound {
		t.Fatalf("update of deleted client: expected 404, got %d", status)
	}
}

func TestClientValidation(t *testing.T) {
	_, ts := newTestServer(t)

	var errBody map[string]string
	status := doJSON(t, http.MethodPost, ts.URL+"/api/clients", map[string]string{"name": "  "}, &errBody)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", status)
	}
	if errBody["error"] == "" {
		t.Fatal("expected an error message body")
	}
}

func TestDeleteClientWithSales(t *testing.T) {
	_, ts := newTestServer(t)

	client := createTestClient(t, ts.URL, "Bar Manolo")
	sale := map[string]any{"client_id": client.ID, "amount": 121.0, "transaction_date": "2025-03-10"}
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", sale, nil); status != http.StatusCreated {
		t.Fatalf("create sale: status %d", status)
	}

	url := fmt.Sprintf("%s/api/clients/%d", ts.URL, client.ID)
	var errBody map[string]string
	if status := doJSON(t, http.MethodDelete, url, nil, &errBody); status != http.StatusBadRequest {
		t.Fatalf("expected 400 when client owns sales, got %d", status)
	}
}

func TestSaleLifecycle(t *testing.T) {
	_, ts := newTestServer(t)
	client := createTestClient(t, ts.URL, "Bar Manolo")

	// Rate omitted: the default 21% applies.
	var created core.Transaction
	body := map[string]any{
		"client_id":        client.ID,
		"amount":           121.0,
		"description":      "menú del día",
		"transaction_date": "2025-03-10",
	}
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", body, &created); status != http.StatusCreated {
		t.Fatalf("create sale: status %d", status)
	}
	if created.Amount.Cents != 12100 || created.NetAmount.Cents != 10000 || created.VATAmount.Cents != 2100 {
		t.Fatalf("unexpected amounts: %+v", created)
	}
	if created.ClientName != "Bar Manolo" {
		t.Fatalf("expected joined client name, got %q", created.ClientName)
	}

	var updated core.Transaction
	url := fmt.Sprintf("%s/api/transactions/%d", ts.URL, created.ID)
	body["amount"] = 110.0
	body["vat_rate"] = 10
	if status := doJSON(t, http.MethodPut, url, body, &updated); status != http.StatusOK {
		t.Fatalf("update sale: status %d", status)
	}
	if updated.NetAmount.Cents != 10000 || updated.VATAmount.Cents != 1000 {
		t.Fatalf("breakdown not recomputed on update: %+v", updated)
	}

	if status := doJSON(t, http.MethodDelete, url, nil, nil); status != http.StatusOK {
		t.Fatalf("delete sale: status %d", status)
	}
	if status := doJSON(t, http.MethodDelete, url, nil, nil); status != http.StatusNotFound {
		t.Fatalf("double delete: expected 404, got %d", status)
	}
}

func TestCreateSaleRejectsUnknownClient(t *testing.T) {
	_, ts := newTestServer(t)

	body := map[string]any{"client_id": 999, "amount": 10.0}
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", body, nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown client, got %d", status)
	}
}

func TestListSalesFilters(t *testing.T) {
	_, ts := newTestServer(t)
	client := createTestClient(t, ts.URL, "Bar Manolo")

	for _, date := range []string{"2025-03-10", "2025-03-25", "2025-07-01", "2024-12-31"} {
		body := map[string]any{"client_id": client.ID, "amount": 121.0, "transaction_date": date}
		if status := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", body, nil); status != http.StatusCreated {
			t.Fatalf("create sale on %s: status %d", date, status)
		}
	}

	cases := []struct {
		query string
		want  int
	}{
		{"", 4},
		{"?date=2025-03-10", 1},
		{"?month=3&year=2025", 2},
		{"?year=2025", 3},
		{"?year=2024", 1},
		{"?date=1999-01-01", 0},
	}
	for _, tc := range cases {
		var sales []core.Transaction
		if status := doJSON(t, http.MethodGet, ts.URL+"/api/transactions"+tc.query, nil, &sales); status != http.StatusOK {
			t.Fatalf("list %q: status %d", tc.query, status)
		}
		if len(sales) != tc.want {
			t.Fatalf("list %q: expected %d sales, got %d", tc.query, tc.want, len(sales))
		}
	}

	if status := doJSON(t, http.MethodGet, ts.URL+"/api/transactions?month=13&year=2025", nil, nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for month out of range, got %d", status)
	}
}

func TestReports(t *testing.T) {
	_, ts := newTestServer(t)
	client := createTestClient(t, ts.URL, "Bar Manolo")

	for _, sale := range []map[string]any{
		{"client_id": client.ID, "amount": 121.0, "transaction_date": "2025-03-10"},
		{"client_id": client.ID, "amount": 110.0, "vat_rate": 10, "transaction_date": "2025-03-10"},
		{"client_id": client.ID, "amount": 50.0, "vat_rate": 0, "transaction_date": "2025-06-01"},
	} {
		if status := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", sale, nil); status != http.StatusCreated {
			t.Fatalf("create sale: status %d", status)
		}
	}

	var daily dailyReport
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/reports/daily?date=2025-03-10", nil, &daily); status != http.StatusOK {
		t.Fatalf("daily report: status %d", status)
	}
	if daily.Date != "2025-03-10" || daily.Count != 2 {
		t.Fatalf("unexpected daily report: %+v", daily)
	}
	if daily.Total.Cents != 23100 || daily.NetTotal.Cents != 20000 || daily.VATTotal.Cents != 3100 {
		t.Fatalf("unexpected daily totals: %+v", daily)
	}

	var monthly monthlyReport
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/reports/monthly?year=2025&month=6", nil, &monthly); status != http.StatusOK {
		t.Fatalf("monthly report: status %d", status)
	}
	if monthly.Count != 1 || monthly.Total.Cents != 5000 || monthly.VATTotal.Cents != 0 {
		t.Fatalf("unexpected monthly report: %+v", monthly)
	}

	var yearly yearlyReport
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/reports/yearly?year=2025", nil, &yearly); status != http.StatusOK {
		t.Fatalf("yearly report: status %d", status)
	}
	if yearly.Count != 3 || yearly.Total.Cents != 28100 {
		t.Fatalf("unexpected yearly report: %+v", yearly)
	}

	// Empty period: zeros, never nulls.
	var empty dailyReport
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/reports/daily?date=1999-01-01", nil, &empty); status != http.StatusOK {
		t.Fatalf("empty daily report: status %d", status)
	}
	if empty.Count != 0 || empty.Total.Cents != 0 || empty.NetTotal.Cents != 0 || empty.VATTotal.Cents != 0 {
		t.Fatalf("empty report should be all zeros: %+v", empty)
	}
}

func TestReportCacheInvalidation(t *testing.T) {
	_, ts := newTestServer(t)
	client := createTestClient(t, ts.URL, "Bar Manolo")

	sale := map[string]any{"client_id": client.ID, "amount": 121.0, "transaction_date": "2025-03-10"}
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", sale, nil); status != http.StatusCreated {
		t.Fatalf("create sale: status %d", status)
	}

	var first dailyReport
	doJSON(t, http.MethodGet, ts.URL+"/api/reports/daily?date=2025-03-10", nil, &first)
	if first.Count != 1 {
		t.Fatalf("expected 1 sale, got %d", first.Count)
	}

	// A second write must purge the cached summary.
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", sale, nil); status != http.StatusCreated {
		t.Fatalf("create second sale: status %d", status)
	}

	var second dailyReport
	doJSON(t, http.MethodGet, ts.URL+"/api/reports/daily?date=2025-03-10", nil, &second)
	if second.Count != 2 || second.Total.Cents != 24200 {
		t.Fatalf("report should reflect the new sale: %+v", second)
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	var health map[string]string
	if status := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, &health); status != http.StatusOK {
		t.Fatalf("healthz: status %d", status)
	}
	if health["status"] != "ok" {
		t.Fatalf("unexpected health body: %+v", health)
	}

	var ready map[string]any
	if status := doJSON(t, http.MethodGet, ts.URL+"/readyz", nil, &ready); status != http.StatusOK {
		t.Fatalf("readyz: status %d", status)
	}
	if ready["status"] != "ready" {
		t.Fatalf("unexpected readiness body: %+v", ready)
	}
}
