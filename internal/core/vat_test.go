package core

import "testing"

func TestDecomposeVAT(t *testing.T) {
	cases := []struct {
		gross    int64 // cents
		rate     int64 // percent
		net, vat int64 // cents
	}{
		{12100, 21, 10000, 2100},
		{10000, 0, 10000, 0},
		{10000, 21, 8264, 1736},  // 82.6446... rounds to 82.64
		{10000, 4, 9615, 385},    // 96.1538... rounds to 96.15
		{10000, 10, 9091, 909},   // 90.9090... rounds to 90.91
		{1, 21, 1, 0},            // 0.826 cents rounds up to 1
		{50, 21, 41, 9},          // 41.32... rounds to 41
		{0, 21, 0, 0},
	}
	for _, tc := range cases {
		bd, err := DecomposeVAT(Money{Cents: tc.gross}, NewVATRate(tc.rate))
		if err != nil {
			t.Fatalf("gross=%d rate=%d: unexpected error %v", tc.gross, tc.rate, err)
		}
		if bd.Net.Cents != tc.net || bd.VAT.Cents != tc.vat {
			t.Fatalf("gross=%d rate=%d: expected net=%d vat=%d, got net=%d vat=%d",
				tc.gross, tc.rate, tc.net, tc.vat, bd.Net.Cents, bd.VAT.Cents)
		}
	}
}

func TestDecomposeVATSumsToGross(t *testing.T) {
	rates := []int64{0, 4, 10, 21}
	grosses := []int64{0, 1, 7, 99, 100, 12100, 999999, 123456789}
	for _, rate := range rates {
		for _, gross := range grosses {
			bd, err := DecomposeVAT(Money{Cents: gross}, NewVATRate(rate))
			if err != nil {
				t.Fatalf("gross=%d rate=%d: unexpected error %v", gross, rate, err)
			}
			if bd.Net.Cents+bd.VAT.Cents != gross {
				t.Fatalf("gross=%d rate=%d: net+vat=%d, want %d",
					gross, rate, bd.Net.Cents+bd.VAT.Cents, gross)
			}
		}
	}
}

func TestDecomposeVATRejectsNegatives(t *testing.T) {
	if _, err := DecomposeVAT(Money{Cents: -1}, NewVATRate(21)); err == nil {
		t.Fatal("negative gross should be rejected")
	}
	if _, err := DecomposeVAT(Money{Cents: 100}, NewVATRate(-1)); err == nil {
		t.Fatal("negative rate should be rejected")
	}
}

func TestDecomposeVATNonMenuRate(t *testing.T) {
	// The rate menu is a UI affordance only; arbitrary non-negative rates work.
	rate, err := ParseVATRate("7.5")
	if err != nil {
		t.Fatalf("parse rate: %v", err)
	}
	bd, err := DecomposeVAT(Money{Cents: 10750}, rate)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if bd.Net.Cents != 10000 || bd.VAT.Cents != 750 {
		t.Fatalf("expected net=10000 vat=750, got net=%d vat=%d", bd.Net.Cents, bd.VAT.Cents)
	}
}

func TestVATRateJSON(t *testing.T) {
	r := NewVATRate(21)
	b, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "21" {
		t.Fatalf("expected 21, got %s", b)
	}

	var parsed VATRate
	if err := parsed.UnmarshalJSON([]byte("10.5")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.String() != "10.5" {
		t.Fatalf("expected 10.5, got %s", parsed.String())
	}
}
