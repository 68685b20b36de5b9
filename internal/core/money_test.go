package core

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half away from zero on the third decimal
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-1", -100, true}, // sign checks happen in validation, not parsing
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 12100})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "121.00" {
		t.Fatalf("expected 121.00, got %s", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("121"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 12100 {
		t.Fatalf("expected 12100 cents, got %d", m.Cents)
	}
}

func TestMoneyString(t *testing.T) {
	if s := (Money{Cents: 5}).String(); s != "0.05" {
		t.Fatalf("expected 0.05, got %s", s)
	}
	if s := (Money{Cents: -12345}).String(); s != "-123.45" {
		t.Fatalf("expected -123.45, got %s", s)
	}
}
