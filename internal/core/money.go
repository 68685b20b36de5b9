// Package core holds the domain model of the sales ledger: clients,
// transactions, money handling and the VAT decomposition arithmetic.
//
// This file contains the Money type. Amounts are held as integer cents to
// keep arithmetic exact; the JSON form is the decimal currency value with
// two fixed decimals (e.g. 1234 cents <-> 12.34).
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a currency amount in minor units (cents).
type Money struct {
	Cents int64
}

// NewMoney builds a Money from a decimal currency value, rounding any
// sub-cent fraction half away from zero.
//
// Examples:
//
//	NewMoney(decimal 12.34)  -> 1234 cents
//	NewMoney(decimal 12.345) -> 1235 cents
func NewMoney(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

// ParseMoney converts a decimal string to Money. It accepts both dot and
// comma decimal separators. Returns ErrInvalidAmount for malformed input.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return NewMoney(d), nil
}

// Decimal returns the exact decimal currency value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount with two fixed decimals.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON emits the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
