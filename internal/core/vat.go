package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// VATRate is a VAT percentage (21 means 21%). The rate menu offered by the
// UI is {0, 4, 10, 21}, but any non-negative rate is accepted here: the
// decomposition is a general formula, the menu is a front-end affordance.
type VATRate struct {
	decimal.Decimal
}

// DefaultVATRate is applied when a transaction omits the rate.
var DefaultVATRate = NewVATRate(21)

func NewVATRate(percent int64) VATRate {
	return VATRate{decimal.NewFromInt(percent)}
}

// ParseVATRate converts a decimal percentage string to a VATRate.
func ParseVATRate(s string) (VATRate, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return VATRate{}, ErrInvalidRate
	}
	return VATRate{d}, nil
}

// MarshalJSON emits the rate as a plain JSON number (21, 10.5, ...).
func (r VATRate) MarshalJSON() ([]byte, error) {
	return []byte(r.Decimal.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (r *VATRate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	parsed, err := ParseVATRate(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Breakdown is the net/VAT split of a gross amount.
type Breakdown struct {
	Net Money
	VAT Money
}

// DecomposeVAT splits a gross (VAT-inclusive) amount into its net and VAT
// components:
//
//	net = gross / (1 + rate/100)
//	vat = gross - net
//
// The net amount is rounded to cents half away from zero; the VAT amount is
// the remainder, so net + vat always reproduces the gross exactly. Pure
// function: the only error conditions are a negative gross or rate.
func DecomposeVAT(gross Money, rate VATRate) (Breakdown, error) {
	if gross.Cents < 0 {
		return Breakdown{}, ErrInvalidAmount
	}
	if rate.IsNegative() {
		return Breakdown{}, ErrInvalidRate
	}

	divisor := decimal.NewFromInt(1).Add(rate.Decimal.Div(decimal.NewFromInt(100)))
	netCents := decimal.NewFromInt(gross.Cents).Div(divisor).Round(0).IntPart()

	net := Money{Cents: netCents}
	return Breakdown{
		Net: net,
		VAT: Money{Cents: gross.Cents - net.Cents},
	}, nil
}
