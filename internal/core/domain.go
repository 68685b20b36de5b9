package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation is the class sentinel for bad input; the specific validation
// errors below wrap it so callers can classify with errors.Is.
var ErrValidation = errors.New("validation")

var (
	ErrEmptyName      = fmt.Errorf("%w: empty client name", ErrValidation)
	ErrMissingClient  = fmt.Errorf("%w: missing client id", ErrValidation)
	ErrInvalidAmount  = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidRate    = fmt.Errorf("%w: invalid vat rate", ErrValidation)
	ErrInvalidDate    = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrDescriptionLen = fmt.Errorf("%w: description too long (max 200 characters)", ErrValidation)

	ErrNotFound       = errors.New("not found")
	ErrClientHasSales = errors.New("client has recorded transactions")
)

type (
	// Client is a customer the business attributes sales to.
	Client struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Phone     string    `json:"phone,omitempty"`
		Email     string    `json:"email,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	// Transaction is a single client-attributed sale. Amount is the gross
	// (VAT-inclusive) value of record; NetAmount and VATAmount are always
	// derived from it at write time, never entered independently.
	Transaction struct {
		ID          int64     `json:"id"`
		ClientID    int64     `json:"client_id"`
		ClientName  string    `json:"client_name,omitempty"` // filled by list joins
		Amount      Money     `json:"amount"`
		NetAmount   Money     `json:"net_amount"`
		VATRate     VATRate   `json:"vat_rate"`
		VATAmount   Money     `json:"vat_amount"`
		Description string    `json:"description,omitempty"`
		Date        time.Time `json:"transaction_date"`
		CreatedAt   time.Time `json:"created_at"`
	}
)

func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 200 {
		return fmt.Errorf("%w: client name too long (max 200 characters)", ErrValidation)
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.ClientID <= 0 {
		return ErrMissingClient
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if t.VATRate.IsNegative() {
		return ErrInvalidRate
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(t.Description) > 200 {
		return ErrDescriptionLen
	}
	return nil
}
