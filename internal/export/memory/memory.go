package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ventas/internal/core"
)

// Ledger is an in-memory LedgerWriter used in tests and local development.
type Ledger struct {
	mu      sync.Mutex
	rows    map[int64]core.Transaction
	failErr error
}

func New() *Ledger {
	return &Ledger{rows: make(map[int64]core.Transaction)}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (l *Ledger) FailWith(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failErr = err
}

// AppendSale upserts the sale keyed by its id.
func (l *Ledger) AppendSale(_ context.Context, sale core.Transaction) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failErr != nil {
		return "", l.failErr
	}
	l.rows[sale.ID] = sale
	return fmt.Sprintf("mem:%d", sale.ID), nil
}

// RemoveSale drops the sale if present. Removing an absent sale is not an
// error: the row may never have been exported.
func (l *Ledger) RemoveSale(_ context.Context, saleID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failErr != nil {
		return l.failErr
	}
	delete(l.rows, saleID)
	return nil
}

// Sales returns the exported sales ordered by id.
func (l *Ledger) Sales() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]core.Transaction, 0, len(l.rows))
	for _, sale := range l.rows {
		out = append(out, sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
