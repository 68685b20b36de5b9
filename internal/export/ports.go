package export

import (
	"context"

	"ventas/internal/core"
)

// LedgerWriter mirrors sales into an external ledger.
//
// AppendSale must be idempotent per sale id: redelivered or re-queued events
// may export the same sale twice, and the second write has to overwrite the
// first row instead of duplicating it.
type LedgerWriter interface {
	AppendSale(ctx context.Context, sale core.Transaction) (rowRef string, err error)
	RemoveSale(ctx context.Context, saleID int64) error
}
