package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ventas/internal/amqp"
	"ventas/internal/core"
	"ventas/internal/export"
	"ventas/internal/storage"
)

// SyncWorker mirrors sales from SQLite into the external ledger, driven by
// AMQP events with a periodic pending scan as backup.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	ledger    export.LedgerWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, ledger export.LedgerWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleSaleEvent processes a single sale event from AMQP.
func (w *SyncWorker) HandleSaleEvent(ctx context.Context, msg *amqp.SaleEventMessage) error {
	slog.InfoContext(ctx, "Processing sale event", "kind", msg.Kind, "id", msg.ID)

	switch msg.Kind {
	case amqp.KindUpsert:
		return w.exportSale(ctx, msg.ID)
	case amqp.KindDelete:
		if err := w.ledger.RemoveSale(ctx, msg.ID); err != nil {
			return fmt.Errorf("remove sale %d from ledger: %w", msg.ID, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown sale event kind: %q", msg.Kind)
	}
}

// exportSale fetches the sale and writes it to the ledger, recording the
// outcome in sync_status.
func (w *SyncWorker) exportSale(ctx context.Context, id int64) error {
	sale, err := w.storage.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Deleted between the event and now. Nothing to export.
			slog.WarnContext(ctx, "Sale vanished before export", "id", id)
			return nil
		}
		return fmt.Errorf("get sale from storage: %w", err)
	}

	if _, err := w.ledger.AppendSale(ctx, sale); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append sale %d to ledger: %w", id, err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark sale %d synced: %w", id, err)
	}

	slog.InfoContext(ctx, "Sale exported to ledger", "id", id)
	return nil
}

// ProcessPending exports sales that never made it to the ledger. This is a
// backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.PendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending sales: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending sales", "count", len(pending))

	for _, p := range pending {
		if err := w.exportSale(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending sale", "id", p.ID, "error", err)
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog at worker startup, recovering
// from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.PendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending sales for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending sales found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending sales on startup, processing...",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		if err := w.exportSale(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export sale during startup", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)

	return nil
}
