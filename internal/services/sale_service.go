package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ventas/internal/amqp"
	"ventas/internal/core"
	"ventas/internal/storage"
)

// SaleService orchestrates sale operations across SQLite and AMQP
type SaleService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewSaleService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *SaleService {
	return &SaleService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateSale decomposes the gross amount into net and VAT, saves the sale
// locally and publishes an upsert message for the sync worker.
func (s *SaleService) CreateSale(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	prepared, err := s.prepare(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	// Save to SQLite first (fast, reliable)
	created, err := s.storage.CreateTransaction(ctx, prepared)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save sale: %w", err)
	}

	// Publish async upsert message (non-blocking)
	if err := s.publishUpsert(ctx, created.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish upsert message",
			"id", created.ID, "error", err)
		// Don't fail the request - the sale is saved locally
	}

	return created, nil
}

// UpdateSale replaces a sale in full. Net and VAT are always recomputed from
// the submitted gross amount and rate, never carried over from the old row.
func (s *SaleService) UpdateSale(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	prepared, err := s.prepare(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	if err := s.storage.UpdateTransaction(ctx, prepared); err != nil {
		return core.Transaction{}, fmt.Errorf("update sale: %w", err)
	}

	updated, err := s.storage.GetTransaction(ctx, prepared.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("reload sale: %w", err)
	}

	if err := s.publishUpsert(ctx, updated.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish upsert message",
			"id", updated.ID, "error", err)
	}

	return updated, nil
}

// DeleteSale removes a sale locally and publishes a delete message.
func (s *SaleService) DeleteSale(ctx context.Context, id int64) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}

	if err := s.publishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "error", err)
		// Don't fail the request - the sale is deleted locally
	}

	return nil
}

// prepare defaults the date, validates the sale, verifies the client exists
// and fills in the derived net and VAT amounts.
func (s *SaleService) prepare(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if _, err := s.storage.GetClient(ctx, t.ClientID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Transaction{}, fmt.Errorf("%w: unknown client %d", core.ErrValidation, t.ClientID)
		}
		return core.Transaction{}, fmt.Errorf("check client: %w", err)
	}

	breakdown, err := core.DecomposeVAT(t.Amount, t.VATRate)
	if err != nil {
		return core.Transaction{}, err
	}
	t.NetAmount = breakdown.Net
	t.VATAmount = breakdown.VAT

	return t, nil
}

func (s *SaleService) publishUpsert(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping upsert message")
		return nil
	}

	return s.amqpClient.PublishSaleEvent(ctx, amqp.NewSaleUpsertMessage(id))
}

func (s *SaleService) publishDelete(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}

	return s.amqpClient.PublishSaleEvent(ctx, amqp.NewSaleDeleteMessage(id))
}

// Close closes both storage and AMQP connections
func (s *SaleService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close sale service: %v", errs)
	}

	return nil
}
