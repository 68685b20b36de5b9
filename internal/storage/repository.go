package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ventas/internal/core"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339

// SQLiteRepository is the relational store for clients and transactions.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping verifies the database connection is still usable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateClient inserts a client and returns it with the generated id.
// Blank phone/email are stored as NULL.
func (r *SQLiteRepository) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	c.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (name, phone, email, created_at) VALUES (?, NULLIF(?, ''), NULLIF(?, ''), ?)`,
		c.Name, c.Phone, c.Email, c.CreatedAt.Format(timeLayout))
	if err != nil {
		return core.Client{}, fmt.Errorf("insert client: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Client{}, fmt.Errorf("client insert id: %w", err)
	}

	slog.InfoContext(ctx, "Client saved", "id", c.ID, "name", c.Name)
	return c, nil
}

func (r *SQLiteRepository) GetClient(ctx context.Context, id int64) (core.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), created_at FROM clients WHERE id = ?`, id)
	return scanClient(row)
}

// ListClients returns all clients in insertion order.
func (r *SQLiteRepository) ListClients(ctx context.Context) ([]core.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), created_at FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := []core.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// UpdateClient replaces name/phone/email of an existing client.
func (r *SQLiteRepository) UpdateClient(ctx context.Context, c core.Client) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, phone = NULLIF(?, ''), email = NULLIF(?, '') WHERE id = ?`,
		c.Name, c.Phone, c.Email, c.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update client rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteClient removes a client that owns no transactions. The referential
// guard is enforced here, not just by the foreign-key constraint, so the
// caller gets a distinct conflict error instead of a driver failure.
func (r *SQLiteRepository) DeleteClient(ctx context.Context, id int64) error {
	var owned int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM transactions WHERE client_id = ?`, id).Scan(&owned)
	if err != nil {
		return fmt.Errorf("count client transactions: %w", err)
	}
	if owned > 0 {
		return core.ErrClientHasSales
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete client rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Client deleted", "id", id)
	return nil
}

// CreateTransaction inserts a transaction with its already-derived net/VAT
// fields and returns it with the generated id.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (client_id, amount_cents, net_amount_cents, vat_rate, vat_amount_cents, description, transaction_date, created_at)
		 VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?)`,
		t.ClientID, t.Amount.Cents, t.NetAmount.Cents, t.VATRate.String(), t.VATAmount.Cents,
		t.Description, t.Date.UTC().Format(timeLayout), t.CreatedAt.Format(timeLayout))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"client_id", t.ClientID,
		"amount_cents", t.Amount.Cents,
		"vat_rate", t.VATRate.String())
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransaction+` WHERE t.id = ?`, id)
	return scanTransaction(row)
}

// ListTransactions returns transactions joined with the owning client's name,
// newest first. A nil period means no date filtering.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, p *core.Period) ([]core.Transaction, error) {
	query := selectTransaction
	var args []any
	if p != nil {
		start, end := p.Bounds()
		query += ` WHERE t.transaction_date >= ? AND t.transaction_date < ?`
		args = append(args, start.Format(timeLayout), end.Format(timeLayout))
	}
	query += ` ORDER BY t.transaction_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// UpdateTransaction replaces every caller-settable field, derived fields
// included, and re-queues the row for ledger export.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET client_id = ?, amount_cents = ?, net_amount_cents = ?, vat_rate = ?, vat_amount_cents = ?,
		     description = NULLIF(?, ''), transaction_date = ?, sync_status = 'pending', synced_at = NULL
		 WHERE id = ?`,
		t.ClientID, t.Amount.Cents, t.NetAmount.Cents, t.VATRate.String(), t.VATAmount.Cents,
		t.Description, t.Date.UTC().Format(timeLayout), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// SumPeriod aggregates gross/net/VAT totals and the row count over the
// half-open period range. An empty period yields zeroes.
func (r *SQLiteRepository) SumPeriod(ctx context.Context, p core.Period) (core.PeriodSummary, error) {
	start, end := p.Bounds()
	var s core.PeriodSummary
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0), COALESCE(SUM(net_amount_cents), 0),
		        COALESCE(SUM(vat_amount_cents), 0), COUNT(id)
		 FROM transactions WHERE transaction_date >= ? AND transaction_date < ?`,
		start.Format(timeLayout), end.Format(timeLayout)).
		Scan(&s.Total.Cents, &s.NetTotal.Cents, &s.VATTotal.Cents, &s.Count)
	if err != nil {
		return core.PeriodSummary{}, fmt.Errorf("sum period %s: %w", p, err)
	}
	return s, nil
}

// PendingSale identifies a transaction awaiting ledger export.
type PendingSale struct {
	ID        int64
	CreatedAt time.Time
}

// PendingSync returns transactions that have not been exported yet.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]PendingSale, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM transactions WHERE sync_status = 'pending' ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("pending sync transactions: %w", err)
	}
	defer rows.Close()

	var pending []PendingSale
	for rows.Next() {
		var p PendingSale
		var created string
		if err := rows.Scan(&p.ID, &created); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		if p.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse pending created_at: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced records a successful ledger export.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'synced', synced_at = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	return nil
}

// MarkSyncError flags a transaction whose export failed so the periodic scan
// does not spin on it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

const selectTransaction = `
	SELECT t.id, t.client_id, c.name AS client_name,
	       t.amount_cents, t.net_amount_cents, t.vat_rate, t.vat_amount_cents,
	       COALESCE(t.description, ''), t.transaction_date, t.created_at
	FROM transactions t
	INNER JOIN clients c ON c.id = t.client_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (core.Client, error) {
	var c core.Client
	var created string
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Client{}, core.ErrNotFound
	}
	if err != nil {
		return core.Client{}, fmt.Errorf("scan client: %w", err)
	}
	if c.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return core.Client{}, fmt.Errorf("parse client created_at: %w", err)
	}
	return c, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var rate, date, created string
	err := row.Scan(&t.ID, &t.ClientID, &t.ClientName,
		&t.Amount.Cents, &t.NetAmount.Cents, &rate, &t.VATAmount.Cents,
		&t.Description, &date, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	if t.VATRate, err = core.ParseVATRate(rate); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction vat_rate: %w", err)
	}
	if t.Date, err = time.Parse(timeLayout, date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction_date: %w", err)
	}
	if t.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction created_at: %w", err)
	}
	return t, nil
}
