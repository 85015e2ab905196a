package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by repositories when the requested row does not
// exist. Update/Delete surface it instead of inventing a row.
var ErrNotFound = errors.New("record not found")

// timeFormat is how timestamps are persisted. RFC3339Nano keeps outbox FIFO
// order and last-writer-wins comparisons exact.
const timeFormat = time.RFC3339Nano

// Store owns the embedded database handle. It is passed explicitly into the
// repositories and the sync engine; there is no process-wide connection.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the local database and bootstraps the schema.
// Use ":memory:" for an isolated throwaway store in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}

	return s, nil
}

func (s *Store) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS business (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			address TEXT NOT NULL,
			taxId TEXT NOT NULL,
			logo TEXT,
			createdAt TEXT NOT NULL,
			updatedAt TEXT NOT NULL,
			syncedAt TEXT
		);

		CREATE TABLE IF NOT EXISTS client (
			id TEXT PRIMARY KEY,
			businessId TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			address TEXT NOT NULL,
			taxId TEXT,
			notes TEXT,
			createdAt TEXT NOT NULL,
			updatedAt TEXT NOT NULL,
			syncedAt TEXT,
			FOREIGN KEY (businessId) REFERENCES business(id)
		);

		CREATE TABLE IF NOT EXISTS invoice (
			id TEXT PRIMARY KEY,
			businessId TEXT NOT NULL,
			clientId TEXT NOT NULL,
			invoiceNumber TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL CHECK(status IN ('draft', 'sent', 'paid', 'overdue', 'cancelled')),
			issueDate TEXT NOT NULL,
			dueDate TEXT NOT NULL,
			subtotal REAL NOT NULL,
			tax REAL NOT NULL,
			total REAL NOT NULL,
			currency TEXT NOT NULL DEFAULT 'USD',
			notes TEXT,
			createdAt TEXT NOT NULL,
			updatedAt TEXT NOT NULL,
			syncedAt TEXT,
			FOREIGN KEY (businessId) REFERENCES business(id),
			FOREIGN KEY (clientId) REFERENCES client(id)
		);

		CREATE TABLE IF NOT EXISTS line_item (
			id TEXT PRIMARY KEY,
			invoiceId TEXT NOT NULL,
			description TEXT NOT NULL,
			quantity REAL NOT NULL,
			unitPrice REAL NOT NULL,
			taxRate REAL NOT NULL DEFAULT 0,
			total REAL NOT NULL,
			createdAt TEXT NOT NULL,
			updatedAt TEXT NOT NULL,
			FOREIGN KEY (invoiceId) REFERENCES invoice(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS payment (
			id TEXT PRIMARY KEY,
			invoiceId TEXT NOT NULL,
			amount REAL NOT NULL,
			method TEXT NOT NULL CHECK(method IN ('cash', 'card', 'bank_transfer', 'check', 'other')),
			transactionId TEXT,
			paidAt TEXT NOT NULL,
			notes TEXT,
			createdAt TEXT NOT NULL,
			updatedAt TEXT NOT NULL,
			syncedAt TEXT,
			FOREIGN KEY (invoiceId) REFERENCES invoice(id)
		);

		CREATE TABLE IF NOT EXISTS outbox (
			id TEXT PRIMARY KEY,
			operation TEXT NOT NULL CHECK(operation IN ('create', 'update', 'delete')),
			tableName TEXT NOT NULL,
			recordId TEXT NOT NULL,
			data TEXT NOT NULL,
			createdAt TEXT NOT NULL,
			syncedAt TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_client_business ON client(businessId);
		CREATE INDEX IF NOT EXISTS idx_invoice_business ON invoice(businessId);
		CREATE INDEX IF NOT EXISTS idx_invoice_client ON invoice(clientId);
		CREATE INDEX IF NOT EXISTS idx_line_item_invoice ON line_item(invoiceId);
		CREATE INDEX IF NOT EXISTS idx_payment_invoice ON payment(invoiceId);
		CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(createdAt) WHERE syncedAt IS NULL;
	`)

	return err
}

// WithTx runs fn inside a transaction. This is the scoped atomic unit the
// repositories use to pair an entity write with its outbox append: either
// both land or neither does.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w; rollback: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// HighWaterMark returns the latest syncedAt across all syncable tables, or
// nil when nothing has ever synced. Pull uses it to bound incremental remote
// queries.
func (s *Store) HighWaterMark(ctx context.Context) (*time.Time, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(syncedAt) FROM (
			SELECT syncedAt FROM business WHERE syncedAt IS NOT NULL
			UNION ALL SELECT syncedAt FROM client WHERE syncedAt IS NOT NULL
			UNION ALL SELECT syncedAt FROM invoice WHERE syncedAt IS NOT NULL
			UNION ALL SELECT syncedAt FROM payment WHERE syncedAt IS NOT NULL
		)`).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("query high-water mark: %w", err)
	}
	if !raw.Valid {
		return nil, nil
	}

	t, err := time.Parse(timeFormat, raw.String)
	if err != nil {
		return nil, fmt.Errorf("parse high-water mark: %w", err)
	}
	return &t, nil
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Timestamp helpers shared by the repositories.

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		// Rows written by older builds carry second precision.
		t, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseNullableTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
