package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"billbase/internal/model"
)

type InvoiceRepository struct {
	store  *Store
	outbox *OutboxRepository
	items  *LineItemRepository
	log    *slog.Logger
}

func NewInvoiceRepository(store *Store, outbox *OutboxRepository, items *LineItemRepository, log *slog.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		store:  store,
		outbox: outbox,
		items:  items,
		log:    log.With("component", "invoice_repository"),
	}
}

// Create persists the invoice and its outbox record atomically. The caller
// must have validated the row; totals are re-checked here because the store
// will not.
func (r *InvoiceRepository) Create(ctx context.Context, inv model.Invoice) (*model.Invoice, error) {
	if err := model.Validate(inv); err != nil {
		return nil, err
	}
	if err := inv.CheckTotals(); err != nil {
		return nil, err
	}

	now := time.Now()
	inv.ID = uuid.NewString()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	inv.SyncedAt = nil

	err := r.store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO invoice (id, businessId, clientId, invoiceNumber, status, issueDate, dueDate,
			                     subtotal, tax, total, currency, notes, createdAt, updatedAt)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inv.ID, inv.BusinessID, inv.ClientID, inv.InvoiceNumber, inv.Status.String(),
			formatTime(inv.IssueDate), formatTime(inv.DueDate),
			inv.Subtotal, inv.Tax, inv.Total, inv.Currency, nullIfEmpty(inv.Notes),
			formatTime(inv.CreatedAt), formatTime(inv.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(&inv)
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpCreate, model.KindInvoice, inv.ID, snapshot)
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug("invoice created", "id", inv.ID, "number", inv.InvoiceNumber)
	return &inv, nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	row := r.store.db.QueryRowContext(ctx, invoiceSelect+` WHERE id = ?`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List returns invoices newest first, narrowed by any non-zero filter field.
func (r *InvoiceRepository) List(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error) {
	query := invoiceSelect + ` WHERE 1=1`
	args := []any{}
	if filter.BusinessID != "" {
		query += ` AND businessId = ?`
		args = append(args, filter.BusinessID)
	}
	if filter.ClientID != "" {
		query += ` AND clientId = ?`
		args = append(args, filter.ClientID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status.String())
	}
	query += ` ORDER BY createdAt DESC`

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (r *InvoiceRepository) Update(ctx context.Context, id string, patch model.InvoicePatch) (*model.Invoice, error) {
	inv, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(inv)
	if err := model.Validate(*inv); err != nil {
		return nil, err
	}
	if err := inv.CheckTotals(); err != nil {
		return nil, err
	}
	inv.UpdatedAt = time.Now()

	err = r.store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE invoice SET businessId = ?, clientId = ?, invoiceNumber = ?, status = ?,
			                   issueDate = ?, dueDate = ?, subtotal = ?, tax = ?, total = ?,
			                   currency = ?, notes = ?, updatedAt = ?
			WHERE id = ?`,
			inv.BusinessID, inv.ClientID, inv.InvoiceNumber, inv.Status.String(),
			formatTime(inv.IssueDate), formatTime(inv.DueDate),
			inv.Subtotal, inv.Tax, inv.Total, inv.Currency, nullIfEmpty(inv.Notes),
			formatTime(inv.UpdatedAt), inv.ID)
		if err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(inv)
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpUpdate, model.KindInvoice, inv.ID, snapshot)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes the invoice together with its line items: line items are a
// local-only cache and leave no tombstones, the invoice does.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	return r.store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := r.items.DeleteAllForInvoiceTx(tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM invoice WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(model.Tombstone{ID: id})
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpDelete, model.KindInvoice, id, snapshot)
	})
}

// UpsertRemote must not use REPLACE: REPLACE deletes before inserting, and
// that delete would cascade to the invoice's local-only line items.
func (r *InvoiceRepository) UpsertRemote(ctx context.Context, inv *model.Invoice, syncedAt time.Time) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO invoice (id, businessId, clientId, invoiceNumber, status, issueDate, dueDate,
		                     subtotal, tax, total, currency, notes, createdAt, updatedAt, syncedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			businessId = excluded.businessId,
			clientId = excluded.clientId,
			invoiceNumber = excluded.invoiceNumber,
			status = excluded.status,
			issueDate = excluded.issueDate,
			dueDate = excluded.dueDate,
			subtotal = excluded.subtotal,
			tax = excluded.tax,
			total = excluded.total,
			currency = excluded.currency,
			notes = excluded.notes,
			createdAt = excluded.createdAt,
			updatedAt = excluded.updatedAt,
			syncedAt = excluded.syncedAt`,
		inv.ID, inv.BusinessID, inv.ClientID, inv.InvoiceNumber, inv.Status.String(),
		formatTime(inv.IssueDate), formatTime(inv.DueDate),
		inv.Subtotal, inv.Tax, inv.Total, inv.Currency, nullIfEmpty(inv.Notes),
		formatTime(inv.CreatedAt), formatTime(inv.UpdatedAt), formatTime(syncedAt))
	if err != nil {
		return fmt.Errorf("upsert invoice from remote: %w", err)
	}
	return nil
}

const invoiceSelect = `
	SELECT id, businessId, clientId, invoiceNumber, status, issueDate, dueDate,
	       subtotal, tax, total, currency, notes, createdAt, updatedAt, syncedAt
	FROM invoice`

func scanInvoice(row rowScanner) (*model.Invoice, error) {
	var (
		inv                             model.Invoice
		status                          string
		issueDate, dueDate              string
		notes                           sql.NullString
		createdAt, updatedAt            string
		syncedAt                        sql.NullString
	)
	if err := row.Scan(&inv.ID, &inv.BusinessID, &inv.ClientID, &inv.InvoiceNumber, &status,
		&issueDate, &dueDate, &inv.Subtotal, &inv.Tax, &inv.Total, &inv.Currency,
		&notes, &createdAt, &updatedAt, &syncedAt); err != nil {
		return nil, err
	}
	inv.Status = model.InvoiceStatus(status)
	inv.Notes = notes.String

	var err error
	if inv.IssueDate, err = parseTime(issueDate); err != nil {
		return nil, err
	}
	if inv.DueDate, err = parseTime(dueDate); err != nil {
		return nil, err
	}
	if inv.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if inv.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if inv.SyncedAt, err = parseNullableTime(syncedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}
