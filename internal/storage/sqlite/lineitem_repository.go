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

// LineItemRepository is local-only: line items never write to the outbox and
// never sync. Same CRUD shape as the syncable repositories, minus the queue.
type LineItemRepository struct {
	store *Store
	log   *slog.Logger
}

func NewLineItemRepository(store *Store, log *slog.Logger) *LineItemRepository {
	return &LineItemRepository{
		store: store,
		log:   log.With("component", "line_item_repository"),
	}
}

// Create derives the total before persisting; the stored value is always the
// computed one.
func (r *LineItemRepository) Create(ctx context.Context, li model.LineItem) (*model.LineItem, error) {
	if err := model.Validate(li); err != nil {
		return nil, err
	}

	now := time.Now()
	li.ID = uuid.NewString()
	li.CreatedAt = now
	li.UpdatedAt = now
	li.Total = li.ComputeTotal()

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO line_item (id, invoiceId, description, quantity, unitPrice, taxRate, total, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		li.ID, li.InvoiceID, li.Description, li.Quantity, li.UnitPrice, li.TaxRate, li.Total,
		formatTime(li.CreatedAt), formatTime(li.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert line item: %w", err)
	}
	return &li, nil
}

func (r *LineItemRepository) GetByID(ctx context.Context, id string) (*model.LineItem, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, invoiceId, description, quantity, unitPrice, taxRate, total, createdAt, updatedAt
		FROM line_item WHERE id = ?`, id)
	li, err := scanLineItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get line item: %w", err)
	}
	return li, nil
}

// ListForInvoice returns the invoice's items in creation order.
func (r *LineItemRepository) ListForInvoice(ctx context.Context, invoiceID string) ([]model.LineItem, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, invoiceId, description, quantity, unitPrice, taxRate, total, createdAt, updatedAt
		FROM line_item WHERE invoiceId = ? ORDER BY createdAt ASC, rowid ASC`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	var out []model.LineItem
	for rows.Next() {
		li, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		out = append(out, *li)
	}
	return out, rows.Err()
}

func (r *LineItemRepository) Update(ctx context.Context, id string, patch model.LineItemPatch) (*model.LineItem, error) {
	li, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(li)
	if err := model.Validate(*li); err != nil {
		return nil, err
	}
	li.Total = li.ComputeTotal()
	li.UpdatedAt = time.Now()

	_, err = r.store.db.ExecContext(ctx, `
		UPDATE line_item SET description = ?, quantity = ?, unitPrice = ?, taxRate = ?, total = ?, updatedAt = ?
		WHERE id = ?`,
		li.Description, li.Quantity, li.UnitPrice, li.TaxRate, li.Total,
		formatTime(li.UpdatedAt), li.ID)
	if err != nil {
		return nil, fmt.Errorf("update line item: %w", err)
	}
	return li, nil
}

func (r *LineItemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM line_item WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete line item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllForInvoice is the bulk removal used when an invoice is deleted.
func (r *LineItemRepository) DeleteAllForInvoice(ctx context.Context, invoiceID string) error {
	return r.store.WithTx(ctx, func(tx *sql.Tx) error {
		return r.DeleteAllForInvoiceTx(tx, invoiceID)
	})
}

// DeleteAllForInvoiceTx is the same removal inside a caller-owned transaction.
func (r *LineItemRepository) DeleteAllForInvoiceTx(tx *sql.Tx, invoiceID string) error {
	if _, err := tx.Exec(`DELETE FROM line_item WHERE invoiceId = ?`, invoiceID); err != nil {
		return fmt.Errorf("delete line items for invoice: %w", err)
	}
	return nil
}

func scanLineItem(row rowScanner) (*model.LineItem, error) {
	var (
		li                   model.LineItem
		createdAt, updatedAt string
	)
	if err := row.Scan(&li.ID, &li.InvoiceID, &li.Description, &li.Quantity, &li.UnitPrice,
		&li.TaxRate, &li.Total, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if li.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if li.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &li, nil
}
