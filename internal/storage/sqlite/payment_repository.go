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

type PaymentRepository struct {
	store  *Store
	outbox *OutboxRepository
	log    *slog.Logger
}

func NewPaymentRepository(store *Store, outbox *OutboxRepository, log *slog.Logger) *PaymentRepository {
	return &PaymentRepository{
		store:  store,
		outbox: outbox,
		log:    log.With("component", "payment_repository"),
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p model.Payment) (*model.Payment, error) {
	if err := model.Validate(p); err != nil {
		return nil, err
	}

	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.SyncedAt = nil
	if p.PaidAt.IsZero() {
		p.PaidAt = now
	}

	err := r.store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO payment (id, invoiceId, amount, method, transactionId, paidAt, notes, createdAt, updatedAt)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.InvoiceID, p.Amount, p.Method.String(), nullIfEmpty(p.TransactionID),
			formatTime(p.PaidAt), nullIfEmpty(p.Notes),
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(&p)
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpCreate, model.KindPayment, p.ID, snapshot)
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug("payment created", "id", p.ID, "invoice_id", p.InvoiceID)
	return &p, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, invoiceId, amount, method, transactionId, paidAt, notes, createdAt, updatedAt, syncedAt
		FROM payment WHERE id = ?`, id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// List returns payments most recent first; invoiceID == "" lists all.
func (r *PaymentRepository) List(ctx context.Context, invoiceID string) ([]model.Payment, error) {
	query := `
		SELECT id, invoiceId, amount, method, transactionId, paidAt, notes, createdAt, updatedAt, syncedAt
		FROM payment`
	args := []any{}
	if invoiceID != "" {
		query += ` WHERE invoiceId = ?`
		args = append(args, invoiceID)
	}
	query += ` ORDER BY paidAt DESC`

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PaymentRepository) Update(ctx context.Context, id string, patch model.PaymentPatch) (*model.Payment, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(p)
	if err := model.Validate(*p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()

	err = r.store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE payment SET amount = ?, method = ?, transactionId = ?, paidAt = ?, notes = ?, updatedAt = ?
			WHERE id = ?`,
			p.Amount, p.Method.String(), nullIfEmpty(p.TransactionID),
			formatTime(p.PaidAt), nullIfEmpty(p.Notes),
			formatTime(p.UpdatedAt), p.ID)
		if err != nil {
			return fmt.Errorf("update payment: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(p)
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpUpdate, model.KindPayment, p.ID, snapshot)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	return r.store.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM payment WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(model.Tombstone{ID: id})
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpDelete, model.KindPayment, id, snapshot)
	})
}

func (r *PaymentRepository) UpsertRemote(ctx context.Context, p *model.Payment, syncedAt time.Time) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO payment (id, invoiceId, amount, method, transactionId, paidAt, notes, createdAt, updatedAt, syncedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			invoiceId = excluded.invoiceId,
			amount = excluded.amount,
			method = excluded.method,
			transactionId = excluded.transactionId,
			paidAt = excluded.paidAt,
			notes = excluded.notes,
			createdAt = excluded.createdAt,
			updatedAt = excluded.updatedAt,
			syncedAt = excluded.syncedAt`,
		p.ID, p.InvoiceID, p.Amount, p.Method.String(), nullIfEmpty(p.TransactionID),
		formatTime(p.PaidAt), nullIfEmpty(p.Notes),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt), formatTime(syncedAt))
	if err != nil {
		return fmt.Errorf("upsert payment from remote: %w", err)
	}
	return nil
}

func scanPayment(row rowScanner) (*model.Payment, error) {
	var (
		p                    model.Payment
		method               string
		transactionID, notes sql.NullString
		paidAt               string
		createdAt, updatedAt string
		syncedAt             sql.NullString
	)
	if err := row.Scan(&p.ID, &p.InvoiceID, &p.Amount, &method, &transactionID,
		&paidAt, &notes, &createdAt, &updatedAt, &syncedAt); err != nil {
		return nil, err
	}
	p.Method = model.PaymentMethod(method)
	p.TransactionID = transactionID.String
	p.Notes = notes.String

	var err error
	if p.PaidAt, err = parseTime(paidAt); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if p.SyncedAt, err = parseNullableTime(syncedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
