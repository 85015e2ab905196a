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

type BusinessRepository struct {
	store  *Store
	outbox *OutboxRepository
	log    *slog.Logger
}

func NewBusinessRepository(store *Store, outbox *OutboxRepository, log *slog.Logger) *BusinessRepository {
	return &BusinessRepository{
		store:  store,
		outbox: outbox,
		log:    log.With("component", "business_repository"),
	}
}

// Create assigns a fresh id and timestamps, persists the row and appends a
// create record to the outbox in the same transaction.
func (r *BusinessRepository) Create(ctx context.Context, b model.Business) (*model.Business, error) {
	if err := model.Validate(b); err != nil {
		return nil, err
	}

	now := time.Now()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.SyncedAt = nil

	err := r.store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO business (id, name, email, phone, address, taxId, logo, createdAt, updatedAt)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.Name, b.Email, b.Phone, b.Address, b.TaxID, nullIfEmpty(b.Logo),
			formatTime(b.CreatedAt), formatTime(b.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert business: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(&b)
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpCreate, model.KindBusiness, b.ID, snapshot)
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug("business created", "id", b.ID)
	return &b, nil
}

func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*model.Business, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, address, taxId, logo, createdAt, updatedAt, syncedAt
		FROM business WHERE id = ?`, id)
	b, err := scanBusiness(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

// List returns businesses newest first.
func (r *BusinessRepository) List(ctx context.Context) ([]model.Business, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, name, email, phone, address, taxId, logo, createdAt, updatedAt, syncedAt
		FROM business ORDER BY createdAt DESC`)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	var out []model.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Update merges the patch over the stored row, refreshes updatedAt and
// appends an update record carrying the full post-update snapshot.
func (r *BusinessRepository) Update(ctx context.Context, id string, patch model.BusinessPatch) (*model.Business, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(b)
	if err := model.Validate(*b); err != nil {
		return nil, err
	}
	b.UpdatedAt = time.Now()

	err = r.store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE business SET name = ?, email = ?, phone = ?, address = ?, taxId = ?, logo = ?, updatedAt = ?
			WHERE id = ?`,
			b.Name, b.Email, b.Phone, b.Address, b.TaxID, nullIfEmpty(b.Logo),
			formatTime(b.UpdatedAt), b.ID)
		if err != nil {
			return fmt.Errorf("update business: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(b)
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpUpdate, model.KindBusiness, b.ID, snapshot)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes the row and appends a tombstone carrying only the id.
func (r *BusinessRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	return r.store.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM business WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete business: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(model.Tombstone{ID: id})
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpDelete, model.KindBusiness, id, snapshot)
	})
}

// UpsertRemote overwrites the local row with a pulled remote row, stamping
// syncedAt. Pull-applied rows never touch the outbox.
func (r *BusinessRepository) UpsertRemote(ctx context.Context, b *model.Business, syncedAt time.Time) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO business (id, name, email, phone, address, taxId, logo, createdAt, updatedAt, syncedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			address = excluded.address,
			taxId = excluded.taxId,
			logo = excluded.logo,
			createdAt = excluded.createdAt,
			updatedAt = excluded.updatedAt,
			syncedAt = excluded.syncedAt`,
		b.ID, b.Name, b.Email, b.Phone, b.Address, b.TaxID, nullIfEmpty(b.Logo),
		formatTime(b.CreatedAt), formatTime(b.UpdatedAt), formatTime(syncedAt))
	if err != nil {
		return fmt.Errorf("upsert business from remote: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBusiness(row rowScanner) (*model.Business, error) {
	var (
		b                    model.Business
		logo                 sql.NullString
		createdAt, updatedAt string
		syncedAt             sql.NullString
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Address, &b.TaxID,
		&logo, &createdAt, &updatedAt, &syncedAt); err != nil {
		return nil, err
	}
	b.Logo = logo.String

	var err error
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if b.SyncedAt, err = parseNullableTime(syncedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
