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

type ClientRepository struct {
	store  *Store
	outbox *OutboxRepository
	log    *slog.Logger
}

func NewClientRepository(store *Store, outbox *OutboxRepository, log *slog.Logger) *ClientRepository {
	return &ClientRepository{
		store:  store,
		outbox: outbox,
		log:    log.With("component", "client_repository"),
	}
}

func (r *ClientRepository) Create(ctx context.Context, c model.Client) (*model.Client, error) {
	if err := model.Validate(c); err != nil {
		return nil, err
	}

	now := time.Now()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.SyncedAt = nil

	err := r.store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO client (id, businessId, name, email, phone, address, taxId, notes, createdAt, updatedAt)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.BusinessID, c.Name, c.Email, c.Phone, c.Address,
			nullIfEmpty(c.TaxID), nullIfEmpty(c.Notes),
			formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert client: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(&c)
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpCreate, model.KindClient, c.ID, snapshot)
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug("client created", "id", c.ID, "business_id", c.BusinessID)
	return &c, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*model.Client, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, businessId, name, email, phone, address, taxId, notes, createdAt, updatedAt, syncedAt
		FROM client WHERE id = ?`, id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// List returns clients ordered by name; businessID == "" lists all.
func (r *ClientRepository) List(ctx context.Context, businessID string) ([]model.Client, error) {
	query := `
		SELECT id, businessId, name, email, phone, address, taxId, notes, createdAt, updatedAt, syncedAt
		FROM client`
	args := []any{}
	if businessID != "" {
		query += ` WHERE businessId = ?`
		args = append(args, businessID)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, id string, patch model.ClientPatch) (*model.Client, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(c)
	if err := model.Validate(*c); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()

	err = r.store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE client SET name = ?, email = ?, phone = ?, address = ?, taxId = ?, notes = ?, updatedAt = ?
			WHERE id = ?`,
			c.Name, c.Email, c.Phone, c.Address, nullIfEmpty(c.TaxID), nullIfEmpty(c.Notes),
			formatTime(c.UpdatedAt), c.ID)
		if err != nil {
			return fmt.Errorf("update client: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(c)
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpUpdate, model.KindClient, c.ID, snapshot)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	return r.store.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM client WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete client: %w", err)
		}

		snapshot, err := model.EncodeSnapshot(model.Tombstone{ID: id})
		if err != nil {
			return err
		}
		return r.outbox.AppendTx(tx, model.OpDelete, model.KindClient, id, snapshot)
	})
}

func (r *ClientRepository) UpsertRemote(ctx context.Context, c *model.Client, syncedAt time.Time) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO client (id, businessId, name, email, phone, address, taxId, notes, createdAt, updatedAt, syncedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			businessId = excluded.businessId,
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			address = excluded.address,
			taxId = excluded.taxId,
			notes = excluded.notes,
			createdAt = excluded.createdAt,
			updatedAt = excluded.updatedAt,
			syncedAt = excluded.syncedAt`,
		c.ID, c.BusinessID, c.Name, c.Email, c.Phone, c.Address,
		nullIfEmpty(c.TaxID), nullIfEmpty(c.Notes),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt), formatTime(syncedAt))
	if err != nil {
		return fmt.Errorf("upsert client from remote: %w", err)
	}
	return nil
}

func scanClient(row rowScanner) (*model.Client, error) {
	var (
		c                    model.Client
		taxID, notes         sql.NullString
		createdAt, updatedAt string
		syncedAt             sql.NullString
	)
	if err := row.Scan(&c.ID, &c.BusinessID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&taxID, &notes, &createdAt, &updatedAt, &syncedAt); err != nil {
		return nil, err
	}
	c.TaxID = taxID.String
	c.Notes = notes.String

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if c.SyncedAt, err = parseNullableTime(syncedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
