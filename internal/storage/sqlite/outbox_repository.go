package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"billbase/internal/model"
)

// OutboxRepository is the append-only durable queue of pending mutations.
// Records are never mutated or reordered; the only allowed change is the
// syncedAt transition from NULL to a timestamp.
type OutboxRepository struct {
	store *Store
	log   *slog.Logger
}

func NewOutboxRepository(store *Store, log *slog.Logger) *OutboxRepository {
	return &OutboxRepository{
		store: store,
		log:   log.With("component", "outbox_repository"),
	}
}

// AppendTx appends one pending record inside the caller's transaction. The
// entity repositories call this in the same atomic unit as the entity write.
func (r *OutboxRepository) AppendTx(tx *sql.Tx, op model.Operation, kind model.Kind, recordID string, snapshot json.RawMessage) error {
	if err := op.Validate(); err != nil {
		return err
	}
	if err := kind.Validate(); err != nil {
		return err
	}

	_, err := tx.Exec(`
		INSERT INTO outbox (id, operation, tableName, recordId, data, createdAt)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), op.String(), kind.Table(), recordID, string(snapshot), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("append outbox record: %w", err)
	}
	return nil
}

// ListPending returns unsynced records in strict FIFO creation order. Push
// depends on this order for causal correctness: a create must reach the
// remote before a later update to the same record.
func (r *OutboxRepository) ListPending(ctx context.Context) ([]model.OutboxRecord, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, operation, tableName, recordId, data, createdAt, syncedAt
		FROM outbox
		WHERE syncedAt IS NULL
		ORDER BY createdAt ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list pending outbox records: %w", err)
	}
	defer rows.Close()

	var records []model.OutboxRecord
	for rows.Next() {
		rec, err := scanOutboxRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// MarkSynced stamps a record as applied remotely. Marking an already-synced
// record again is a no-op, never an error.
func (r *OutboxRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.store.db.ExecContext(ctx,
		`UPDATE outbox SET syncedAt = ? WHERE id = ? AND syncedAt IS NULL`,
		formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("mark outbox record synced: %w", err)
	}
	return nil
}

// CountPending reports how many records still await push.
func (r *OutboxRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM outbox WHERE syncedAt IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending outbox records: %w", err)
	}
	return n, nil
}

func scanOutboxRecord(rows *sql.Rows) (model.OutboxRecord, error) {
	var (
		rec       model.OutboxRecord
		op, kind  string
		data      string
		createdAt string
		syncedAt  sql.NullString
	)
	if err := rows.Scan(&rec.ID, &op, &kind, &rec.RecordID, &data, &createdAt, &syncedAt); err != nil {
		return rec, fmt.Errorf("scan outbox record: %w", err)
	}

	rec.Operation = model.Operation(op)
	rec.Kind = model.Kind(kind)
	rec.Data = json.RawMessage(data)

	var err error
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return rec, err
	}
	if rec.SyncedAt, err = parseNullableTime(syncedAt); err != nil {
		return rec, err
	}
	return rec, nil
}
