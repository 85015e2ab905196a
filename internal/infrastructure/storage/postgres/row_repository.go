package postgres

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"billbase/internal/domain/row"
)

func NewRowRepository(db *Storage, log *slog.Logger) *RowRepository {
	return &RowRepository{
		db:  db,
		log: log,
	}
}

type RowRepository struct {
	db  *Storage
	log *slog.Logger
}

// Upsert inserts or replaces a row keyed by (table_name, id). The conflict
// branch only fires for the owner's own row, so one user cannot overwrite
// another's row even if ids collide.
func (r *RowRepository) Upsert(ctx context.Context, rw row.Row) error {
	tag, err := r.db.Pool().Exec(ctx,
		`INSERT INTO sync_rows (table_name, id, user_id, data, updated_at)
         VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (table_name, id) DO UPDATE
         SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
         WHERE sync_rows.user_id = EXCLUDED.user_id`,
		rw.Table, rw.ID, rw.UserID, rw.Data, rw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return row.ErrForbidden
	}
	return nil
}

func (r *RowRepository) Delete(ctx context.Context, table, id, userID string) (bool, error) {
	tag, err := r.db.Pool().Exec(ctx,
		`DELETE FROM sync_rows WHERE table_name = $1 AND id = $2 AND user_id = $3`,
		table, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete row: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RowRepository) ListSince(ctx context.Context, table, userID string, since *time.Time) ([]row.Row, error) {
	query := `SELECT table_name, id, user_id, data, updated_at FROM sync_rows
              WHERE table_name = $1 AND user_id = $2`
	args := []any{table, userID}
	if since != nil {
		query += ` AND updated_at > $3`
		args = append(args, *since)
	}
	query += ` ORDER BY updated_at ASC`

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer rows.Close()

	var out []row.Row
	for rows.Next() {
		var rw row.Row
		if err := rows.Scan(&rw.Table, &rw.ID, &rw.UserID, &rw.Data, &rw.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
