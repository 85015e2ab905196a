package row

import (
	"context"
	"time"
)

type Repository interface {
	Upsert(ctx context.Context, r Row) error
	Delete(ctx context.Context, table, id, userID string) (bool, error)
	ListSince(ctx context.Context, table, userID string, since *time.Time) ([]Row, error)
}
