package row

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"billbase/internal/model"
)

type Servicer interface {
	Upsert(ctx context.Context, table, id, userID string, data json.RawMessage) error
	Delete(ctx context.Context, table, id, userID string) error
	ListSince(ctx context.Context, table, userID string, since *time.Time) ([]Row, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "row_service"),
	}
}

// snapshotMeta is the part of a client snapshot the server actually reads.
type snapshotMeta struct {
	ID        string     `json:"id"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// Upsert stores a snapshot, creating or replacing the row. id may be empty
// for create-shaped calls, in which case it is taken from the snapshot body.
// The row's updated_at comes from the snapshot so that conflict resolution
// on clients compares client-side clocks, not the server's arrival time.
func (s *Service) Upsert(ctx context.Context, table, id, userID string, data json.RawMessage) error {
	if _, err := model.KindForTable(table); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	var meta snapshotMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if id == "" {
		id = meta.ID
	}
	if id == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidData)
	}
	if id != meta.ID {
		return fmt.Errorf("%w: id mismatch", ErrInvalidData)
	}

	updatedAt := time.Now().UTC()
	if meta.UpdatedAt != nil {
		updatedAt = meta.UpdatedAt.UTC()
	}

	return s.repo.Upsert(ctx, Row{
		Table:     table,
		ID:        id,
		UserID:    userID,
		Data:      data,
		UpdatedAt: updatedAt,
	})
}

// Delete removes a row. A missing row is not an error: tombstones get
// replayed when a push is retried, and the replay must succeed.
func (s *Service) Delete(ctx context.Context, table, id, userID string) error {
	if _, err := model.KindForTable(table); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	deleted, err := s.repo.Delete(ctx, table, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		s.log.Debug("delete of absent row", "table", table, "id", id)
	}
	return nil
}

func (s *Service) ListSince(ctx context.Context, table, userID string, since *time.Time) ([]Row, error) {
	if _, err := model.KindForTable(table); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return s.repo.ListSince(ctx, table, userID, since)
}
