package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"billbase/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func appendOutbox(t *testing.T, store *Store, outbox *OutboxRepository, op model.Operation, kind model.Kind, recordID string) {
	t.Helper()

	err := store.WithTx(context.Background(), func(tx *sql.Tx) error {
		return outbox.AppendTx(tx, op, kind, recordID, json.RawMessage(`{"id":"`+recordID+`"}`))
	})
	require.NoError(t, err)
}

func TestOutboxRepository_FIFOOrder(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())
	ctx := context.Background()

	appendOutbox(t, store, outbox, model.OpCreate, model.KindBusiness, "b1")
	appendOutbox(t, store, outbox, model.OpUpdate, model.KindBusiness, "b1")
	appendOutbox(t, store, outbox, model.OpCreate, model.KindClient, "c1")

	pending, err := outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)

	assert.Equal(t, model.OpCreate, pending[0].Operation)
	assert.Equal(t, "b1", pending[0].RecordID)
	assert.Equal(t, model.OpUpdate, pending[1].Operation)
	assert.Equal(t, "b1", pending[1].RecordID)
	assert.Equal(t, model.KindClient, pending[2].Kind)

	for _, rec := range pending {
		assert.Nil(t, rec.SyncedAt)
		assert.NotEmpty(t, rec.ID)
		assert.False(t, rec.CreatedAt.IsZero())
	}
}

func TestOutboxRepository_MarkSynced(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())
	ctx := context.Background()

	appendOutbox(t, store, outbox, model.OpCreate, model.KindBusiness, "b1")
	appendOutbox(t, store, outbox, model.OpCreate, model.KindClient, "c1")

	pending, err := outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, outbox.MarkSynced(ctx, pending[0].ID))

	remaining, err := outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "c1", remaining[0].RecordID)

	// marking again is a no-op
	require.NoError(t, outbox.MarkSynced(ctx, pending[0].ID))
	remaining, err = outbox.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestOutboxRepository_CountPending(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())
	ctx := context.Background()

	n, err := outbox.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	appendOutbox(t, store, outbox, model.OpCreate, model.KindBusiness, "b1")
	appendOutbox(t, store, outbox, model.OpDelete, model.KindInvoice, "i1")

	n, err = outbox.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pending, err := outbox.ListPending(ctx)
	require.NoError(t, err)
	require.NoError(t, outbox.MarkSynced(ctx, pending[0].ID))

	n, err = outbox.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOutboxRepository_AppendRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())

	err := store.WithTx(context.Background(), func(tx *sql.Tx) error {
		return outbox.AppendTx(tx, model.Operation("truncate"), model.KindBusiness, "b1", json.RawMessage(`{}`))
	})
	assert.Error(t, err)

	err = store.WithTx(context.Background(), func(tx *sql.Tx) error {
		return outbox.AppendTx(tx, model.OpCreate, model.Kind("line_item"), "li1", json.RawMessage(`{}`))
	})
	assert.Error(t, err)
}

func TestOutboxRepository_RollbackDiscardsAppend(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())
	ctx := context.Background()

	boom := assert.AnError
	err := store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := outbox.AppendTx(tx, model.OpCreate, model.KindBusiness, "b1", json.RawMessage(`{}`)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := outbox.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
