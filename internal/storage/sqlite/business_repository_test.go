package sqlite

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbase/internal/model"
)

func testBusiness() model.Business {
	return model.Business{
		Name:    "Acme Consulting",
		Email:   "billing@acme.test",
		Phone:   "+15551234567",
		Address: "1 Main St",
		TaxID:   "TAX-001",
	}
}

func TestBusinessRepository_CreateAppendsOutbox(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())
	repo := NewBusinessRepository(store, outbox, testLogger())
	ctx := context.Background()

	created, err := repo.Create(ctx, testBusiness())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.SyncedAt)

	pending, err := outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.OpCreate, pending[0].Operation)
	assert.Equal(t, model.KindBusiness, pending[0].Kind)
	assert.Equal(t, created.ID, pending[0].RecordID)

	var snap model.Business
	require.NoError(t, json.Unmarshal(pending[0].Data, &snap))
	assert.Equal(t, created.ID, snap.ID)
	assert.Equal(t, "Acme Consulting", snap.Name)
}

func TestBusinessRepository_CreateRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())
	repo := NewBusinessRepository(store, outbox, testLogger())
	ctx := context.Background()

	b := testBusiness()
	b.Email = "not-an-email"
	_, err := repo.Create(ctx, b)
	require.ErrorIs(t, err, model.ErrValidation)

	// nothing reached the store or the outbox
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	n, err := outbox.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBusinessRepository_GetByID(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())
	repo := NewBusinessRepository(store, outbox, testLogger())
	ctx := context.Background()

	created, err := repo.Create(ctx, testBusiness())
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Email, got.Email)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBusinessRepository_UpdateAppendsFullSnapshot(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())
	repo := NewBusinessRepository(store, outbox, testLogger())
	ctx := context.Background()

	created, err := repo.Create(ctx, testBusiness())
	require.NoError(t, err)

	name := "Acme Ltd"
	updated, err := repo.Update(ctx, created.ID, model.BusinessPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.Equal(t, created.Email, updated.Email)

	pending, err := outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, model.OpUpdate, pending[1].Operation)

	// update snapshot carries the whole row, not just the patched field
	var snap model.Business
	require.NoError(t, json.Unmarshal(pending[1].Data, &snap))
	assert.Equal(t, "Acme Ltd", snap.Name)
	assert.Equal(t, created.Email, snap.Email)

	_, err = repo.Update(ctx, "missing", model.BusinessPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBusinessRepository_DeleteAppendsTombstone(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())
	repo := NewBusinessRepository(store, outbox, testLogger())
	ctx := context.Background()

	created, err := repo.Create(ctx, testBusiness())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	pending, err := outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, model.OpDelete, pending[1].Operation)
	assert.JSONEq(t, `{"id":"`+created.ID+`"}`, string(pending[1].Data))

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrNotFound)
}

func TestBusinessRepository_UpsertRemoteSkipsOutbox(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())
	repo := NewBusinessRepository(store, outbox, testLogger())
	ctx := context.Background()

	b := testBusiness()
	b.ID = "remote-1"
	b.CreatedAt = time.Now().Add(-time.Hour)
	b.UpdatedAt = time.Now().Add(-time.Minute)
	syncedAt := time.Now()

	require.NoError(t, repo.UpsertRemote(ctx, &b, syncedAt))

	got, err := repo.GetByID(ctx, "remote-1")
	require.NoError(t, err)
	require.NotNil(t, got.SyncedAt)
	assert.WithinDuration(t, syncedAt, *got.SyncedAt, time.Second)

	n, err := outbox.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// replaying with a newer snapshot overwrites in place
	b.Name = "Acme Renamed"
	require.NoError(t, repo.UpsertRemote(ctx, &b, syncedAt))
	got, err = repo.GetByID(ctx, "remote-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Renamed", got.Name)
}

func TestStore_HighWaterMark(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutboxRepository(store, testLogger())
	repo := NewBusinessRepository(store, outbox, testLogger())
	ctx := context.Background()

	mark, err := store.HighWaterMark(ctx)
	require.NoError(t, err)
	assert.Nil(t, mark)

	older := time.Now().Add(-time.Hour)
	newer := time.Now()

	b1 := testBusiness()
	b1.ID = "b1"
	require.NoError(t, repo.UpsertRemote(ctx, &b1, older))
	b2 := testBusiness()
	b2.ID = "b2"
	require.NoError(t, repo.UpsertRemote(ctx, &b2, newer))

	mark, err = store.HighWaterMark(ctx)
	require.NoError(t, err)
	require.NotNil(t, mark)
	assert.WithinDuration(t, newer, *mark, time.Second)
}
