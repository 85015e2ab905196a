package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"billbase/internal/identity"
	"billbase/internal/model"
	"billbase/internal/storage/sqlite"
)

// fakeRemote is a scriptable in-memory RemoteStore. Inserts and updates land
// in rows so a later SelectSince (or a second engine) can pull them back.
type fakeRemote struct {
	calls []string

	rows map[string][]RemoteRow // table -> rows

	failInsert map[string]error // record id -> error
	failSelect map[string]error // table -> error

	lastUserID string
	lastSince  map[string]*time.Time // table -> since argument
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		rows:       make(map[string][]RemoteRow),
		failInsert: make(map[string]error),
		failSelect: make(map[string]error),
		lastSince:  make(map[string]*time.Time),
	}
}

func snapshotID(row json.RawMessage) string {
	var meta struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(row, &meta)
	return meta.ID
}

func (f *fakeRemote) store(table string, id string, row json.RawMessage) {
	kept := f.rows[table][:0]
	for _, r := range f.rows[table] {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.rows[table] = append(kept, RemoteRow{ID: id, Data: row, UpdatedAt: time.Now()})
}

func (f *fakeRemote) Insert(_ context.Context, table string, row json.RawMessage) error {
	id := snapshotID(row)
	f.calls = append(f.calls, "insert "+table+" "+id)
	if err := f.failInsert[id]; err != nil {
		return err
	}
	f.store(table, id, row)
	return nil
}

func (f *fakeRemote) Update(_ context.Context, table, id string, row json.RawMessage) error {
	f.calls = append(f.calls, "update "+table+" "+id)
	f.store(table, id, row)
	return nil
}

func (f *fakeRemote) Delete(_ context.Context, table, id string) error {
	f.calls = append(f.calls, "delete "+table+" "+id)
	kept := f.rows[table][:0]
	for _, r := range f.rows[table] {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.rows[table] = kept
	return nil
}

func (f *fakeRemote) SelectSince(_ context.Context, table, userID string, since *time.Time) ([]RemoteRow, error) {
	f.calls = append(f.calls, "select "+table)
	f.lastUserID = userID
	f.lastSince[table] = since
	if err := f.failSelect[table]; err != nil {
		return nil, err
	}
	return f.rows[table], nil
}

type fakeIdentity struct {
	user *identity.User
	err  error
}

func (f *fakeIdentity) CurrentUser(context.Context) (*identity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fixture struct {
	store      *sqlite.Store
	outbox     *sqlite.OutboxRepository
	businesses *sqlite.BusinessRepository
	clients    *sqlite.ClientRepository
	invoices   *sqlite.InvoiceRepository
	items      *sqlite.LineItemRepository
	payments   *sqlite.PaymentRepository
	remote     *fakeRemote
	who        *fakeIdentity
	engine     *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	outbox := sqlite.NewOutboxRepository(store, log)
	items := sqlite.NewLineItemRepository(store, log)

	f := &fixture{
		store:      store,
		outbox:     outbox,
		businesses: sqlite.NewBusinessRepository(store, outbox, log),
		clients:    sqlite.NewClientRepository(store, outbox, log),
		invoices:   sqlite.NewInvoiceRepository(store, outbox, items, log),
		items:      items,
		payments:   sqlite.NewPaymentRepository(store, outbox, log),
		remote:     newFakeRemote(),
		who:        &fakeIdentity{user: &identity.User{ID: "u1", Email: "u1@example.com"}},
	}
	f.engine = New(Deps{
		Store:      store,
		Outbox:     outbox,
		Businesses: f.businesses,
		Clients:    f.clients,
		Invoices:   f.invoices,
		Payments:   f.payments,
		Remote:     f.remote,
		Identity:   f.who,
		Log:        log,
	})
	return f
}

func (f *fixture) createBusiness(t *testing.T, name string) *model.Business {
	t.Helper()

	b, err := f.businesses.Create(context.Background(), model.Business{
		Name:    name,
		Email:   "billing@acme.test",
		Phone:   "+15551234567",
		Address: "1 Main St",
		TaxID:   "TAX-001",
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) createGraph(t *testing.T) (*model.Business, *model.Client, *model.Invoice) {
	t.Helper()
	ctx := context.Background()

	b := f.createBusiness(t, "Acme")

	c, err := f.clients.Create(ctx, model.Client{
		BusinessID: b.ID,
		Name:       "Globex",
		Email:      "ap@globex.test",
		Phone:      "+15559876543",
		Address:    "2 Side St",
	})
	require.NoError(t, err)

	inv, err := f.invoices.Create(ctx, model.Invoice{
		BusinessID:    b.ID,
		ClientID:      c.ID,
		InvoiceNumber: "INV-001",
		Status:        model.InvoiceStatusDraft,
		IssueDate:     time.Now(),
		DueDate:       time.Now().AddDate(0, 0, 30),
		Subtotal:      100,
		Tax:           7.5,
		Total:         107.5,
		Currency:      "USD",
	})
	require.NoError(t, err)
	return b, c, inv
}

func TestEngine_PushDrainsOutboxInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, c, inv := f.createGraph(t)

	res, err := f.engine.Push(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Synced)
	assert.Equal(t, 0, res.Errors)

	require.Equal(t, []string{
		"insert business " + b.ID,
		"insert client " + c.ID,
		"insert invoice " + inv.ID,
	}, f.remote.calls)

	n, err := f.outbox.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEngine_PushIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createGraph(t)

	res, err := f.engine.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Synced)
	callsAfterFirst := len(f.remote.calls)

	res, err = f.engine.Push(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.Synced)
	assert.Len(t, f.remote.calls, callsAfterFirst)
}

func TestEngine_PushPartialFailureIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createBusiness(t, "First")
	b2 := f.createBusiness(t, "Second")
	f.createBusiness(t, "Third")

	f.remote.failInsert[b2.ID] = fmt.Errorf("connection reset")

	res, err := f.engine.Push(ctx)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 2, res.Synced)
	assert.Equal(t, 1, res.Errors)

	// the failed record stays pending; the later one was not blocked by it
	pending, err := f.outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b2.ID, pending[0].RecordID)

	// retry after the remote recovers drains only the leftover
	delete(f.remote.failInsert, b2.ID)
	res, err = f.engine.Push(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Synced)

	assert.Len(t, f.remote.rows["business"], 3)
}

func TestEngine_PushDeleteSendsTombstone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.createBusiness(t, "Acme")
	require.NoError(t, f.businesses.Delete(ctx, b.ID))

	res, err := f.engine.Push(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Synced)

	require.Equal(t, []string{
		"insert business " + b.ID,
		"delete business " + b.ID,
	}, f.remote.calls)
	assert.Empty(t, f.remote.rows["business"])
}

func TestEngine_PullRequiresAuth(t *testing.T) {
	f := newFixture(t)
	f.who.err = identity.ErrUnauthenticated

	res, err := f.engine.Pull(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Errors)
	assert.Empty(t, f.remote.calls)
}

func TestEngine_PullAppliesRemoteRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := model.Business{
		ID: "rb1", Name: "Remote Biz", Email: "r@biz.test", Phone: "+15550000001",
		Address: "9 Far St", TaxID: "TAX-9",
		CreatedAt: time.Now().Add(-time.Hour), UpdatedAt: time.Now(),
	}
	data, err := json.Marshal(b)
	require.NoError(t, err)
	f.remote.rows["business"] = []RemoteRow{{ID: b.ID, Data: data, UpdatedAt: b.UpdatedAt}}

	res, err := f.engine.Pull(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Synced)

	// tables are pulled parents first with the session's user id
	assert.Equal(t, []string{
		"select business", "select client", "select invoice", "select payment",
	}, f.remote.calls)
	assert.Equal(t, "u1", f.remote.lastUserID)
	assert.Nil(t, f.remote.lastSince["business"])

	got, err := f.businesses.GetByID(ctx, "rb1")
	require.NoError(t, err)
	assert.Equal(t, "Remote Biz", got.Name)
	require.NotNil(t, got.SyncedAt)

	// nothing a pull applies may re-enter the outbox
	n, err := f.outbox.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEngine_PullUsesHighWaterMark(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	syncedAt := time.Now().Add(-10 * time.Minute)
	b := model.Business{
		ID: "rb1", Name: "Seeded", Email: "r@biz.test", Phone: "+15550000001",
		Address: "9 Far St", TaxID: "TAX-9",
		CreatedAt: syncedAt, UpdatedAt: syncedAt,
	}
	require.NoError(t, f.businesses.UpsertRemote(ctx, &b, syncedAt))

	_, err := f.engine.Pull(ctx)
	require.NoError(t, err)

	since := f.remote.lastSince["business"]
	require.NotNil(t, since)
	assert.WithinDuration(t, syncedAt, *since, time.Second)
}

func TestEngine_PullTableFailureIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := model.Business{
		ID: "rb1", Name: "Remote Biz", Email: "r@biz.test", Phone: "+15550000001",
		Address: "9 Far St", TaxID: "TAX-9",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	data, err := json.Marshal(b)
	require.NoError(t, err)
	f.remote.rows["business"] = []RemoteRow{{ID: b.ID, Data: data, UpdatedAt: b.UpdatedAt}}
	f.remote.failSelect["client"] = fmt.Errorf("server returned 500")

	res, err := f.engine.Pull(ctx)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 1, res.Synced)

	// the failing table did not stop the remaining ones
	assert.Contains(t, f.remote.calls, "select invoice")
	assert.Contains(t, f.remote.calls, "select payment")

	_, err = f.businesses.GetByID(ctx, "rb1")
	assert.NoError(t, err)
}

func TestEngine_PullRemoteWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	local := f.createBusiness(t, "Local Name")

	remote := *local
	remote.Name = "Remote Name"
	remote.UpdatedAt = time.Now().Add(time.Minute)
	data, err := json.Marshal(remote)
	require.NoError(t, err)
	f.remote.rows["business"] = []RemoteRow{{ID: local.ID, Data: data, UpdatedAt: remote.UpdatedAt}}

	res, err := f.engine.Pull(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)

	got, err := f.businesses.GetByID(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, "Remote Name", got.Name)
	assert.NotNil(t, got.SyncedAt)
}

func TestEngine_PullKeepsLocalLineItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, inv := f.createGraph(t)

	for _, desc := range []string{"Design", "Development", "Review"} {
		_, err := f.items.Create(ctx, model.LineItem{
			InvoiceID:   inv.ID,
			Description: desc,
			Quantity:    1,
			UnitPrice:   100,
		})
		require.NoError(t, err)
	}

	remote := *inv
	remote.Status = model.InvoiceStatusSent
	remote.UpdatedAt = time.Now().Add(time.Minute)
	data, err := json.Marshal(remote)
	require.NoError(t, err)
	f.remote.rows["invoice"] = []RemoteRow{{ID: inv.ID, Data: data, UpdatedAt: remote.UpdatedAt}}

	res, err := f.engine.Pull(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)

	got, err := f.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusSent, got.Status)

	// line items never leave the device; the pulled invoice row must not
	// disturb them
	items, err := f.items.ListForInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestEngine_SingleFlight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.engine.mu.Lock()
	defer f.engine.mu.Unlock()

	_, err := f.engine.Push(ctx)
	assert.ErrorIs(t, err, ErrSyncBusy)

	_, err = f.engine.Pull(ctx)
	assert.ErrorIs(t, err, ErrSyncBusy)
}

func TestEngine_PushAfterStatusChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, inv := f.createGraph(t)

	res, err := f.engine.Push(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, res.Synced)

	paid := model.InvoiceStatusPaid
	_, err = f.invoices.Update(ctx, inv.ID, model.InvoicePatch{Status: &paid})
	require.NoError(t, err)

	res, err = f.engine.Push(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Synced)

	require.Len(t, f.remote.rows["invoice"], 1)
	var snap model.Invoice
	require.NoError(t, json.Unmarshal(f.remote.rows["invoice"][0].Data, &snap))
	assert.Equal(t, model.InvoiceStatusPaid, snap.Status)
}

// Two engines against the same fake remote: everything device A creates shows
// up on device B after one push and one pull.
func TestEngine_RoundTripBetweenDevices(t *testing.T) {
	ctx := context.Background()

	deviceA := newFixture(t)
	deviceB := newFixture(t)
	deviceB.remote = deviceA.remote
	deviceB.engine = New(Deps{
		Store:      deviceB.store,
		Outbox:     deviceB.outbox,
		Businesses: deviceB.businesses,
		Clients:    deviceB.clients,
		Invoices:   deviceB.invoices,
		Payments:   deviceB.payments,
		Remote:     deviceA.remote,
		Identity:   deviceB.who,
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	b, c, inv := deviceA.createGraph(t)

	res, err := deviceA.engine.Push(ctx)
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = deviceB.engine.Pull(ctx)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 3, res.Synced)

	gotB, err := deviceB.businesses.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Name, gotB.Name)

	gotC, err := deviceB.clients.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Email, gotC.Email)

	gotI, err := deviceB.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, gotI.InvoiceNumber)
	assert.Equal(t, inv.Total, gotI.Total)
}
