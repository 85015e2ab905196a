package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbase/internal/model"
)

type invoiceFixture struct {
	store    *Store
	outbox   *OutboxRepository
	invoices *InvoiceRepository
	items    *LineItemRepository
	business *model.Business
	client   *model.Client
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()

	store := newTestStore(t)
	log := testLogger()
	outbox := NewOutboxRepository(store, log)

	businesses := NewBusinessRepository(store, outbox, log)
	clients := NewClientRepository(store, outbox, log)
	ctx := context.Background()

	b, err := businesses.Create(ctx, testBusiness())
	require.NoError(t, err)

	c, err := clients.Create(ctx, model.Client{
		BusinessID: b.ID,
		Name:       "Globex",
		Email:      "ap@globex.test",
		Phone:      "+15559876543",
		Address:    "2 Side St",
	})
	require.NoError(t, err)

	items := NewLineItemRepository(store, log)

	return &invoiceFixture{
		store:    store,
		outbox:   outbox,
		invoices: NewInvoiceRepository(store, outbox, items, log),
		items:    items,
		business: b,
		client:   c,
	}
}

func (f *invoiceFixture) newInvoice(number string) model.Invoice {
	return model.Invoice{
		BusinessID:    f.business.ID,
		ClientID:      f.client.ID,
		InvoiceNumber: number,
		Status:        model.InvoiceStatusDraft,
		IssueDate:     time.Now(),
		DueDate:       time.Now().AddDate(0, 0, 30),
		Subtotal:      100,
		Tax:           7.5,
		Total:         107.5,
		Currency:      "USD",
	}
}

func TestInvoiceRepository_Create(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Create(ctx, f.newInvoice("INV-001"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	pending, err := f.outbox.ListPending(ctx)
	require.NoError(t, err)
	// business create, client create, invoice create
	require.Len(t, pending, 3)
	last := pending[2]
	assert.Equal(t, model.OpCreate, last.Operation)
	assert.Equal(t, model.KindInvoice, last.Kind)
	assert.Equal(t, created.ID, last.RecordID)
}

func TestInvoiceRepository_CreateRejectsBadTotals(t *testing.T) {
	f := newInvoiceFixture(t)

	inv := f.newInvoice("INV-001")
	inv.Total = 200
	_, err := f.invoices.Create(context.Background(), inv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not equal subtotal + tax")
}

func TestInvoiceRepository_DuplicateNumber(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	_, err := f.invoices.Create(ctx, f.newInvoice("INV-001"))
	require.NoError(t, err)

	_, err = f.invoices.Create(ctx, f.newInvoice("INV-001"))
	assert.Error(t, err)
}

func TestInvoiceRepository_ListFilters(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	_, err := f.invoices.Create(ctx, f.newInvoice("INV-001"))
	require.NoError(t, err)

	sent := f.newInvoice("INV-002")
	sent.Status = model.InvoiceStatusSent
	_, err = f.invoices.Create(ctx, sent)
	require.NoError(t, err)

	all, err := f.invoices.List(ctx, model.InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byStatus, err := f.invoices.List(ctx, model.InvoiceFilter{Status: model.InvoiceStatusSent})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "INV-002", byStatus[0].InvoiceNumber)

	byBusiness, err := f.invoices.List(ctx, model.InvoiceFilter{BusinessID: f.business.ID})
	require.NoError(t, err)
	assert.Len(t, byBusiness, 2)

	none, err := f.invoices.List(ctx, model.InvoiceFilter{ClientID: "missing"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInvoiceRepository_UpdateRechecksTotals(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Create(ctx, f.newInvoice("INV-001"))
	require.NoError(t, err)

	subtotal := 50.0
	_, err = f.invoices.Update(ctx, created.ID, model.InvoicePatch{Subtotal: &subtotal})
	require.Error(t, err)

	tax := 3.75
	total := 53.75
	updated, err := f.invoices.Update(ctx, created.ID, model.InvoicePatch{
		Subtotal: &subtotal, Tax: &tax, Total: &total,
	})
	require.NoError(t, err)
	assert.Equal(t, 53.75, updated.Total)
}

func TestInvoiceRepository_DeleteCascadesLineItems(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Create(ctx, f.newInvoice("INV-001"))
	require.NoError(t, err)

	_, err = f.items.Create(ctx, model.LineItem{
		InvoiceID:   created.ID,
		Description: "Consulting",
		Quantity:    2,
		UnitPrice:   50,
	})
	require.NoError(t, err)

	require.NoError(t, f.invoices.Delete(ctx, created.ID))

	_, err = f.invoices.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := f.items.ListForInvoice(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	pending, err := f.outbox.ListPending(ctx)
	require.NoError(t, err)
	last := pending[len(pending)-1]
	assert.Equal(t, model.OpDelete, last.Operation)
	assert.Equal(t, model.KindInvoice, last.Kind)
	// line items are local-only: the cascade leaves no tombstones for them
	for _, rec := range pending {
		assert.NotEqual(t, "line_item", rec.Kind.Table())
	}
}

func TestInvoiceRepository_UpsertRemoteKeepsLineItems(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Create(ctx, f.newInvoice("INV-001"))
	require.NoError(t, err)

	for _, desc := range []string{"Design", "Development", "Review"} {
		_, err = f.items.Create(ctx, model.LineItem{
			InvoiceID:   created.ID,
			Description: desc,
			Quantity:    1,
			UnitPrice:   100,
		})
		require.NoError(t, err)
	}

	// another device marked the invoice sent; applying its row must update
	// in place, not delete and re-insert, or the FK cascade eats the items
	remote := *created
	remote.Status = model.InvoiceStatusSent
	remote.UpdatedAt = created.UpdatedAt.Add(time.Minute)
	require.NoError(t, f.invoices.UpsertRemote(ctx, &remote, time.Now().UTC()))

	got, err := f.invoices.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusSent, got.Status)

	items, err := f.items.ListForInvoice(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestLineItemRepository_ComputesTotal(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := f.invoices.Create(ctx, f.newInvoice("INV-001"))
	require.NoError(t, err)

	li, err := f.items.Create(ctx, model.LineItem{
		InvoiceID:   created.ID,
		Description: "Consulting",
		Quantity:    3,
		UnitPrice:   0.1,
		TaxRate:     0.075,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.32, li.Total)

	qty := 10.0
	updated, err := f.items.Update(ctx, li.ID, model.LineItemPatch{Quantity: &qty})
	require.NoError(t, err)
	assert.InDelta(t, 1.08, updated.Total, 1e-9)
}
