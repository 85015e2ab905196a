package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbase/internal/model"
)

func TestPaymentRepository_CreateDefaultsPaidAt(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, err := f.invoices.Create(ctx, f.newInvoice("INV-001"))
	require.NoError(t, err)

	payments := NewPaymentRepository(f.store, f.outbox, testLogger())

	p, err := payments.Create(ctx, model.Payment{
		InvoiceID: inv.ID,
		Amount:    107.5,
		Method:    model.PaymentMethodCard,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), p.PaidAt, 5*time.Second)

	pending, err := f.outbox.ListPending(ctx)
	require.NoError(t, err)
	last := pending[len(pending)-1]
	assert.Equal(t, model.KindPayment, last.Kind)
	assert.Equal(t, model.OpCreate, last.Operation)
	assert.Equal(t, p.ID, last.RecordID)
}

func TestPaymentRepository_ListOrdersByPaidAt(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, err := f.invoices.Create(ctx, f.newInvoice("INV-001"))
	require.NoError(t, err)

	payments := NewPaymentRepository(f.store, f.outbox, testLogger())

	earlier := time.Now().Add(-time.Hour)
	first, err := payments.Create(ctx, model.Payment{
		InvoiceID: inv.ID, Amount: 50, Method: model.PaymentMethodCash, PaidAt: earlier,
	})
	require.NoError(t, err)

	second, err := payments.Create(ctx, model.Payment{
		InvoiceID: inv.ID, Amount: 57.5, Method: model.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)

	list, err := payments.List(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	all, err := payments.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPaymentRepository_UpdateAndDelete(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, err := f.invoices.Create(ctx, f.newInvoice("INV-001"))
	require.NoError(t, err)

	payments := NewPaymentRepository(f.store, f.outbox, testLogger())
	p, err := payments.Create(ctx, model.Payment{
		InvoiceID: inv.ID, Amount: 100, Method: model.PaymentMethodCheck,
	})
	require.NoError(t, err)

	amount := 107.5
	updated, err := payments.Update(ctx, p.ID, model.PaymentPatch{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 107.5, updated.Amount)
	assert.Equal(t, model.PaymentMethodCheck, updated.Method)

	require.NoError(t, payments.Delete(ctx, p.ID))
	_, err = payments.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	pending, err := f.outbox.ListPending(ctx)
	require.NoError(t, err)
	last := pending[len(pending)-1]
	assert.Equal(t, model.OpDelete, last.Operation)
	assert.JSONEq(t, `{"id":"`+p.ID+`"}`, string(last.Data))
}
