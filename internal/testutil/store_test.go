package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/domain/invoice"
	"github.com/socialdesk/socialdesk/internal/domain/paymentmethod"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethodStoreReturnsCopies(t *testing.T) {
	store := NewInMemoryPaymentMethodStore()
	ctx := SetupContext()

	pm := &paymentmethod.PaymentMethod{
		ID:        "pm_local",
		IsDefault: true,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	require.NoError(t, store.Create(ctx, pm))
	pm.IsDefault = false

	got, err := store.Get(ctx, "pm_local")
	require.NoError(t, err)
	assert.True(t, got.IsDefault)

	got.IsDefault = false
	listed, err := store.List(ctx, types.NewPaymentMethodFilter())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsDefault, "unsaved changes stay with the caller")

	require.NoError(t, store.Delete(ctx, "pm_local"))
	assert.True(t, listed[0].IsDefault)
	assert.Equal(t, types.StatusPublished, listed[0].Status)

	_, err = store.Get(ctx, "pm_local")
	assert.True(t, ierr.IsNotFound(err))
}

func TestInvoiceStoreReturnsCopies(t *testing.T) {
	store := NewInMemoryInvoiceStore()
	ctx := SetupContext()

	inv := &invoice.Invoice{
		ID:            "inv_local",
		InvoiceStatus: types.InvoiceStatusIssued,
		LineItems: []*invoice.LineItem{
			{ID: "li_1", Amount: decimal.NewFromInt(10)},
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	require.NoError(t, store.Create(ctx, inv))

	got, err := store.Get(ctx, "inv_local")
	require.NoError(t, err)
	got.InvoiceStatus = types.InvoiceStatusPaid
	got.LineItems[0].Amount = decimal.Zero

	again, err := store.Get(ctx, "inv_local")
	require.NoError(t, err)
	assert.Equal(t, types.InvoiceStatusIssued, again.InvoiceStatus)
	assert.True(t, again.LineItems[0].Amount.Equal(decimal.NewFromInt(10)))

	require.NoError(t, store.Update(ctx, got))
	again, err = store.Get(ctx, "inv_local")
	require.NoError(t, err)
	assert.Equal(t, types.InvoiceStatusPaid, again.InvoiceStatus)
}
