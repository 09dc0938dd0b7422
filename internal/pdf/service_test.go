package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/domain/pdf"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInvoicePdf(t *testing.T) {
	generator := NewGenerator(config.GetDefaultConfig())
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	data := &pdf.InvoiceData{
		ID:            "inv_123",
		InvoiceNumber: "INV-ABC123",
		Currency:      "INR",
		IssuingDate:   start,
		DueDate:       start.AddDate(0, 0, 7),
		PeriodStart:   &start,
		PeriodEnd:     &end,
		Subtotal:      decimal.NewFromInt(100),
		TaxRate:       decimal.NewFromFloat(0.18),
		TaxAmount:     decimal.NewFromInt(18),
		Total:         decimal.NewFromInt(118),
		Recipient: &pdf.RecipientInfo{
			Name:    "Acme",
			Email:   "billing@acme.test",
			Address: []string{"1 Market Street", "Pune"},
			Country: "IN",
		},
		LineItems: []pdf.LineItemData{
			{
				Description: "Pro plan (monthly)",
				Quantity:    decimal.NewFromInt(1),
				UnitAmount:  decimal.NewFromInt(100),
				Amount:      decimal.NewFromInt(100),
			},
		},
	}

	out, err := generator.RenderInvoicePdf(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderInvoicePdf_Error(t *testing.T) {
	generator := NewGenerator(config.GetDefaultConfig())

	_, err := generator.RenderInvoicePdf(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
