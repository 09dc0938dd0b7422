package types

import (
	"github.com/samber/lo"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusVoid   InvoiceStatus = "void"
)

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusVoid}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Invalid invoice status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type InvoiceFilter struct {
	*QueryFilter
	*TimeRangeFilter
	InvoiceIDs      []string        `json:"invoice_ids,omitempty" form:"invoice_ids"`
	SubscriptionID  string          `json:"subscription_id,omitempty" form:"subscription_id"`
	InvoiceStatuses []InvoiceStatus `json:"invoice_statuses,omitempty" form:"invoice_statuses"`
	AllTenants      bool            `json:"-" form:"-"`
	// GatewayPaymentID finds the invoice settled by a gateway payment
	GatewayPaymentID string `json:"-" form:"-"`
}

func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *InvoiceFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	for _, s := range f.InvoiceStatuses {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return f.TimeRangeFilter.Validate()
}
