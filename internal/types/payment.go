package types

import (
	"github.com/samber/lo"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// PaymentGatewayType is the provider holding a customer's payment instruments
type PaymentGatewayType string

const (
	PaymentGatewayTypeRazorpay PaymentGatewayType = "razorpay"
	PaymentGatewayTypeStripe   PaymentGatewayType = "stripe"
)

func (g PaymentGatewayType) Validate() error {
	allowed := []PaymentGatewayType{PaymentGatewayTypeRazorpay, PaymentGatewayTypeStripe}
	if !lo.Contains(allowed, g) {
		return ierr.NewError("invalid payment gateway").
			WithHint("Invalid payment gateway").
			WithReportableDetails(map[string]any{
				"gateway": g,
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type PaymentMethodType string

const (
	PaymentMethodTypeCard        PaymentMethodType = "card"
	PaymentMethodTypeUPI         PaymentMethodType = "upi"
	PaymentMethodTypeBankAccount PaymentMethodType = "bank_account"
)

func (t PaymentMethodType) Validate() error {
	allowed := []PaymentMethodType{PaymentMethodTypeCard, PaymentMethodTypeUPI, PaymentMethodTypeBankAccount}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid payment method type").
			WithHint("Invalid payment method type").
			WithReportableDetails(map[string]any{
				"type":    t,
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type PaymentMethodFilter struct {
	*QueryFilter
	PaymentMethodIDs       []string `json:"payment_method_ids,omitempty" form:"payment_method_ids"`
	IsDefault              *bool    `json:"is_default,omitempty" form:"is_default"`
	GatewayPaymentMethodID string   `json:"-" form:"-"`
}

func NewPaymentMethodFilter() *PaymentMethodFilter {
	return &PaymentMethodFilter{QueryFilter: NewNoLimitQueryFilter()}
}

func (f *PaymentMethodFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}
