package paymentmethod

import (
	"github.com/socialdesk/socialdesk/internal/types"
)

type PaymentMethod struct {
	ID                     string                   `db:"id" json:"id"`
	Gateway                types.PaymentGatewayType `db:"gateway" json:"gateway"`
	GatewayPaymentMethodID string                   `db:"gateway_payment_method_id" json:"gateway_payment_method_id"`
	MethodType             types.PaymentMethodType  `db:"method_type" json:"method_type"`
	Brand                  string                   `db:"brand" json:"brand"`
	Last4                  string                   `db:"last4" json:"last4"`
	ExpMonth               int                      `db:"exp_month" json:"exp_month"`
	ExpYear                int                      `db:"exp_year" json:"exp_year"`
	IsDefault              bool                     `db:"is_default" json:"is_default"`
	types.BaseModel
}
