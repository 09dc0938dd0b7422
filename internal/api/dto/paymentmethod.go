package dto

import (
	"github.com/socialdesk/socialdesk/internal/domain/paymentmethod"
	"github.com/socialdesk/socialdesk/internal/validator"
)

// AddPaymentMethodRequest attaches a method tokenised on the client by the gateway
type AddPaymentMethodRequest struct {
	GatewayPaymentMethodID string `json:"gateway_payment_method_id" binding:"required" validate:"required"`
	IsDefault              bool   `json:"is_default"`
}

func (r *AddPaymentMethodRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type PaymentMethodResponse struct {
	*paymentmethod.PaymentMethod
}
