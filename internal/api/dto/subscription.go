package dto

import (
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/subscription"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/validator"
)

type CreateSubscriptionRequest struct {
	PlanCode string `json:"plan_code" binding:"required" validate:"required"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1,max=1000"`
}

func (r *CreateSubscriptionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Quantity == 0 {
		r.Quantity = 1
	}
	return nil
}

type CancelSubscriptionRequest struct {
	// AtPeriodEnd keeps the subscription active until the current period ends
	AtPeriodEnd bool `json:"at_period_end"`
}

type ChangePlanRequest struct {
	PlanCode string `json:"plan_code" binding:"required" validate:"required"`
}

func (r *ChangePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type SubscriptionResponse struct {
	*subscription.Subscription
	Plan *PlanResponse `json:"plan,omitempty"`
	// CheckoutURL is where the customer authorises the mandate, set on creation only
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type ListSubscriptionsResponse = types.ListResponse[*SubscriptionResponse]

type ExpireSubscriptionsRequest struct {
	// Now defaults to the current time
	Now *time.Time `json:"now,omitempty"`
}

type ExpireSubscriptionsResponse struct {
	Expired []string `json:"expired"`
}
