package subscription

import (
	"time"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Subscription struct {
	ID                    string                   `db:"id" json:"id"`
	PlanCode              string                   `db:"plan_code" json:"plan_code"`
	SubscriptionStatus    types.SubscriptionStatus `db:"subscription_status" json:"subscription_status"`
	Quantity              int                      `db:"quantity" json:"quantity"`
	Currency              string                   `db:"currency" json:"currency"`
	CurrentPeriodStart    time.Time                `db:"current_period_start" json:"current_period_start"`
	CurrentPeriodEnd      time.Time                `db:"current_period_end" json:"current_period_end"`
	TrialStart            *time.Time               `db:"trial_start" json:"trial_start,omitempty"`
	TrialEnd              *time.Time               `db:"trial_end" json:"trial_end,omitempty"`
	CancelAtPeriodEnd     bool                     `db:"cancel_at_period_end" json:"cancel_at_period_end"`
	CancelledAt           *time.Time               `db:"cancelled_at" json:"cancelled_at,omitempty"`
	EndedAt               *time.Time               `db:"ended_at" json:"ended_at,omitempty"`
	Gateway               string                   `db:"gateway" json:"gateway"`
	GatewaySubscriptionID string                   `db:"gateway_subscription_id" json:"gateway_subscription_id,omitempty"`
	GatewayCustomerID     string                   `db:"gateway_customer_id" json:"-"`
	types.BaseModel
}

func (s *Subscription) IsCurrent() bool {
	return s.SubscriptionStatus.IsCurrent()
}

// IsTrialing reports whether now falls inside the trial window
func (s *Subscription) IsTrialing(now time.Time) bool {
	return s.TrialEnd != nil && now.Before(*s.TrialEnd)
}

// CanReactivate reports whether a deferred cancellation can still be undone at now
func (s *Subscription) CanReactivate(now time.Time) bool {
	return s.SubscriptionStatus == types.SubscriptionStatusActive &&
		s.CancelAtPeriodEnd &&
		now.Before(s.CurrentPeriodEnd)
}
