package types

import (
	"time"

	"github.com/samber/lo"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// SubscriptionStatus follows the gateway's subscription states
type SubscriptionStatus string

const (
	SubscriptionStatusCreated       SubscriptionStatus = "created"
	SubscriptionStatusPending       SubscriptionStatus = "pending"
	SubscriptionStatusAuthenticated SubscriptionStatus = "authenticated"
	SubscriptionStatusActive        SubscriptionStatus = "active"
	SubscriptionStatusCancelled     SubscriptionStatus = "cancelled"
	SubscriptionStatusCompleted     SubscriptionStatus = "completed"
	SubscriptionStatusExpired       SubscriptionStatus = "expired"
)

// CurrentSubscriptionStatuses are the states in which a subscription blocks a new one
var CurrentSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusPending,
	SubscriptionStatusAuthenticated,
	SubscriptionStatusCreated,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsCurrent reports whether the subscription still counts as the tenant's subscription
func (s SubscriptionStatus) IsCurrent() bool {
	return lo.Contains(CurrentSubscriptionStatuses, s)
}

// IsTerminal reports whether no further transition is possible
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCancelled ||
		s == SubscriptionStatusCompleted ||
		s == SubscriptionStatusExpired
}

func (s SubscriptionStatus) Validate() error {
	allowed := []SubscriptionStatus{
		SubscriptionStatusCreated,
		SubscriptionStatusPending,
		SubscriptionStatusAuthenticated,
		SubscriptionStatusActive,
		SubscriptionStatusCancelled,
		SubscriptionStatusCompleted,
		SubscriptionStatusExpired,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// NextBillingDate advances from by one billing interval
func NextBillingDate(from time.Time, interval BillingInterval) time.Time {
	if interval == BillingIntervalYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

type SubscriptionFilter struct {
	*QueryFilter
	*TimeRangeFilter

	SubscriptionIDs       []string             `json:"subscription_ids,omitempty" form:"subscription_ids"`
	PlanCode              string               `json:"plan_code,omitempty" form:"plan_code"`
	SubscriptionStatuses  []SubscriptionStatus `json:"subscription_statuses,omitempty" form:"subscription_statuses"`
	GatewaySubscriptionID string               `json:"-" form:"-"`
	// AllTenants lifts the tenant scope, only honoured for admin listings and sweeps
	AllTenants bool `json:"-" form:"-"`
	// CancelAtPeriodEnd filters deferred cancellations
	CancelAtPeriodEnd *bool `json:"-" form:"-"`
	// PeriodEndBefore filters subscriptions whose current period ends before the given time
	PeriodEndBefore *time.Time `json:"-" form:"-"`
}

func NewSubscriptionFilter() *SubscriptionFilter {
	return &SubscriptionFilter{QueryFilter: NewDefaultQueryFilter()}
}

func NewNoLimitSubscriptionFilter() *SubscriptionFilter {
	return &SubscriptionFilter{QueryFilter: NewNoLimitQueryFilter()}
}

func (f *SubscriptionFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	for _, s := range f.SubscriptionStatuses {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return f.TimeRangeFilter.Validate()
}
