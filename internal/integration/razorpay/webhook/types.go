package webhook

import (
	"encoding/json"
	"fmt"
	"time"
)

// RazorpayEventType represents the type of Razorpay webhook event
type RazorpayEventType string

const (
	EventSubscriptionAuthenticated RazorpayEventType = "subscription.authenticated"
	EventSubscriptionActivated     RazorpayEventType = "subscription.activated"
	EventSubscriptionCharged       RazorpayEventType = "subscription.charged"
	EventSubscriptionPending       RazorpayEventType = "subscription.pending"
	EventSubscriptionHalted        RazorpayEventType = "subscription.halted"
	EventSubscriptionCancelled     RazorpayEventType = "subscription.cancelled"
	EventSubscriptionCompleted     RazorpayEventType = "subscription.completed"
	EventSubscriptionExpired       RazorpayEventType = "subscription.expired"

	EventPaymentFailed RazorpayEventType = "payment.failed"
)

// SignatureHeader carries the hex HMAC of the raw body
const SignatureHeader = "X-Razorpay-Signature"

// RazorpayWebhookEvent represents a Razorpay webhook event
type RazorpayWebhookEvent struct {
	Entity    string                 `json:"entity"`
	AccountID string                 `json:"account_id"`
	Event     RazorpayEventType      `json:"event"`
	Contains  []string               `json:"contains"`
	Payload   RazorpayWebhookPayload `json:"payload"`
	CreatedAt int64                  `json:"created_at"`
}

// RazorpayWebhookPayload holds the entities named in Contains
type RazorpayWebhookPayload struct {
	Subscription *PayloadSubscription `json:"subscription,omitempty"`
	Payment      *PayloadPayment      `json:"payment,omitempty"`
}

type PayloadSubscription struct {
	Entity Subscription `json:"entity"`
}

type PayloadPayment struct {
	Entity Payment `json:"entity"`
}

// Subscription is the subscription entity sent with subscription.* events
type Subscription struct {
	ID           string        `json:"id"`
	Entity       string        `json:"entity"`
	PlanID       string        `json:"plan_id"`
	CustomerID   string        `json:"customer_id"`
	Status       string        `json:"status"`
	CurrentStart int64         `json:"current_start"`
	CurrentEnd   int64         `json:"current_end"`
	EndedAt      int64         `json:"ended_at"`
	Quantity     int           `json:"quantity"`
	ChargeAt     int64         `json:"charge_at"`
	PaidCount    int           `json:"paid_count"`
	Notes        FlexibleNotes `json:"notes"`
}

// CurrentPeriod returns the billing window reported by razorpay, zero values when absent
func (s Subscription) CurrentPeriod() (time.Time, time.Time) {
	var start, end time.Time
	if s.CurrentStart > 0 {
		start = time.Unix(s.CurrentStart, 0).UTC()
	}
	if s.CurrentEnd > 0 {
		end = time.Unix(s.CurrentEnd, 0).UTC()
	}
	return start, end
}

// Payment represents a Razorpay payment
type Payment struct {
	ID               string        `json:"id"`
	Entity           string        `json:"entity"`
	Amount           int64         `json:"amount"` // smallest currency unit
	Currency         string        `json:"currency"`
	Status           string        `json:"status"`
	InvoiceID        string        `json:"invoice_id"`
	Method           string        `json:"method"`
	Email            string        `json:"email"`
	ErrorCode        string        `json:"error_code"`
	ErrorDescription string        `json:"error_description"`
	Notes            FlexibleNotes `json:"notes"`
	CreatedAt        int64         `json:"created_at"`
}

// FlexibleNotes handles both array and object formats from Razorpay
// Razorpay sometimes sends empty array [] instead of empty object {}
type FlexibleNotes map[string]interface{}

// UnmarshalJSON implements custom unmarshaling to handle both [] and {} formats
func (fn *FlexibleNotes) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err == nil {
		*fn = m
		return nil
	}

	var arr []interface{}
	if err := json.Unmarshal(data, &arr); err == nil {
		*fn = make(map[string]interface{})
		return nil
	}

	return fmt.Errorf("notes must be either object or array")
}

// Get returns the note value as a string
func (fn FlexibleNotes) Get(key string) string {
	if v, ok := fn[key].(string); ok {
		return v
	}
	return ""
}
