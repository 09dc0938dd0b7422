package types

import (
	"time"

	"github.com/samber/lo"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// AnalyticsEventKind groups analytics events
type AnalyticsEventKind string

const (
	AnalyticsEventKindSession  AnalyticsEventKind = "session"
	AnalyticsEventKindSecurity AnalyticsEventKind = "security"
	AnalyticsEventKindAction   AnalyticsEventKind = "action"
	AnalyticsEventKindPageView AnalyticsEventKind = "page_view"
)

func (k AnalyticsEventKind) Validate() error {
	allowed := []AnalyticsEventKind{
		AnalyticsEventKindSession,
		AnalyticsEventKindSecurity,
		AnalyticsEventKindAction,
		AnalyticsEventKindPageView,
	}
	if !lo.Contains(allowed, k) {
		return ierr.NewError("invalid analytics event kind").
			WithHint("Invalid event kind").
			WithReportableDetails(map[string]any{
				"kind":    k,
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

const (
	AnalyticsEventLogin        = "login"
	AnalyticsEventLogout       = "logout"
	AnalyticsEventSignUp       = "sign_up"
	AnalyticsEventLoginFailed  = "login_failed"
	AnalyticsEventTokenRevoked = "token_revoked"
)

type AnalyticsSummaryFilter struct {
	StartTime time.Time            `json:"start_time" form:"start_time" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   time.Time            `json:"end_time" form:"end_time" time_format:"2006-01-02T15:04:05Z07:00"`
	Kinds     []AnalyticsEventKind `json:"kinds,omitempty" form:"kinds"`
}

func (f *AnalyticsSummaryFilter) Validate() error {
	if f.EndTime.IsZero() {
		f.EndTime = time.Now().UTC()
	}
	if f.StartTime.IsZero() {
		f.StartTime = f.EndTime.AddDate(0, 0, -30)
	}
	if f.EndTime.Before(f.StartTime) {
		return ierr.NewError("end_time must be after start_time").
			WithHint("End time must be after start time").
			Mark(ierr.ErrValidation)
	}
	for _, k := range f.Kinds {
		if err := k.Validate(); err != nil {
			return err
		}
	}
	return nil
}
