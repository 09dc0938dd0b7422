package dto

import (
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/analytics"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/validator"
)

type TrackEventRequest struct {
	Kind       types.AnalyticsEventKind `json:"kind" binding:"required" validate:"required"`
	Name       string                   `json:"name" binding:"required" validate:"required,max=100"`
	Properties map[string]interface{}   `json:"properties,omitempty"`
}

func (r *TrackEventRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Kind.Validate()
}

type AnalyticsSummaryResponse struct {
	StartTime time.Time               `json:"start_time"`
	EndTime   time.Time               `json:"end_time"`
	Rows      []*analytics.SummaryRow `json:"rows"`
}
