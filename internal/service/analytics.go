package service

import (
	"context"
	"time"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/analytics"
	"github.com/socialdesk/socialdesk/internal/types"
)

type AnalyticsService interface {
	// Track stores an event for the caller; storage failures are logged and not returned
	Track(ctx context.Context, req dto.TrackEventRequest) error
	Summary(ctx context.Context, filter *types.AnalyticsSummaryFilter) (*dto.AnalyticsSummaryResponse, error)
}

type analyticsService struct {
	ServiceParams
}

func NewAnalyticsService(params ServiceParams) AnalyticsService {
	return &analyticsService{ServiceParams: params}
}

func (s *analyticsService) Track(ctx context.Context, req dto.TrackEventRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	event := &analytics.Event{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ANALYTICS_EVENT),
		TenantID:   types.GetTenantID(ctx),
		UserID:     types.GetUserID(ctx),
		Kind:       req.Kind,
		Name:       req.Name,
		Properties: req.Properties,
		IPAddress:  types.GetClientIP(ctx),
		Timestamp:  time.Now().UTC(),
	}
	if event.Properties == nil {
		event.Properties = types.JSONMap{}
	}

	if err := s.AnalyticsRepo.Insert(ctx, event); err != nil {
		s.Logger.Errorw("failed to track analytics event",
			"error", err,
			"kind", event.Kind,
			"name", event.Name,
			"tenant_id", event.TenantID,
		)
	}
	return nil
}

func (s *analyticsService) Summary(ctx context.Context, filter *types.AnalyticsSummaryFilter) (*dto.AnalyticsSummaryResponse, error) {
	if filter == nil {
		filter = &types.AnalyticsSummaryFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.AnalyticsRepo.Summary(ctx, types.GetTenantID(ctx), filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*analytics.SummaryRow{}
	}

	return &dto.AnalyticsSummaryResponse{
		StartTime: filter.StartTime,
		EndTime:   filter.EndTime,
		Rows:      rows,
	}, nil
}

// trackEvent records a server side event with no request validation
func trackEvent(ctx context.Context, params ServiceParams, kind types.AnalyticsEventKind, name string, props map[string]interface{}) {
	if params.AnalyticsRepo == nil {
		return
	}
	if err := NewAnalyticsService(params).Track(ctx, dto.TrackEventRequest{
		Kind:       kind,
		Name:       name,
		Properties: props,
	}); err != nil {
		params.Logger.Warnw("invalid analytics event", "error", err, "kind", kind, "name", name)
	}
}
