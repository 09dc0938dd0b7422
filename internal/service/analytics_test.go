package service

import (
	"errors"
	"testing"
	"time"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type AnalyticsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AnalyticsService
}

func TestAnalyticsService(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceSuite))
}

func (s *AnalyticsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAnalyticsService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *AnalyticsServiceSuite) track(kind types.AnalyticsEventKind, name string) {
	s.Require().NoError(s.service.Track(s.GetContext(), dto.TrackEventRequest{Kind: kind, Name: name}))
}

func (s *AnalyticsServiceSuite) TestSummaryGroupsByKindAndName() {
	s.track(types.AnalyticsEventKindPageView, "/posts")
	s.track(types.AnalyticsEventKindPageView, "/posts")
	s.track(types.AnalyticsEventKindAction, "post.scheduled")

	// other tenants stay out of the summary
	other := types.SetTenantID(s.GetContext(), "tenant_other")
	s.Require().NoError(s.service.Track(other, dto.TrackEventRequest{Kind: types.AnalyticsEventKindPageView, Name: "/posts"}))

	resp, err := s.service.Summary(s.GetContext(), &types.AnalyticsSummaryFilter{
		EndTime: time.Now().UTC().Add(time.Minute),
		Kinds:   []types.AnalyticsEventKind{types.AnalyticsEventKindPageView},
	})
	s.Require().NoError(err)
	s.Require().Len(resp.Rows, 1)
	s.Equal("/posts", resp.Rows[0].Name)
	s.Equal(uint64(2), resp.Rows[0].Count)
	s.Equal(resp.EndTime.AddDate(0, 0, -30), resp.StartTime)
}

func (s *AnalyticsServiceSuite) TestTrackValidation() {
	err := s.service.Track(s.GetContext(), dto.TrackEventRequest{Kind: "clicks", Name: "x"})
	s.True(ierr.IsValidation(err))
}

func (s *AnalyticsServiceSuite) TestStorageFailureIsNotReturned() {
	s.GetStores().AnalyticsRepo.Err = errors.New("clickhouse unavailable")
	s.NoError(s.service.Track(s.GetContext(), dto.TrackEventRequest{Kind: types.AnalyticsEventKindAction, Name: "x"}))
}

func (s *AnalyticsServiceSuite) TestSummaryRejectsInvertedRange() {
	now := time.Now().UTC()
	_, err := s.service.Summary(s.GetContext(), &types.AnalyticsSummaryFilter{StartTime: now, EndTime: now.Add(-time.Hour)})
	s.True(ierr.IsValidation(err))
}
