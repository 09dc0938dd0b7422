package service

import (
	"testing"
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/subscription"
	"github.com/socialdesk/socialdesk/internal/domain/workspace"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type UsageServiceSuite struct {
	testutil.BaseServiceTestSuite
	service UsageService
}

func TestUsageService(t *testing.T) {
	suite.Run(t, new(UsageServiceSuite))
}

func (s *UsageServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewUsageService(newTestParams(&s.BaseServiceTestSuite))

	s.SeedTenant()
	s.SeedPlan("free", "0", map[types.PlanLimitKey]int64{
		types.PlanLimitWorkspaces: 1,
	})
	s.SeedPlan("pro", "49", map[types.PlanLimitKey]int64{
		types.PlanLimitWorkspaces:     types.UnlimitedQuota,
		types.PlanLimitSocialAccounts: 5,
	})
}

func (s *UsageServiceSuite) addWorkspaces(n int) {
	for i := 0; i < n; i++ {
		s.Require().NoError(s.GetStores().WorkspaceRepo.Create(s.GetContext(), &workspace.Workspace{
			ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WORKSPACE),
			Name:      "Workspace",
			Slug:      types.SlugWithSuffix("workspace"),
			Timezone:  "UTC",
			BaseModel: types.GetDefaultBaseModel(s.GetContext()),
		}))
	}
}

func (s *UsageServiceSuite) subscribe(planCode string) {
	now := s.GetNow()
	s.Require().NoError(s.GetStores().SubRepo.Create(s.GetContext(), &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		PlanCode:           planCode,
		SubscriptionStatus: types.SubscriptionStatusActive,
		Quantity:           1,
		Currency:           "USD",
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}))
}

func (s *UsageServiceSuite) TestEffectivePlanFallsBackToFree() {
	p, err := s.service.EffectivePlan(s.GetContext())
	s.NoError(err)
	s.Equal("free", p.Code)

	s.subscribe("pro")
	p, err = s.service.EffectivePlan(s.GetContext())
	s.NoError(err)
	s.Equal("pro", p.Code)
}

func (s *UsageServiceSuite) TestCheckLimitOnFreePlan() {
	s.NoError(s.service.CheckLimit(s.GetContext(), types.PlanLimitWorkspaces, 1))

	s.addWorkspaces(1)
	err := s.service.CheckLimit(s.GetContext(), types.PlanLimitWorkspaces, 1)
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *UsageServiceSuite) TestMissingLimitAllowsNothing() {
	err := s.service.CheckLimit(s.GetContext(), types.PlanLimitSocialAccounts, 1)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *UsageServiceSuite) TestUnlimitedQuota() {
	s.subscribe("pro")
	s.addWorkspaces(25)
	s.NoError(s.service.CheckLimit(s.GetContext(), types.PlanLimitWorkspaces, 100))
}

func (s *UsageServiceSuite) TestGetUsage() {
	s.subscribe("pro")
	s.addWorkspaces(2)

	resp, err := s.service.GetUsage(s.GetContext())
	s.Require().NoError(err)
	s.Equal("pro", resp.PlanCode)
	s.Len(resp.Limits, len(types.AllPlanLimitKeys))

	for _, l := range resp.Limits {
		switch l.LimitKey {
		case types.PlanLimitWorkspaces:
			s.True(l.Unlimited)
			s.Equal(int64(2), l.Used)
		case types.PlanLimitSocialAccounts:
			s.False(l.Unlimited)
			s.Equal(int64(5), l.Remaining)
		}
	}
}

func (s *UsageServiceSuite) TestMonthBounds() {
	at := time.Date(2024, time.December, 31, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	start, end := monthBounds(at)
	s.Equal(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	s.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}
