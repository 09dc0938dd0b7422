package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type PlanServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service PlanService
}

func TestPlanService(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}

func (s *PlanServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = newTestParams(&s.BaseServiceTestSuite)
	s.service = NewPlanService(s.params)
}

func (s *PlanServiceSuite) upsert(code string, public bool, limits map[types.PlanLimitKey]int64) *dto.PlanResponse {
	resp, err := s.service.UpsertPlan(s.GetContext(), dto.UpsertPlanRequest{
		Code:     code,
		Name:     code,
		Price:    decimal.NewFromInt(29),
		IsPublic: public,
		Limits:   limits,
	})
	s.Require().NoError(err)
	return resp
}

func (s *PlanServiceSuite) TestUpsertCreatesThenUpdates() {
	created := s.upsert("starter", true, map[types.PlanLimitKey]int64{types.PlanLimitWorkspaces: 2})
	s.Equal(types.BillingIntervalMonthly, created.BillingInterval)
	s.Equal("USD", created.Currency)
	s.Equal(int64(2), created.GetLimit(types.PlanLimitWorkspaces))

	updated := s.upsert("starter", true, map[types.PlanLimitKey]int64{types.PlanLimitWorkspaces: types.UnlimitedQuota})
	s.Equal(created.ID, updated.ID)
	s.Equal(types.UnlimitedQuota, updated.GetLimit(types.PlanLimitWorkspaces))
}

func (s *PlanServiceSuite) TestSetLimitRefreshesCachedPlan() {
	s.upsert("starter", true, map[types.PlanLimitKey]int64{types.PlanLimitSocialAccounts: 3})

	// warm the cache
	p, err := s.service.GetPlan(s.GetContext(), "starter")
	s.Require().NoError(err)
	s.Equal(int64(3), p.GetLimit(types.PlanLimitSocialAccounts))

	p, err = s.service.SetLimit(s.GetContext(), "starter", dto.SetPlanLimitRequest{
		LimitKey:   types.PlanLimitSocialAccounts,
		LimitValue: 10,
	})
	s.Require().NoError(err)
	s.Equal(int64(10), p.GetLimit(types.PlanLimitSocialAccounts))

	_, err = s.service.SetLimit(s.GetContext(), "starter", dto.SetPlanLimitRequest{
		LimitKey:   types.PlanLimitSocialAccounts,
		LimitValue: -2,
	})
	s.True(ierr.IsValidation(err))

	_, err = s.service.SetLimit(s.GetContext(), "missing", dto.SetPlanLimitRequest{
		LimitKey:   types.PlanLimitSocialAccounts,
		LimitValue: 1,
	})
	s.True(ierr.IsNotFound(err))
}

func (s *PlanServiceSuite) TestListPublicOnly() {
	s.upsert("starter", true, nil)
	s.upsert("enterprise", false, nil)

	public, err := s.service.ListPlans(s.GetContext(), true)
	s.Require().NoError(err)
	codes := lo.Map(public.Items, func(p *dto.PlanResponse, _ int) string { return p.Code })
	s.Equal([]string{"starter"}, codes)

	all, err := s.service.ListPlans(s.GetContext(), false)
	s.Require().NoError(err)
	s.Len(all.Items, 2)
}

func (s *PlanServiceSuite) TestRejectsNegativePrice() {
	_, err := s.service.UpsertPlan(s.GetContext(), dto.UpsertPlanRequest{Code: "x", Name: "x", Price: decimal.NewFromInt(-1)})
	s.True(ierr.IsValidation(err))
}
