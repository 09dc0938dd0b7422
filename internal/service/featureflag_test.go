package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type FeatureFlagServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service FeatureFlagService
}

func TestFeatureFlagService(t *testing.T) {
	suite.Run(t, new(FeatureFlagServiceSuite))
}

func (s *FeatureFlagServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = newTestParams(&s.BaseServiceTestSuite)
	s.service = NewFeatureFlagService(s.params)

	s.SeedTenant()
	s.SeedPlan("free", "0", nil)
}

func (s *FeatureFlagServiceSuite) create(req dto.CreateFeatureFlagRequest) *dto.FeatureFlagResponse {
	resp, err := s.service.CreateFeatureFlag(s.GetContext(), req)
	s.Require().NoError(err)
	return resp
}

func (s *FeatureFlagServiceSuite) TestUnknownKeyIsOff() {
	on, err := s.service.IsEnabled(s.GetContext(), "does-not-exist")
	s.NoError(err)
	s.False(on)
}

func (s *FeatureFlagServiceSuite) TestPlanAllowList() {
	s.create(dto.CreateFeatureFlagRequest{Key: "bulk-scheduler", Enabled: true, AllowedPlanCodes: []string{"pro"}})
	s.create(dto.CreateFeatureFlagRequest{Key: "ai-captions", Enabled: true, AllowedPlanCodes: []string{"free"}})

	resp, err := s.service.Evaluate(s.GetContext())
	s.NoError(err)
	s.False(resp.Flags["bulk-scheduler"])
	s.True(resp.Flags["ai-captions"])
}

func (s *FeatureFlagServiceSuite) TestTenantAllowList() {
	s.create(dto.CreateFeatureFlagRequest{Key: "beta-inbox", Enabled: true, AllowedTenantIDs: []string{types.DefaultTenantID}})

	on, err := s.service.IsEnabled(s.GetContext(), "beta-inbox")
	s.NoError(err)
	s.True(on)
}

func (s *FeatureFlagServiceSuite) TestUpdateInvalidatesCache() {
	flag := s.create(dto.CreateFeatureFlagRequest{Key: "reels", Enabled: false, RolloutPercentage: 100})

	on, err := s.service.IsEnabled(s.GetContext(), "reels")
	s.NoError(err)
	s.False(on)

	_, err = s.service.UpdateFeatureFlag(s.GetContext(), flag.ID, dto.UpdateFeatureFlagRequest{Enabled: lo.ToPtr(true)})
	s.NoError(err)

	on, err = s.service.IsEnabled(s.GetContext(), "reels")
	s.NoError(err)
	s.True(on)

	s.NoError(s.service.DeleteFeatureFlag(s.GetContext(), flag.ID))
	on, err = s.service.IsEnabled(s.GetContext(), "reels")
	s.NoError(err)
	s.False(on)
}

func (s *FeatureFlagServiceSuite) TestCreateValidation() {
	_, err := s.service.CreateFeatureFlag(s.GetContext(), dto.CreateFeatureFlagRequest{Key: "Bad Key"})
	s.True(ierr.IsValidation(err))

	_, err = s.service.CreateFeatureFlag(s.GetContext(), dto.CreateFeatureFlagRequest{Key: "ok", RolloutPercentage: 101})
	s.True(ierr.IsValidation(err))

	s.create(dto.CreateFeatureFlagRequest{Key: "dup"})
	_, err = s.service.CreateFeatureFlag(s.GetContext(), dto.CreateFeatureFlagRequest{Key: "dup"})
	s.True(ierr.IsAlreadyExists(err))
}

func (s *FeatureFlagServiceSuite) TestChangesAreAudited() {
	flag := s.create(dto.CreateFeatureFlagRequest{Key: "audit-me"})
	s.NoError(s.service.DeleteFeatureFlag(s.GetContext(), flag.ID))

	actions := auditActions(&s.BaseServiceTestSuite, s.params)
	s.Len(actions, 2)
	s.ElementsMatch([]types.AuditAction{types.AuditActionFeatureFlagChanged, types.AuditActionFeatureFlagChanged}, actions)
}
