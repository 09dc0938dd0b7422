package service

import (
	"testing"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type WorkspaceServiceSuite struct {
	testutil.BaseServiceTestSuite
	params   ServiceParams
	service  WorkspaceService
	accounts SocialAccountService
}

func TestWorkspaceService(t *testing.T) {
	suite.Run(t, new(WorkspaceServiceSuite))
}

func (s *WorkspaceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = newTestParams(&s.BaseServiceTestSuite)
	s.service = NewWorkspaceService(s.params)
	s.accounts = NewSocialAccountService(s.params)

	s.SeedTenant()
	s.SeedPlan("free", "0", map[types.PlanLimitKey]int64{
		types.PlanLimitWorkspaces:     2,
		types.PlanLimitSocialAccounts: 1,
		types.PlanLimitTeamMembers:    types.UnlimitedQuota,
	})
}

func (s *WorkspaceServiceSuite) create(name string) *dto.WorkspaceResponse {
	resp, err := s.service.CreateWorkspace(s.GetContext(), dto.CreateWorkspaceRequest{Name: name})
	s.Require().NoError(err)
	return resp
}

func (s *WorkspaceServiceSuite) TestCreateWorkspace() {
	ws := s.create("Brand Team EU")
	s.Equal("brand-team-eu", ws.Slug)
	s.Equal("UTC", ws.Timezone)

	_, err := s.service.CreateWorkspace(s.GetContext(), dto.CreateWorkspaceRequest{Name: "brand team eu"})
	s.True(ierr.IsAlreadyExists(err))

	s.create("Second")
	_, err = s.service.CreateWorkspace(s.GetContext(), dto.CreateWorkspaceRequest{Name: "Third"})
	s.True(ierr.IsPermissionDenied(err))
}

func (s *WorkspaceServiceSuite) TestDeleteBlockedByConnectedAccounts() {
	ws := s.create("Brand")

	account, err := s.accounts.ConnectSocialAccount(s.GetContext(), ws.ID, dto.ConnectSocialAccountRequest{
		Platform:   types.SocialPlatformInstagram,
		ExternalID: "178414",
		Handle:     "@acme",
	})
	s.Require().NoError(err)

	s.True(ierr.IsValidation(s.service.DeleteWorkspace(s.GetContext(), ws.ID)))

	s.Require().NoError(s.accounts.DisconnectSocialAccount(s.GetContext(), account.ID))
	s.NoError(s.service.DeleteWorkspace(s.GetContext(), ws.ID))

	_, err = s.service.GetWorkspace(s.GetContext(), ws.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *WorkspaceServiceSuite) TestTeamMembers() {
	ws := s.create("Brand")
	team, err := s.service.CreateTeam(s.GetContext(), ws.ID, dto.CreateTeamRequest{Name: "Content"})
	s.Require().NoError(err)

	member, err := s.service.AddTeamMember(s.GetContext(), team.ID, dto.AddTeamMemberRequest{UserID: types.DefaultUserID})
	s.Require().NoError(err)
	s.NotEmpty(member.Role)

	_, err = s.service.AddTeamMember(s.GetContext(), team.ID, dto.AddTeamMemberRequest{UserID: types.DefaultUserID})
	s.True(ierr.IsAlreadyExists(err))

	// users of other tenants are invisible
	_, err = s.service.AddTeamMember(s.GetContext(), team.ID, dto.AddTeamMemberRequest{UserID: "user_elsewhere"})
	s.True(ierr.IsValidation(err))

	updated, err := s.service.UpdateTeamMember(s.GetContext(), team.ID, types.DefaultUserID, dto.UpdateTeamMemberRequest{Role: types.TeamRoleManager})
	s.NoError(err)
	s.Equal(types.TeamRoleManager, updated.Role)

	s.NoError(s.service.RemoveTeamMember(s.GetContext(), team.ID, types.DefaultUserID))
	s.ElementsMatch([]types.AuditAction{
		types.AuditActionWorkspaceCreated,
		types.AuditActionTeamMemberAdded,
		types.AuditActionTeamMemberRemoved,
	}, auditActions(&s.BaseServiceTestSuite, s.params))
}
