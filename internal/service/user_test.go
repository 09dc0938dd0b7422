package service

import (
	"testing"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/user"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type UserServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service UserService
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = newTestParams(&s.BaseServiceTestSuite)
	s.params.Email = s.GetEmail()
	s.service = NewUserService(s.params)

	s.SeedTenant()
	s.SeedPlan("free", "0", map[types.PlanLimitKey]int64{
		types.PlanLimitTeamMembers: 3,
	})
}

func (s *UserServiceSuite) invite(email string, role types.UserRole) *dto.UserResponse {
	resp, err := s.service.InviteUser(s.GetContext(), dto.InviteUserRequest{Email: email, Role: role})
	s.Require().NoError(err)
	return resp
}

func (s *UserServiceSuite) TestInviteSendsEmail() {
	resp := s.invite("Priya.Shah@acme.test", "")
	s.Equal("priya.shah@acme.test", resp.Email)
	s.Equal(types.UserRoleMember, resp.Role)
	s.NotEmpty(resp.Name)

	sent := s.GetEmailSender().Sent
	s.Require().Len(sent, 1)
	s.Equal("priya.shah@acme.test", sent[0].To)
	s.Contains(sent[0].Subject, "Acme")
	s.Contains(sent[0].HTML, "https://app.socialdesk.test/login")

	s.Contains(auditActions(&s.BaseServiceTestSuite, s.params), types.AuditActionUserInvited)
}

func (s *UserServiceSuite) TestInviteRules() {
	s.invite("a@acme.test", types.UserRoleAdmin)

	_, err := s.service.InviteUser(s.GetContext(), dto.InviteUserRequest{Email: "A@acme.test"})
	s.True(ierr.IsAlreadyExists(err))

	adminCtx := types.SetUserRole(s.GetContext(), types.UserRoleAdmin)
	_, err = s.service.InviteUser(adminCtx, dto.InviteUserRequest{Email: "boss@acme.test", Role: types.UserRoleOwner})
	s.True(ierr.IsPermissionDenied(err))

	// owner plus two invites fills the three seats
	s.invite("b@acme.test", "")
	_, err = s.service.InviteUser(s.GetContext(), dto.InviteUserRequest{Email: "c@acme.test"})
	s.True(ierr.IsPermissionDenied(err))
}

func (s *UserServiceSuite) TestUpdateRole() {
	member := s.invite("m@acme.test", "")

	resp, err := s.service.UpdateRole(s.GetContext(), member.ID, dto.UpdateUserRoleRequest{Role: types.UserRoleAdmin})
	s.NoError(err)
	s.Equal(types.UserRoleAdmin, resp.Role)

	_, err = s.service.UpdateRole(s.GetContext(), types.DefaultUserID, dto.UpdateUserRoleRequest{Role: types.UserRoleMember})
	s.True(ierr.IsInvalidOperation(err))

	adminCtx := types.SetUserID(types.SetUserRole(s.GetContext(), types.UserRoleAdmin), member.ID)
	_, err = s.service.UpdateRole(adminCtx, types.DefaultUserID, dto.UpdateUserRoleRequest{Role: types.UserRoleMember})
	s.True(ierr.IsPermissionDenied(err))
}

func (s *UserServiceSuite) TestRemoveUserRevokesSessions() {
	member := s.invite("m@acme.test", "")

	session := &user.Session{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SESSION),
		TenantID:  types.DefaultTenantID,
		UserID:    member.ID,
		ExpiresAt: s.GetNow().Add(s.GetConfig().Auth.TokenTTL),
		CreatedAt: s.GetNow(),
	}
	s.Require().NoError(s.GetStores().SessionRepo.Create(s.GetContext(), session))

	s.NoError(s.service.RemoveUser(s.GetContext(), member.ID))

	stored, err := s.GetStores().SessionRepo.Get(s.GetContext(), session.ID)
	s.Require().NoError(err)
	s.NotNil(stored.RevokedAt)

	_, err = s.GetStores().UserRepo.GetByID(s.GetContext(), member.ID)
	s.True(ierr.IsNotFound(err))

	s.True(ierr.IsInvalidOperation(s.service.RemoveUser(s.GetContext(), types.DefaultUserID)))
}
