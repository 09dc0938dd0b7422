package service

import (
	"context"
	"testing"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type AuthServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service AuthService
	tenants TenantService
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = newTestParams(&s.BaseServiceTestSuite)
	s.service = NewAuthService(s.params)
	s.tenants = NewTenantService(s.params)
}

func (s *AuthServiceSuite) signUp(email string) *dto.AuthResponse {
	resp, err := s.service.SignUp(context.Background(), &dto.SignUpRequest{
		Email:      email,
		Password:   "correct-horse",
		TenantName: "Acme Social",
	})
	s.Require().NoError(err)
	return resp
}

func (s *AuthServiceSuite) TestSignUpCreatesTenantOwnerAndWorkspace() {
	resp := s.signUp("Maya@Example.com")
	s.NotEmpty(resp.Token)

	ctx := types.SetTenantID(context.Background(), resp.TenantID)
	t, err := s.GetStores().TenantRepo.GetByID(ctx, resp.TenantID)
	s.Require().NoError(err)
	s.Equal("acme-social", t.Slug)
	s.Equal("maya@example.com", t.BillingEmail)
	s.Equal(types.TenantStatusActive, t.TenantStatus)

	u, err := s.GetStores().UserRepo.GetByEmail(ctx, "maya@example.com")
	s.Require().NoError(err)
	s.Equal(types.UserRoleOwner, u.Role)
	s.False(u.IsSuperAdmin)
	s.NotEqual("correct-horse", u.PasswordHash)

	count, err := s.GetStores().WorkspaceRepo.Count(ctx, types.NewNoLimitWorkspaceFilter())
	s.NoError(err)
	s.Equal(1, count)
}

func (s *AuthServiceSuite) TestSignUpDuplicateEmailAndSlug() {
	first := s.signUp("a@example.com")

	_, err := s.service.SignUp(context.Background(), &dto.SignUpRequest{Email: "A@example.com", Password: "correct-horse"})
	s.True(ierr.IsAlreadyExists(err))

	second := s.signUp("b@example.com")
	t1, err := s.GetStores().TenantRepo.GetByID(context.Background(), first.TenantID)
	s.Require().NoError(err)
	t2, err := s.GetStores().TenantRepo.GetByID(context.Background(), second.TenantID)
	s.Require().NoError(err)
	s.NotEqual(t1.Slug, t2.Slug)
}

func (s *AuthServiceSuite) TestSuperAdminByEmail() {
	resp := s.signUp("root@socialdesk.test")
	u, err := s.GetStores().UserRepo.GetByEmail(context.Background(), "root@socialdesk.test")
	s.Require().NoError(err)
	s.True(u.IsSuperAdmin)
	s.Equal(resp.UserID, u.ID)
}

func (s *AuthServiceSuite) TestLogin() {
	s.signUp("maya@example.com")

	resp, err := s.service.Login(context.Background(), &dto.LoginRequest{Email: "maya@example.com", Password: "correct-horse"})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)

	_, err = s.service.Login(context.Background(), &dto.LoginRequest{Email: "maya@example.com", Password: "wrong-password"})
	s.True(ierr.IsUnauthenticated(err))

	_, err = s.service.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	s.True(ierr.IsUnauthenticated(err))

	names := s.GetStores().AnalyticsRepo.Names(context.Background())
	s.Contains(names, types.AnalyticsEventLoginFailed)
}

func (s *AuthServiceSuite) TestAuthenticate() {
	resp := s.signUp("maya@example.com")

	p, err := s.service.Authenticate(context.Background(), resp.Token)
	s.Require().NoError(err)
	s.Equal(resp.UserID, p.User.ID)
	s.Equal(resp.TenantID, p.Tenant.ID)
	s.Equal(resp.SessionID, p.SessionID)

	_, err = s.service.Authenticate(context.Background(), "not-a-token")
	s.True(ierr.IsUnauthenticated(err))
}

func (s *AuthServiceSuite) TestLogoutRevokesSession() {
	resp := s.signUp("maya@example.com")

	_, err := s.service.Authenticate(context.Background(), resp.Token)
	s.Require().NoError(err)

	ctx := types.SetTenantID(context.Background(), resp.TenantID)
	ctx = types.SetUserID(ctx, resp.UserID)
	ctx = types.SetSessionID(ctx, resp.SessionID)
	s.NoError(s.service.Logout(ctx))

	_, err = s.service.Authenticate(context.Background(), resp.Token)
	s.True(ierr.IsUnauthenticated(err))

	s.True(ierr.IsUnauthenticated(s.service.Logout(context.Background())))
}

func (s *AuthServiceSuite) TestSuspendedTenantIsLockedOut() {
	resp := s.signUp("maya@example.com")

	// cached principal must not outlive the suspension
	_, err := s.service.Authenticate(context.Background(), resp.Token)
	s.Require().NoError(err)

	_, err = s.tenants.SuspendTenant(context.Background(), resp.TenantID, dto.SuspendTenantRequest{Reason: "chargeback"})
	s.Require().NoError(err)

	_, err = s.service.Authenticate(context.Background(), resp.Token)
	s.True(ierr.IsPermissionDenied(err))

	_, err = s.service.Login(context.Background(), &dto.LoginRequest{Email: "maya@example.com", Password: "correct-horse"})
	s.True(ierr.IsPermissionDenied(err))

	_, err = s.tenants.SuspendTenant(context.Background(), resp.TenantID, dto.SuspendTenantRequest{})
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.tenants.ReactivateTenant(context.Background(), resp.TenantID)
	s.Require().NoError(err)
	_, err = s.service.Authenticate(context.Background(), resp.Token)
	s.NoError(err)

	ctx := types.SetTenantID(context.Background(), resp.TenantID)
	s.ElementsMatch(
		[]types.AuditAction{types.AuditActionTenantSuspended, types.AuditActionTenantReactivated},
		auditActionsIn(ctx, &s.BaseServiceTestSuite, s.params),
	)
}
