package service

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/auth"
	"github.com/socialdesk/socialdesk/internal/cache"
	"github.com/socialdesk/socialdesk/internal/domain/tenant"
	"github.com/socialdesk/socialdesk/internal/domain/user"
	"github.com/socialdesk/socialdesk/internal/domain/workspace"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
)

const sessionCacheTTL = time.Minute

// Principal is the authenticated caller of a request
type Principal struct {
	User      *user.User
	Tenant    *tenant.Tenant
	SessionID string
}

type AuthService interface {
	// SignUp creates a tenant with its owner and default workspace and signs the owner in
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context) error
	// Authenticate resolves a bearer token to an active session of an active user
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

type authService struct {
	ServiceParams
}

func NewAuthService(params ServiceParams) AuthService {
	return &authService{ServiceParams: params}
}

func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.UserRepo.GetByEmail(ctx, email)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("user already exists").
			WithHint("An account with this email already exists").
			Mark(ierr.ErrAlreadyExists)
	}

	hash, err := s.AuthProvider.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	name := lo.Ternary(req.Name != "", req.Name, strings.Split(email, "@")[0])
	tenantName := lo.Ternary(req.TenantName != "", req.TenantName, name)
	now := time.Now().UTC()

	t := &tenant.Tenant{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TENANT),
		Name:         tenantName,
		BillingEmail: email,
		TenantStatus: types.TenantStatusActive,
		Status:       types.StatusPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	t.Slug, err = s.uniqueTenantSlug(ctx, tenantName)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         types.UserRoleOwner,
		IsSuperAdmin: lo.ContainsBy(s.Config.Auth.SuperAdminEmails, func(e string) bool {
			return strings.EqualFold(strings.TrimSpace(e), email)
		}),
		LastLoginAt: &now,
	}

	ctx = types.SetTenantID(ctx, t.ID)
	ctx = types.SetUserID(ctx, u.ID)
	t.CreatedBy, t.UpdatedBy = u.ID, u.ID
	u.BaseModel = types.GetDefaultBaseModel(ctx)

	ws := &workspace.Workspace{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WORKSPACE),
		Name:      "Default",
		Slug:      "default",
		Timezone:  "UTC",
		BaseModel: types.GetDefaultBaseModel(ctx),
	}

	var session *user.Session
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.TenantRepo.Create(ctx, t); err != nil {
			return err
		}
		if err := s.UserRepo.Create(ctx, u); err != nil {
			return err
		}
		if err := s.WorkspaceRepo.Create(ctx, ws); err != nil {
			return err
		}
		session, err = s.newSession(ctx, u)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("tenant signed up",
		"tenant_id", t.ID,
		"user_id", u.ID,
		"is_super_admin", u.IsSuperAdmin,
	)
	trackEvent(ctx, s.ServiceParams, types.AnalyticsEventKindSession, types.AnalyticsEventSignUp, nil)

	return s.issueToken(ctx, u, session)
}

func (s *authService) uniqueTenantSlug(ctx context.Context, name string) (string, error) {
	slug := types.Slugify(name)
	if slug == "" {
		return types.SlugWithSuffix("tenant"), nil
	}

	_, err := s.TenantRepo.GetBySlug(ctx, slug)
	switch {
	case ierr.IsNotFound(err):
		return slug, nil
	case err != nil:
		return "", err
	default:
		return types.SlugWithSuffix(slug), nil
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	invalid := ierr.NewError("invalid credentials").
		WithHint("Invalid email or password").
		Mark(ierr.ErrUnauthenticated)

	u, err := s.UserRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if ierr.IsNotFound(err) {
			trackEvent(ctx, s.ServiceParams, types.AnalyticsEventKindSecurity, types.AnalyticsEventLoginFailed, map[string]interface{}{
				"reason": "unknown_email",
			})
			return nil, invalid
		}
		return nil, err
	}

	ctx = types.SetTenantID(ctx, u.TenantID)
	ctx = types.SetUserID(ctx, u.ID)

	if err := s.AuthProvider.ComparePassword(u.PasswordHash, req.Password); err != nil {
		s.Logger.Infow("login failed", "user_id", u.ID, "tenant_id", u.TenantID)
		trackEvent(ctx, s.ServiceParams, types.AnalyticsEventKindSecurity, types.AnalyticsEventLoginFailed, map[string]interface{}{
			"reason": "wrong_password",
		})
		return nil, invalid
	}

	t, err := s.TenantRepo.GetByID(ctx, u.TenantID)
	if err != nil {
		return nil, err
	}
	if t.IsSuspended() && !u.IsSuperAdmin {
		return nil, ierr.NewError("tenant is suspended").
			WithHint("Your organisation has been suspended, contact support").
			Mark(ierr.ErrPermissionDenied)
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now

	var session *user.Session
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.UserRepo.Update(ctx, u); err != nil {
			return err
		}
		session, err = s.newSession(ctx, u)
		return err
	})
	if err != nil {
		return nil, err
	}

	trackEvent(ctx, s.ServiceParams, types.AnalyticsEventKindSession, types.AnalyticsEventLogin, nil)
	return s.issueToken(ctx, u, session)
}

func (s *authService) Logout(ctx context.Context) error {
	sessionID := types.GetSessionID(ctx)
	if sessionID == "" {
		return ierr.NewError("no session").
			WithHint("Not signed in").
			Mark(ierr.ErrUnauthenticated)
	}

	session, err := s.SessionRepo.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.RevokedAt == nil {
		now := time.Now().UTC()
		session.RevokedAt = &now
		if err := s.SessionRepo.Update(ctx, session); err != nil {
			return err
		}
	}

	if s.Cache != nil {
		s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixSession, session.UserID, session.ID))
	}
	trackEvent(ctx, s.ServiceParams, types.AnalyticsEventKindSession, types.AnalyticsEventLogout, nil)
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.AuthProvider.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	key := cache.GenerateKey(cache.PrefixSession, claims.UserID, claims.SessionID)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			if p, ok := cached.(*Principal); ok {
				return p, nil
			}
		}
	}

	session, err := s.SessionRepo.Get(ctx, claims.SessionID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("session not found").
				WithHint("Session expired, sign in again").
				Mark(ierr.ErrUnauthenticated)
		}
		return nil, err
	}
	if session.UserID != claims.UserID || !session.IsActive(time.Now().UTC()) {
		return nil, ierr.NewError("session is not active").
			WithHint("Session expired, sign in again").
			Mark(ierr.ErrUnauthenticated)
	}

	u, err := s.UserRepo.GetByIDUnscoped(ctx, claims.UserID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("user not found").
				WithHint("Account no longer exists").
				Mark(ierr.ErrUnauthenticated)
		}
		return nil, err
	}

	t, err := s.TenantRepo.GetByID(ctx, u.TenantID)
	if err != nil {
		return nil, err
	}
	if t.IsSuspended() && !u.IsSuperAdmin {
		return nil, ierr.NewError("tenant is suspended").
			WithHint("Your organisation has been suspended, contact support").
			Mark(ierr.ErrPermissionDenied)
	}

	p := &Principal{User: u, Tenant: t, SessionID: session.ID}
	if s.Cache != nil {
		s.Cache.Set(ctx, key, p, sessionCacheTTL)
	}
	return p, nil
}

func (s *authService) newSession(ctx context.Context, u *user.User) (*user.Session, error) {
	now := time.Now().UTC()
	session := &user.Session{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SESSION),
		TenantID:  u.TenantID,
		UserID:    u.ID,
		IPAddress: types.GetClientIP(ctx),
		UserAgent: types.GetUserAgent(ctx),
		ExpiresAt: now.Add(s.AuthProvider.TokenTTL()),
		CreatedAt: now,
	}
	if err := s.SessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *authService) issueToken(ctx context.Context, u *user.User, session *user.Session) (*dto.AuthResponse, error) {
	token, err := s.AuthProvider.GenerateToken(ctx, auth.TokenRequest{
		UserID:    u.ID,
		TenantID:  u.TenantID,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		UserID:    u.ID,
		TenantID:  u.TenantID,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// invalidateSessions drops cached principals of a user after its sessions or tenant change
func invalidateSessions(ctx context.Context, params ServiceParams, userID string) {
	if params.Cache == nil {
		return
	}
	params.Cache.DeleteByPrefix(ctx, cache.GenerateKey(cache.PrefixSession, userID)+":")
}
