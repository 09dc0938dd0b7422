package service

import (
	"context"
	"strings"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/user"
	"github.com/socialdesk/socialdesk/internal/email"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
)

type UserService interface {
	GetMe(ctx context.Context) (*dto.MeResponse, error)
	ListUsers(ctx context.Context, filter *types.UserFilter) (*dto.ListUsersResponse, error)
	// InviteUser adds a user to the tenant, counted against the team_members limit
	InviteUser(ctx context.Context, req dto.InviteUserRequest) (*dto.UserResponse, error)
	UpdateRole(ctx context.Context, id string, req dto.UpdateUserRoleRequest) (*dto.UserResponse, error)
	// RemoveUser deletes the user, its team memberships and revokes its sessions
	RemoveUser(ctx context.Context, id string) error
}

type userService struct {
	ServiceParams
}

func NewUserService(params ServiceParams) UserService {
	return &userService{ServiceParams: params}
}

func (s *userService) GetMe(ctx context.Context) (*dto.MeResponse, error) {
	u, err := s.UserRepo.GetByID(ctx, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	t, err := s.TenantRepo.GetByID(ctx, u.TenantID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		User:   dto.NewUserResponse(u),
		Tenant: dto.NewTenantResponse(t),
	}, nil
}

func (s *userService) ListUsers(ctx context.Context, filter *types.UserFilter) (*dto.ListUsersResponse, error) {
	if filter == nil {
		filter = types.NewUserFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	users, err := s.UserRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.UserRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.UserResponse, len(users))
	for i, u := range users {
		items[i] = dto.NewUserResponse(u)
	}
	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *userService) InviteUser(ctx context.Context, req dto.InviteUserRequest) (*dto.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Role == types.UserRoleOwner && types.GetUserRole(ctx) != types.UserRoleOwner {
		return nil, ierr.NewError("only owners can add owners").
			WithHint("Only an owner can invite another owner").
			Mark(ierr.ErrPermissionDenied)
	}

	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.UserRepo.GetByEmail(ctx, emailAddr)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("user already exists").
			WithHint("A user with this email already exists").
			WithReportableDetails(map[string]any{"email": emailAddr}).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := NewUsageService(s.ServiceParams).CheckLimit(ctx, types.PlanLimitTeamMembers, 1); err != nil {
		return nil, err
	}

	password := req.Password
	if password == "" {
		// unusable until the invitee resets it
		password = types.GenerateUUID()
	}
	hash, err := s.AuthProvider.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Email:        emailAddr,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	if u.Name == "" {
		u.Name = email.ExtractNameFromEmail(emailAddr)
	}

	if err := s.UserRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionUserInvited, "user", u.ID, map[string]interface{}{
		"email": u.Email,
		"role":  u.Role,
	})
	s.sendInvite(ctx, u)

	return dto.NewUserResponse(u), nil
}

func (s *userService) sendInvite(ctx context.Context, u *user.User) {
	if s.Email == nil {
		return
	}

	t, err := s.TenantRepo.GetByID(ctx, u.TenantID)
	if err != nil {
		s.Logger.Warnw("failed to load tenant for invite email", "error", err, "user_id", u.ID)
		return
	}

	_, err = s.Email.SendEmailWithTemplate(ctx, email.SendEmailWithTemplateRequest{
		ToAddress: u.Email,
		Subject:   "You have been invited to " + t.Name,
		Template:  email.TemplateUserInvited,
		Data: map[string]interface{}{
			"user_name":   u.Name,
			"tenant_name": t.Name,
			"role":        string(u.Role),
			"login_url":   strings.TrimRight(s.Config.Server.PublicURL, "/") + "/login",
		},
	})
	if err != nil {
		s.Logger.Warnw("failed to send invite email", "error", err, "user_id", u.ID)
	}
}

func (s *userService) UpdateRole(ctx context.Context, id string, req dto.UpdateUserRoleRequest) (*dto.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if id == types.GetUserID(ctx) {
		return nil, ierr.NewError("cannot change own role").
			WithHint("You cannot change your own role").
			Mark(ierr.ErrInvalidOperation)
	}

	u, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if (u.Role == types.UserRoleOwner || req.Role == types.UserRoleOwner) && types.GetUserRole(ctx) != types.UserRoleOwner {
		return nil, ierr.NewError("only owners can manage owners").
			WithHint("Only an owner can grant or revoke the owner role").
			Mark(ierr.ErrPermissionDenied)
	}
	if u.Role == req.Role {
		return dto.NewUserResponse(u), nil
	}

	previous := u.Role
	u.Role = req.Role
	if err := s.UserRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	invalidateSessions(ctx, s.ServiceParams, u.ID)
	recordAudit(ctx, s.ServiceParams, types.AuditActionUserRoleChanged, "user", u.ID, map[string]interface{}{
		"from_role": previous,
		"to_role":   u.Role,
	})
	return dto.NewUserResponse(u), nil
}

func (s *userService) RemoveUser(ctx context.Context, id string) error {
	if id == types.GetUserID(ctx) {
		return ierr.NewError("cannot remove yourself").
			WithHint("You cannot remove your own account").
			Mark(ierr.ErrInvalidOperation)
	}

	u, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == types.UserRoleOwner && types.GetUserRole(ctx) != types.UserRoleOwner {
		return ierr.NewError("only owners can remove owners").
			WithHint("Only an owner can remove another owner").
			Mark(ierr.ErrPermissionDenied)
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.TeamMemberRepo.DeleteByUser(ctx, u.ID); err != nil {
			return err
		}
		if err := s.SessionRepo.RevokeAllForUser(ctx, u.ID); err != nil {
			return err
		}
		return s.UserRepo.Delete(ctx, u.ID)
	})
	if err != nil {
		return err
	}

	invalidateSessions(ctx, s.ServiceParams, u.ID)
	recordAudit(ctx, s.ServiceParams, types.AuditActionUserRemoved, "user", u.ID, map[string]interface{}{
		"email": u.Email,
	})
	trackEvent(ctx, s.ServiceParams, types.AnalyticsEventKindSecurity, types.AnalyticsEventTokenRevoked, map[string]interface{}{
		"user_id": u.ID,
	})
	return nil
}
