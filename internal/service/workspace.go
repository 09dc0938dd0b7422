package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/workspace"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
)

type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, req dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error)
	GetWorkspace(ctx context.Context, id string) (*dto.WorkspaceResponse, error)
	ListWorkspaces(ctx context.Context, filter *types.WorkspaceFilter) (*dto.ListWorkspacesResponse, error)
	UpdateWorkspace(ctx context.Context, id string, req dto.UpdateWorkspaceRequest) (*dto.WorkspaceResponse, error)
	// DeleteWorkspace removes an empty workspace together with its teams
	DeleteWorkspace(ctx context.Context, id string) error

	CreateTeam(ctx context.Context, workspaceID string, req dto.CreateTeamRequest) (*dto.TeamResponse, error)
	GetTeam(ctx context.Context, id string) (*dto.TeamResponse, error)
	ListTeams(ctx context.Context, workspaceID string) ([]*dto.TeamResponse, error)
	UpdateTeam(ctx context.Context, id string, req dto.UpdateTeamRequest) (*dto.TeamResponse, error)
	DeleteTeam(ctx context.Context, id string) error

	AddTeamMember(ctx context.Context, teamID string, req dto.AddTeamMemberRequest) (*workspace.TeamMember, error)
	UpdateTeamMember(ctx context.Context, teamID, userID string, req dto.UpdateTeamMemberRequest) (*workspace.TeamMember, error)
	RemoveTeamMember(ctx context.Context, teamID, userID string) error
}

type workspaceService struct {
	ServiceParams
}

func NewWorkspaceService(params ServiceParams) WorkspaceService {
	return &workspaceService{ServiceParams: params}
}

func (s *workspaceService) CreateWorkspace(ctx context.Context, req dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := NewUsageService(s.ServiceParams).CheckLimit(ctx, types.PlanLimitWorkspaces, 1); err != nil {
		return nil, err
	}

	slug := types.Slugify(lo.Ternary(req.Slug != "", req.Slug, req.Name))
	if slug == "" {
		return nil, ierr.NewError("invalid workspace slug").
			WithHint("Workspace slug must contain letters or digits").
			Mark(ierr.ErrValidation)
	}
	if err := s.ensureSlugAvailable(ctx, slug); err != nil {
		return nil, err
	}

	ws := &workspace.Workspace{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WORKSPACE),
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Timezone:    lo.Ternary(req.Timezone != "", req.Timezone, "UTC"),
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	if err := s.WorkspaceRepo.Create(ctx, ws); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionWorkspaceCreated, "workspace", ws.ID, map[string]interface{}{
		"name": ws.Name,
		"slug": ws.Slug,
	})
	return &dto.WorkspaceResponse{Workspace: ws}, nil
}

func (s *workspaceService) ensureSlugAvailable(ctx context.Context, slug string) error {
	filter := types.NewWorkspaceFilter()
	filter.Slug = slug
	count, err := s.WorkspaceRepo.Count(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return ierr.NewError("workspace slug already exists").
			WithHintf("A workspace with slug %q already exists", slug).
			WithReportableDetails(map[string]any{"slug": slug}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *workspaceService) GetWorkspace(ctx context.Context, id string) (*dto.WorkspaceResponse, error) {
	ws, err := s.WorkspaceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.WorkspaceResponse{Workspace: ws}, nil
}

func (s *workspaceService) ListWorkspaces(ctx context.Context, filter *types.WorkspaceFilter) (*dto.ListWorkspacesResponse, error) {
	if filter == nil {
		filter = types.NewWorkspaceFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	items, err := s.WorkspaceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.WorkspaceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := types.NewListResponse(lo.Map(items, func(ws *workspace.Workspace, _ int) *dto.WorkspaceResponse {
		return &dto.WorkspaceResponse{Workspace: ws}
	}), count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *workspaceService) UpdateWorkspace(ctx context.Context, id string, req dto.UpdateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ws, err := s.WorkspaceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		ws.Name = *req.Name
	}
	if req.Description != nil {
		ws.Description = *req.Description
	}
	if req.Timezone != nil {
		ws.Timezone = *req.Timezone
	}

	if err := s.WorkspaceRepo.Update(ctx, ws); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionWorkspaceUpdated, "workspace", ws.ID, nil)
	return &dto.WorkspaceResponse{Workspace: ws}, nil
}

func (s *workspaceService) DeleteWorkspace(ctx context.Context, id string) error {
	ws, err := s.WorkspaceRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	accounts := types.NewSocialAccountFilter()
	accounts.WorkspaceID = ws.ID
	connected, err := s.SocialAccountRepo.Count(ctx, accounts)
	if err != nil {
		return err
	}
	if connected > 0 {
		return ierr.NewError("workspace has social accounts").
			WithHint("Disconnect all social accounts before deleting the workspace").
			WithReportableDetails(map[string]any{
				"workspace_id":    ws.ID,
				"social_accounts": connected,
			}).
			Mark(ierr.ErrValidation)
	}

	teams, err := s.TeamRepo.ListByWorkspace(ctx, ws.ID)
	if err != nil {
		return err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		for _, t := range teams {
			if err := s.deleteTeam(ctx, t.ID); err != nil {
				return err
			}
		}
		return s.WorkspaceRepo.Delete(ctx, ws.ID)
	})
	if err != nil {
		return err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionWorkspaceDeleted, "workspace", ws.ID, map[string]interface{}{
		"name": ws.Name,
	})
	return nil
}

func (s *workspaceService) CreateTeam(ctx context.Context, workspaceID string, req dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.WorkspaceRepo.Get(ctx, workspaceID); err != nil {
		return nil, err
	}

	t := &workspace.Team{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM),
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	if err := s.TeamRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return &dto.TeamResponse{Team: t, Members: []*workspace.TeamMember{}}, nil
}

func (s *workspaceService) GetTeam(ctx context.Context, id string) (*dto.TeamResponse, error) {
	t, err := s.TeamRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.TeamMemberRepo.ListByTeam(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TeamResponse{Team: t, Members: members}, nil
}

func (s *workspaceService) ListTeams(ctx context.Context, workspaceID string) ([]*dto.TeamResponse, error) {
	if _, err := s.WorkspaceRepo.Get(ctx, workspaceID); err != nil {
		return nil, err
	}

	teams, err := s.TeamRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return lo.Map(teams, func(t *workspace.Team, _ int) *dto.TeamResponse {
		return &dto.TeamResponse{Team: t}
	}), nil
}

func (s *workspaceService) UpdateTeam(ctx context.Context, id string, req dto.UpdateTeamRequest) (*dto.TeamResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.TeamRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if err := s.TeamRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return &dto.TeamResponse{Team: t}, nil
}

func (s *workspaceService) DeleteTeam(ctx context.Context, id string) error {
	if _, err := s.TeamRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.DB.WithTx(ctx, func(ctx context.Context) error {
		return s.deleteTeam(ctx, id)
	})
}

func (s *workspaceService) deleteTeam(ctx context.Context, id string) error {
	members, err := s.TeamMemberRepo.ListByTeam(ctx, id)
	if err != nil {
		return err
	}
	for _, m := range members {
		if err := s.TeamMemberRepo.Delete(ctx, m.ID); err != nil {
			return err
		}
	}
	return s.TeamRepo.Delete(ctx, id)
}

func (s *workspaceService) AddTeamMember(ctx context.Context, teamID string, req dto.AddTeamMemberRequest) (*workspace.TeamMember, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.TeamRepo.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}

	// the user lookup is tenant scoped, so users of other tenants read as not found
	u, err := s.UserRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.WithError(err).
				WithHint("User is not a member of this organisation").
				WithReportableDetails(map[string]any{"user_id": req.UserID}).
				Mark(ierr.ErrValidation)
		}
		return nil, err
	}

	existing, err := s.TeamMemberRepo.GetByTeamAndUser(ctx, t.ID, u.ID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("user is already a team member").
			WithHint("User is already a member of this team").
			WithReportableDetails(map[string]any{
				"team_id": t.ID,
				"user_id": u.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	member := &workspace.TeamMember{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEAM_MEMBER),
		TeamID:    t.ID,
		UserID:    u.ID,
		Role:      req.Role,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	if err := s.TeamMemberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionTeamMemberAdded, "team", t.ID, map[string]interface{}{
		"user_id": u.ID,
		"role":    member.Role,
	})
	return member, nil
}

func (s *workspaceService) UpdateTeamMember(ctx context.Context, teamID, userID string, req dto.UpdateTeamMemberRequest) (*workspace.TeamMember, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	member, err := s.TeamMemberRepo.GetByTeamAndUser(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	member.Role = req.Role
	if err := s.TeamMemberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *workspaceService) RemoveTeamMember(ctx context.Context, teamID, userID string) error {
	member, err := s.TeamMemberRepo.GetByTeamAndUser(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if err := s.TeamMemberRepo.Delete(ctx, member.ID); err != nil {
		return err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionTeamMemberRemoved, "team", teamID, map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
