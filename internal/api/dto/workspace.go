package dto

import (
	"github.com/socialdesk/socialdesk/internal/domain/workspace"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/validator"
)

type CreateWorkspaceRequest struct {
	Name        string `json:"name" binding:"required" validate:"required,min=1,max=255"`
	Slug        string `json:"slug" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Timezone    string `json:"timezone" validate:"omitempty,timezone"`
}

func (r *CreateWorkspaceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type UpdateWorkspaceRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Timezone    *string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

func (r *UpdateWorkspaceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type WorkspaceResponse struct {
	*workspace.Workspace
}

type ListWorkspacesResponse = types.ListResponse[*WorkspaceResponse]

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

func (r *CreateTeamRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type UpdateTeamRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

func (r *UpdateTeamRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type TeamResponse struct {
	*workspace.Team
	Members []*workspace.TeamMember `json:"members,omitempty"`
}

type AddTeamMemberRequest struct {
	UserID string         `json:"user_id" binding:"required" validate:"required"`
	Role   types.TeamRole `json:"role" validate:"omitempty"`
}

func (r *AddTeamMemberRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Role == "" {
		r.Role = types.TeamRoleEditor
	}
	return r.Role.Validate()
}

type UpdateTeamMemberRequest struct {
	Role types.TeamRole `json:"role" binding:"required" validate:"required"`
}

func (r *UpdateTeamMemberRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Role.Validate()
}
