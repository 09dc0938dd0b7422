package dto

import (
	"github.com/socialdesk/socialdesk/internal/domain/user"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/validator"
)

type UserResponse struct {
	*user.User
}

func NewUserResponse(u *user.User) *UserResponse {
	return &UserResponse{User: u}
}

type ListUsersResponse = types.ListResponse[*UserResponse]

// MeResponse is the signed in user together with the tenant
type MeResponse struct {
	User   *UserResponse   `json:"user"`
	Tenant *TenantResponse `json:"tenant"`
}

type InviteUserRequest struct {
	Email string         `json:"email" binding:"required,email" validate:"required,email"`
	Name  string         `json:"name" validate:"omitempty,max=255"`
	Role  types.UserRole `json:"role" validate:"omitempty"`
	// Password is the initial password; the invitee is expected to change it
	Password string `json:"password" validate:"omitempty,min=8"`
}

func (r *InviteUserRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Role == "" {
		r.Role = types.UserRoleMember
	}
	return r.Role.Validate()
}

type UpdateUserRoleRequest struct {
	Role types.UserRole `json:"role" binding:"required" validate:"required"`
}

func (r *UpdateUserRoleRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Role.Validate()
}
