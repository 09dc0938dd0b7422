package types

import (
	"github.com/samber/lo"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// TenantStatus is the commercial state of a tenant, independent of the row status
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// UserRole is the role of a user inside its tenant
type UserRole string

const (
	UserRoleOwner  UserRole = "owner"
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

func (r UserRole) Validate() error {
	allowed := []UserRole{UserRoleOwner, UserRoleAdmin, UserRoleMember}
	if !lo.Contains(allowed, r) {
		return ierr.NewError("invalid user role").
			WithHint("Invalid user role").
			WithReportableDetails(map[string]any{
				"role":          r,
				"allowed_roles": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CanManage reports whether the role may manage tenant level settings like billing
func (r UserRole) CanManage() bool {
	return r == UserRoleOwner || r == UserRoleAdmin
}

// TeamRole is the role of a member inside a team
type TeamRole string

const (
	TeamRoleManager TeamRole = "manager"
	TeamRoleEditor  TeamRole = "editor"
	TeamRoleViewer  TeamRole = "viewer"
)

func (r TeamRole) Validate() error {
	allowed := []TeamRole{TeamRoleManager, TeamRoleEditor, TeamRoleViewer}
	if !lo.Contains(allowed, r) {
		return ierr.NewError("invalid team role").
			WithHint("Invalid team role").
			WithReportableDetails(map[string]any{
				"role":          r,
				"allowed_roles": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type TenantFilter struct {
	*QueryFilter
	TenantStatus *TenantStatus `json:"tenant_status,omitempty" form:"tenant_status"`
	Search       string        `json:"search,omitempty" form:"search"`
	// GatewayCustomerID resolves the tenant behind a gateway webhook
	GatewayCustomerID string `json:"-" form:"-"`
}

func NewTenantFilter() *TenantFilter {
	return &TenantFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *TenantFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

type UserFilter struct {
	*QueryFilter
	UserIDs []string `json:"user_ids,omitempty" form:"user_ids"`
	Email   string   `json:"email,omitempty" form:"email"`
}

func NewUserFilter() *UserFilter {
	return &UserFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *UserFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}
