package dto

import (
	"github.com/socialdesk/socialdesk/internal/domain/tenant"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/validator"
)

type TenantResponse struct {
	*tenant.Tenant
}

type ListTenantsResponse = types.ListResponse[*TenantResponse]

// NewTenantResponse converts a Tenant domain object into a TenantResponse DTO.
func NewTenantResponse(t *tenant.Tenant) *TenantResponse {
	return &TenantResponse{Tenant: t}
}

// UpdateTenantRequest updates the tenant's name and billing details; nil fields are left as is
type UpdateTenantRequest struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	BillingEmail   *string  `json:"billing_email,omitempty" validate:"omitempty,email"`
	BillingAddress *Address `json:"billing_address,omitempty"`
	Country        *string  `json:"country,omitempty" validate:"omitempty,len=2"`
}

func (r *UpdateTenantRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *UpdateTenantRequest) Apply(t *tenant.Tenant) {
	if r.Name != nil {
		t.Name = *r.Name
	}
	if r.BillingEmail != nil {
		t.BillingEmail = *r.BillingEmail
	}
	if r.Country != nil {
		t.Country = *r.Country
	}
	if r.BillingAddress != nil {
		t.BillingAddress = tenant.BillingAddress{
			Line1:      r.BillingAddress.Line1,
			Line2:      r.BillingAddress.Line2,
			City:       r.BillingAddress.City,
			State:      r.BillingAddress.State,
			PostalCode: r.BillingAddress.PostalCode,
			TaxID:      r.BillingAddress.TaxID,
		}
	}
}

type SuspendTenantRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}
