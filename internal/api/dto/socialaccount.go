package dto

import (
	"github.com/socialdesk/socialdesk/internal/domain/socialaccount"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/validator"
)

type ConnectSocialAccountRequest struct {
	Platform    types.SocialPlatform `json:"platform" binding:"required" validate:"required"`
	ExternalID  string               `json:"external_id" binding:"required" validate:"required,max=255"`
	Handle      string               `json:"handle" binding:"required" validate:"required,max=255"`
	DisplayName string               `json:"display_name" validate:"omitempty,max=255"`
}

func (r *ConnectSocialAccountRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Platform.Validate()
}

type SocialAccountResponse struct {
	*socialaccount.SocialAccount
}

type ListSocialAccountsResponse = types.ListResponse[*SocialAccountResponse]
