package socialaccount

import (
	"github.com/socialdesk/socialdesk/internal/types"
)

// SocialAccount is a connected profile on a social network
type SocialAccount struct {
	ID               string                              `db:"id" json:"id"`
	WorkspaceID      string                              `db:"workspace_id" json:"workspace_id"`
	Platform         types.SocialPlatform                `db:"platform" json:"platform"`
	ExternalID       string                              `db:"external_id" json:"external_id"`
	Handle           string                              `db:"handle" json:"handle"`
	DisplayName      string                              `db:"display_name" json:"display_name"`
	ConnectionStatus types.SocialAccountConnectionStatus `db:"connection_status" json:"connection_status"`
	types.BaseModel
}
