package workspace

import (
	"github.com/socialdesk/socialdesk/internal/types"
)

// Workspace isolates social accounts and content inside a tenant
type Workspace struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description"`
	Timezone    string `db:"timezone" json:"timezone"`
	types.BaseModel
}

type Team struct {
	ID          string `db:"id" json:"id"`
	WorkspaceID string `db:"workspace_id" json:"workspace_id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	types.BaseModel
}

// TeamMember links a tenant user to a team; a user appears at most once per team
type TeamMember struct {
	ID     string         `db:"id" json:"id"`
	TeamID string         `db:"team_id" json:"team_id"`
	UserID string         `db:"user_id" json:"user_id"`
	Role   types.TeamRole `db:"role" json:"role"`
	types.BaseModel
}
