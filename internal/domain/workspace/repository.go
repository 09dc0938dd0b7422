package workspace

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, workspace *Workspace) error
	Get(ctx context.Context, id string) (*Workspace, error)
	List(ctx context.Context, filter *types.WorkspaceFilter) ([]*Workspace, error)
	Count(ctx context.Context, filter *types.WorkspaceFilter) (int, error)
	Update(ctx context.Context, workspace *Workspace) error
	Delete(ctx context.Context, id string) error
}

type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	Get(ctx context.Context, id string) (*Team, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*Team, error)
	Update(ctx context.Context, team *Team) error
	Delete(ctx context.Context, id string) error
}

type TeamMemberRepository interface {
	Create(ctx context.Context, member *TeamMember) error
	Get(ctx context.Context, id string) (*TeamMember, error)
	// GetByTeamAndUser returns a not found error when the user is not in the team
	GetByTeamAndUser(ctx context.Context, teamID, userID string) (*TeamMember, error)
	ListByTeam(ctx context.Context, teamID string) ([]*TeamMember, error)
	Update(ctx context.Context, member *TeamMember) error
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes a user from every team of the tenant
	DeleteByUser(ctx context.Context, userID string) error
}
