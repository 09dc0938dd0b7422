package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/domain/workspace"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemoryWorkspaceStore implements workspace.Repository
type InMemoryWorkspaceStore struct {
	*InMemoryStore[*workspace.Workspace]
}

func NewInMemoryWorkspaceStore() *InMemoryWorkspaceStore {
	return &InMemoryWorkspaceStore{
		InMemoryStore: NewInMemoryStore[*workspace.Workspace](),
	}
}

func workspaceFilterFn(ctx context.Context, ws *workspace.Workspace, filter interface{}) bool {
	if ws == nil || !CheckTenantFilter(ctx, ws.TenantID) {
		return false
	}

	f, ok := filter.(*types.WorkspaceFilter)
	if !ok {
		return ws.Status == types.StatusPublished
	}
	if !CheckStatusFilter(f.QueryFilter, ws.Status) {
		return false
	}
	if len(f.WorkspaceIDs) > 0 && !lo.Contains(f.WorkspaceIDs, ws.ID) {
		return false
	}
	if f.Slug != "" && ws.Slug != f.Slug {
		return false
	}
	return true
}

func (s *InMemoryWorkspaceStore) Create(ctx context.Context, ws *workspace.Workspace) error {
	return s.InMemoryStore.Create(ctx, ws.ID, ws)
}

func (s *InMemoryWorkspaceStore) Get(ctx context.Context, id string) (*workspace.Workspace, error) {
	ws, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, ws.TenantID) || ws.Status != types.StatusPublished {
		return nil, notFound(id)
	}
	return ws, nil
}

func (s *InMemoryWorkspaceStore) List(ctx context.Context, filter *types.WorkspaceFilter) ([]*workspace.Workspace, error) {
	return s.InMemoryStore.List(ctx, filter, workspaceFilterFn, func(i, j *workspace.Workspace) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
}

func (s *InMemoryWorkspaceStore) Count(ctx context.Context, filter *types.WorkspaceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, workspaceFilterFn)
}

func (s *InMemoryWorkspaceStore) Update(ctx context.Context, ws *workspace.Workspace) error {
	ws.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, ws.ID, ws)
}

func (s *InMemoryWorkspaceStore) Delete(ctx context.Context, id string) error {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ws.Status = types.StatusDeleted
	return nil
}

// InMemoryTeamStore implements workspace.TeamRepository
type InMemoryTeamStore struct {
	*InMemoryStore[*workspace.Team]
}

func NewInMemoryTeamStore() *InMemoryTeamStore {
	return &InMemoryTeamStore{
		InMemoryStore: NewInMemoryStore[*workspace.Team](),
	}
}

func (s *InMemoryTeamStore) Create(ctx context.Context, t *workspace.Team) error {
	return s.InMemoryStore.Create(ctx, t.ID, t)
}

func (s *InMemoryTeamStore) Get(ctx context.Context, id string) (*workspace.Team, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, t.TenantID) || t.Status != types.StatusPublished {
		return nil, notFound(id)
	}
	return t, nil
}

func (s *InMemoryTeamStore) ListByWorkspace(ctx context.Context, workspaceID string) ([]*workspace.Team, error) {
	return s.InMemoryStore.List(ctx, nil, func(ctx context.Context, t *workspace.Team, _ interface{}) bool {
		return CheckTenantFilter(ctx, t.TenantID) && t.WorkspaceID == workspaceID && t.Status == types.StatusPublished
	}, func(i, j *workspace.Team) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
}

func (s *InMemoryTeamStore) Update(ctx context.Context, t *workspace.Team) error {
	t.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, t.ID, t)
}

func (s *InMemoryTeamStore) Delete(ctx context.Context, id string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	t.Status = types.StatusDeleted
	return nil
}

// InMemoryTeamMemberStore implements workspace.TeamMemberRepository. Members are hard deleted.
type InMemoryTeamMemberStore struct {
	*InMemoryStore[*workspace.TeamMember]
}

func NewInMemoryTeamMemberStore() *InMemoryTeamMemberStore {
	return &InMemoryTeamMemberStore{
		InMemoryStore: NewInMemoryStore[*workspace.TeamMember](),
	}
}

func (s *InMemoryTeamMemberStore) Create(ctx context.Context, m *workspace.TeamMember) error {
	if _, err := s.GetByTeamAndUser(ctx, m.TeamID, m.UserID); err == nil {
		return alreadyExists("team member", m.TeamID+":"+m.UserID)
	}
	return s.InMemoryStore.Create(ctx, m.ID, m)
}

func (s *InMemoryTeamMemberStore) Get(ctx context.Context, id string) (*workspace.TeamMember, error) {
	m, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, m.TenantID) {
		return nil, notFound(id)
	}
	return m, nil
}

func (s *InMemoryTeamMemberStore) GetByTeamAndUser(ctx context.Context, teamID, userID string) (*workspace.TeamMember, error) {
	m, ok := s.Find(func(m *workspace.TeamMember) bool {
		return CheckTenantFilter(ctx, m.TenantID) && m.TeamID == teamID && m.UserID == userID
	})
	if !ok {
		return nil, notFound(teamID + ":" + userID)
	}
	return m, nil
}

func (s *InMemoryTeamMemberStore) ListByTeam(ctx context.Context, teamID string) ([]*workspace.TeamMember, error) {
	return s.InMemoryStore.List(ctx, nil, func(ctx context.Context, m *workspace.TeamMember, _ interface{}) bool {
		return CheckTenantFilter(ctx, m.TenantID) && m.TeamID == teamID
	}, func(i, j *workspace.TeamMember) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
}

func (s *InMemoryTeamMemberStore) Update(ctx context.Context, m *workspace.TeamMember) error {
	m.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, m.ID, m)
}

func (s *InMemoryTeamMemberStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func (s *InMemoryTeamMemberStore) DeleteByUser(ctx context.Context, userID string) error {
	members, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, m *workspace.TeamMember, _ interface{}) bool {
		return CheckTenantFilter(ctx, m.TenantID) && m.UserID == userID
	}, nil)
	if err != nil {
		return err
	}
	for _, m := range members {
		if err := s.InMemoryStore.Delete(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}
