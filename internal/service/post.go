package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/post"
	"github.com/socialdesk/socialdesk/internal/domain/socialaccount"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
)

type PostService interface {
	// CreatePost stores a draft, or a scheduled post when ScheduledAt is set
	CreatePost(ctx context.Context, workspaceID string, req dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPost(ctx context.Context, id string) (*dto.PostResponse, error)
	ListPosts(ctx context.Context, filter *types.PostFilter) (*dto.ListPostsResponse, error)
	UpdatePost(ctx context.Context, id string, req dto.UpdatePostRequest) (*dto.PostResponse, error)
	// SchedulePost counts against scheduled_posts_per_month for the month of the schedule
	SchedulePost(ctx context.Context, id string, req dto.SchedulePostRequest) (*dto.PostResponse, error)
	CancelPost(ctx context.Context, id string) (*dto.PostResponse, error)
}

type postService struct {
	ServiceParams
	now func() time.Time
}

func NewPostService(params ServiceParams) PostService {
	return &postService{
		ServiceParams: params,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *postService) CreatePost(ctx context.Context, workspaceID string, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.WorkspaceRepo.Get(ctx, workspaceID); err != nil {
		return nil, err
	}
	accountIDs := lo.Uniq(req.SocialAccountIDs)
	if err := s.validateAccounts(ctx, workspaceID, accountIDs); err != nil {
		return nil, err
	}

	p := &post.Post{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_POST),
		WorkspaceID:      workspaceID,
		SocialAccountIDs: accountIDs,
		Content:          req.Content,
		MediaURLs:        req.MediaURLs,
		PostStatus:       types.PostStatusDraft,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	if p.MediaURLs == nil {
		p.MediaURLs = types.StringList{}
	}

	if req.ScheduledAt != nil {
		if err := s.checkSchedule(ctx, *req.ScheduledAt); err != nil {
			return nil, err
		}
		p.ScheduledAt = lo.ToPtr(req.ScheduledAt.UTC())
		p.PostStatus = types.PostStatusScheduled
	}

	if err := s.PostRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return &dto.PostResponse{Post: p}, nil
}

// validateAccounts requires every id to be a connected account of the workspace
func (s *postService) validateAccounts(ctx context.Context, workspaceID string, ids []string) error {
	for _, id := range ids {
		account, err := s.SocialAccountRepo.Get(ctx, id)
		if err != nil {
			if ierr.IsNotFound(err) {
				return ierr.WithError(err).
					WithHintf("Social account %s not found", id).
					Mark(ierr.ErrValidation)
			}
			return err
		}
		if !isUsableAccount(account, workspaceID) {
			return ierr.NewError("social account not usable").
				WithHint("Social account is not connected to this workspace").
				WithReportableDetails(map[string]any{
					"social_account_id": id,
					"workspace_id":      workspaceID,
					"connection_status": account.ConnectionStatus,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

func isUsableAccount(a *socialaccount.SocialAccount, workspaceID string) bool {
	return a.WorkspaceID == workspaceID && a.ConnectionStatus == types.SocialAccountConnected
}

func (s *postService) checkSchedule(ctx context.Context, at time.Time) error {
	if !at.After(s.now()) {
		return ierr.NewError("scheduled time is in the past").
			WithHint("Schedule the post for a future time").
			WithReportableDetails(map[string]any{"scheduled_at": at}).
			Mark(ierr.ErrValidation)
	}
	return NewUsageService(s.ServiceParams).CheckLimitAt(ctx, types.PlanLimitScheduledPostsPerMonth, 1, at)
}

func (s *postService) GetPost(ctx context.Context, id string) (*dto.PostResponse, error) {
	p, err := s.PostRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PostResponse{Post: p}, nil
}

func (s *postService) ListPosts(ctx context.Context, filter *types.PostFilter) (*dto.ListPostsResponse, error) {
	if filter == nil {
		filter = types.NewPostFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	items, err := s.PostRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.PostRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := types.NewListResponse(lo.Map(items, func(p *post.Post, _ int) *dto.PostResponse {
		return &dto.PostResponse{Post: p}
	}), count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *postService) UpdatePost(ctx context.Context, id string, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.editablePost(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SocialAccountIDs != nil {
		ids := lo.Uniq(req.SocialAccountIDs)
		if err := s.validateAccounts(ctx, p.WorkspaceID, ids); err != nil {
			return nil, err
		}
		p.SocialAccountIDs = ids
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.MediaURLs != nil {
		p.MediaURLs = req.MediaURLs
	}
	if p.Content == "" && len(p.MediaURLs) == 0 {
		return nil, ierr.NewError("post has no content").
			WithHint("A post needs text or media").
			Mark(ierr.ErrValidation)
	}

	if err := s.PostRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return &dto.PostResponse{Post: p}, nil
}

func (s *postService) SchedulePost(ctx context.Context, id string, req dto.SchedulePostRequest) (*dto.PostResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.editablePost(ctx, id)
	if err != nil {
		return nil, err
	}

	at := req.ScheduledAt.UTC()
	// a reschedule within the same month keeps its existing slot
	sameMonth := p.PostStatus == types.PostStatusScheduled && p.ScheduledAt != nil &&
		sameUTCMonth(*p.ScheduledAt, at)
	if sameMonth {
		if !at.After(s.now()) {
			return nil, ierr.NewError("scheduled time is in the past").
				WithHint("Schedule the post for a future time").
				WithReportableDetails(map[string]any{"scheduled_at": at}).
				Mark(ierr.ErrValidation)
		}
	} else if err := s.checkSchedule(ctx, at); err != nil {
		return nil, err
	}

	p.ScheduledAt = &at
	p.PostStatus = types.PostStatusScheduled
	if err := s.PostRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return &dto.PostResponse{Post: p}, nil
}

func (s *postService) CancelPost(ctx context.Context, id string) (*dto.PostResponse, error) {
	p, err := s.editablePost(ctx, id)
	if err != nil {
		return nil, err
	}

	p.PostStatus = types.PostStatusCancelled
	if err := s.PostRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return &dto.PostResponse{Post: p}, nil
}

func (s *postService) editablePost(ctx context.Context, id string) (*post.Post, error) {
	p, err := s.PostRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.PostStatus.IsEditable() {
		return nil, ierr.NewErrorf("post is %s", p.PostStatus).
			WithHintf("A %s post can no longer be changed", p.PostStatus).
			WithReportableDetails(map[string]any{
				"post_id":     p.ID,
				"post_status": p.PostStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return p, nil
}

func sameUTCMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}
