package types

import (
	"time"

	"github.com/samber/lo"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// SocialPlatform is a network a social account belongs to
type SocialPlatform string

const (
	SocialPlatformFacebook  SocialPlatform = "facebook"
	SocialPlatformInstagram SocialPlatform = "instagram"
	SocialPlatformTwitter   SocialPlatform = "twitter"
	SocialPlatformLinkedIn  SocialPlatform = "linkedin"
	SocialPlatformTikTok    SocialPlatform = "tiktok"
	SocialPlatformYouTube   SocialPlatform = "youtube"
)

func (p SocialPlatform) Validate() error {
	allowed := []SocialPlatform{
		SocialPlatformFacebook,
		SocialPlatformInstagram,
		SocialPlatformTwitter,
		SocialPlatformLinkedIn,
		SocialPlatformTikTok,
		SocialPlatformYouTube,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid social platform").
			WithHint("Invalid social platform").
			WithReportableDetails(map[string]any{
				"platform":          p,
				"allowed_platforms": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type SocialAccountConnectionStatus string

const (
	SocialAccountConnected    SocialAccountConnectionStatus = "connected"
	SocialAccountExpired      SocialAccountConnectionStatus = "expired"
	SocialAccountDisconnected SocialAccountConnectionStatus = "disconnected"
)

// PostStatus is the publishing state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
	PostStatusCancelled PostStatus = "cancelled"
)

// IsEditable reports whether content and schedule can still change
func (s PostStatus) IsEditable() bool {
	return s == PostStatusDraft || s == PostStatusScheduled
}

type WorkspaceFilter struct {
	*QueryFilter
	WorkspaceIDs []string `json:"workspace_ids,omitempty" form:"workspace_ids"`
	Slug         string   `json:"slug,omitempty" form:"slug"`
}

func NewWorkspaceFilter() *WorkspaceFilter {
	return &WorkspaceFilter{QueryFilter: NewDefaultQueryFilter()}
}

func NewNoLimitWorkspaceFilter() *WorkspaceFilter {
	return &WorkspaceFilter{QueryFilter: NewNoLimitQueryFilter()}
}

func (f *WorkspaceFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

type SocialAccountFilter struct {
	*QueryFilter
	WorkspaceID string           `json:"workspace_id,omitempty" form:"workspace_id"`
	Platforms   []SocialPlatform `json:"platforms,omitempty" form:"platforms"`
}

func NewSocialAccountFilter() *SocialAccountFilter {
	return &SocialAccountFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *SocialAccountFilter) Validate() error {
	if f == nil {
		return nil
	}
	for _, p := range f.Platforms {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return f.QueryFilter.Validate()
}

type PostFilter struct {
	*QueryFilter
	*TimeRangeFilter
	WorkspaceID  string       `json:"workspace_id,omitempty" form:"workspace_id"`
	PostStatuses []PostStatus `json:"post_statuses,omitempty" form:"post_statuses"`
	// ScheduledFrom and ScheduledTo bound scheduled_at, inclusive start and exclusive end
	ScheduledFrom *time.Time `json:"-" form:"-"`
	ScheduledTo   *time.Time `json:"-" form:"-"`
}

func NewPostFilter() *PostFilter {
	return &PostFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *PostFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	return f.TimeRangeFilter.Validate()
}
