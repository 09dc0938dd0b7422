package dto

import (
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/post"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/validator"
)

type CreatePostRequest struct {
	SocialAccountIDs []string   `json:"social_account_ids" binding:"required" validate:"required,min=1"`
	Content          string     `json:"content" validate:"omitempty,max=10000"`
	MediaURLs        []string   `json:"media_urls" validate:"omitempty,dive,url"`
	ScheduledAt      *time.Time `json:"scheduled_at,omitempty"`
}

func (r *CreatePostRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Content == "" && len(r.MediaURLs) == 0 {
		return ierr.NewError("post has no content").
			WithHint("A post needs text or media").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type UpdatePostRequest struct {
	SocialAccountIDs []string `json:"social_account_ids,omitempty" validate:"omitempty,min=1"`
	Content          *string  `json:"content,omitempty" validate:"omitempty,max=10000"`
	MediaURLs        []string `json:"media_urls,omitempty" validate:"omitempty,dive,url"`
}

func (r *UpdatePostRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type SchedulePostRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required" validate:"required"`
}

func (r *SchedulePostRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type PostResponse struct {
	*post.Post
}

type ListPostsResponse = types.ListResponse[*PostResponse]
