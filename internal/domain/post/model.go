package post

import (
	"time"

	"github.com/socialdesk/socialdesk/internal/types"
)

type Post struct {
	ID               string           `db:"id" json:"id"`
	WorkspaceID      string           `db:"workspace_id" json:"workspace_id"`
	SocialAccountIDs types.StringList `db:"social_account_ids" json:"social_account_ids"`
	Content          string           `db:"content" json:"content"`
	MediaURLs        types.StringList `db:"media_urls" json:"media_urls"`
	PostStatus       types.PostStatus `db:"post_status" json:"post_status"`
	ScheduledAt      *time.Time       `db:"scheduled_at" json:"scheduled_at,omitempty"`
	PublishedAt      *time.Time       `db:"published_at" json:"published_at,omitempty"`
	types.BaseModel
}
