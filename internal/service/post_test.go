package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type PostServiceSuite struct {
	testutil.BaseServiceTestSuite
	service   *postService
	workspace string
	account   string
	now       time.Time
}

func TestPostService(t *testing.T) {
	suite.Run(t, new(PostServiceSuite))
}

func (s *PostServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)

	s.now = time.Date(2030, time.March, 10, 9, 0, 0, 0, time.UTC)
	s.service = NewPostService(params).(*postService)
	s.service.now = func() time.Time { return s.now }

	s.SeedTenant()
	s.SeedPlan("free", "0", map[types.PlanLimitKey]int64{
		types.PlanLimitWorkspaces:             1,
		types.PlanLimitSocialAccounts:         1,
		types.PlanLimitScheduledPostsPerMonth: 2,
	})

	ws, err := NewWorkspaceService(params).CreateWorkspace(s.GetContext(), dto.CreateWorkspaceRequest{Name: "Brand"})
	s.Require().NoError(err)
	s.workspace = ws.ID

	account, err := NewSocialAccountService(params).ConnectSocialAccount(s.GetContext(), ws.ID, dto.ConnectSocialAccountRequest{
		Platform:   types.SocialPlatformLinkedIn,
		ExternalID: "urn:li:organization:1",
		Handle:     "acme",
	})
	s.Require().NoError(err)
	s.account = account.ID
}

func (s *PostServiceSuite) march(day int) *time.Time {
	return lo.ToPtr(time.Date(2030, time.March, day, 12, 0, 0, 0, time.UTC))
}

func (s *PostServiceSuite) create(at *time.Time) (*dto.PostResponse, error) {
	return s.service.CreatePost(s.GetContext(), s.workspace, dto.CreatePostRequest{
		SocialAccountIDs: []string{s.account, s.account},
		Content:          "Launch day",
		ScheduledAt:      at,
	})
}

func (s *PostServiceSuite) TestDraftAndScheduled() {
	draft, err := s.create(nil)
	s.Require().NoError(err)
	s.Equal(types.PostStatusDraft, draft.PostStatus)
	s.Len(draft.SocialAccountIDs, 1)

	scheduled, err := s.create(s.march(20))
	s.Require().NoError(err)
	s.Equal(types.PostStatusScheduled, scheduled.PostStatus)
}

func (s *PostServiceSuite) TestRejectsPastAndForeignAccounts() {
	_, err := s.create(lo.ToPtr(s.now.Add(-time.Minute)))
	s.True(ierr.IsValidation(err))

	_, err = s.service.CreatePost(s.GetContext(), s.workspace, dto.CreatePostRequest{
		SocialAccountIDs: []string{"sa_unknown"},
		Content:          "hi",
	})
	s.True(ierr.IsValidation(err))
}

func (s *PostServiceSuite) TestMonthlyQuota() {
	_, err := s.create(s.march(20))
	s.Require().NoError(err)
	second, err := s.create(s.march(21))
	s.Require().NoError(err)

	_, err = s.create(s.march(22))
	s.True(ierr.IsPermissionDenied(err))

	// next month has its own quota
	_, err = s.create(lo.ToPtr(time.Date(2030, time.April, 2, 12, 0, 0, 0, time.UTC)))
	s.NoError(err)

	// moving within the month keeps the slot
	moved, err := s.service.SchedulePost(s.GetContext(), second.ID, dto.SchedulePostRequest{ScheduledAt: *s.march(28)})
	s.NoError(err)
	s.Equal(*s.march(28), *moved.ScheduledAt)

	// a cancelled post frees its slot
	_, err = s.service.CancelPost(s.GetContext(), second.ID)
	s.NoError(err)
	_, err = s.create(s.march(22))
	s.NoError(err)
}

func (s *PostServiceSuite) TestCancelledPostIsFrozen() {
	p, err := s.create(nil)
	s.Require().NoError(err)

	_, err = s.service.CancelPost(s.GetContext(), p.ID)
	s.Require().NoError(err)

	_, err = s.service.UpdatePost(s.GetContext(), p.ID, dto.UpdatePostRequest{Content: lo.ToPtr("edited")})
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PostServiceSuite) TestUpdateRequiresContent() {
	p, err := s.create(nil)
	s.Require().NoError(err)

	_, err = s.service.UpdatePost(s.GetContext(), p.ID, dto.UpdatePostRequest{Content: lo.ToPtr("")})
	s.True(ierr.IsValidation(err))

	updated, err := s.service.UpdatePost(s.GetContext(), p.ID, dto.UpdatePostRequest{Content: lo.ToPtr("Launch week")})
	s.NoError(err)
	s.Equal("Launch week", updated.Content)
}
