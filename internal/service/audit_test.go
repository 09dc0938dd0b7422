package service

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type AuditServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service *auditService
}

func TestAuditService(t *testing.T) {
	suite.Run(t, new(AuditServiceSuite))
}

func (s *AuditServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = newTestParams(&s.BaseServiceTestSuite)
	s.service = NewAuditService(s.params).(*auditService)
}

func (s *AuditServiceSuite) TestRecordPublishesAndWriterPersists() {
	ctx := types.SetClientInfo(s.GetContext(), "203.0.113.7", "socialdesk-test")
	s.service.Record(ctx, types.AuditActionWorkspaceCreated, "workspace", "ws_1", map[string]interface{}{"name": "Brand"})

	msgs := s.GetPubSub().GetMessages(types.TopicAuditLogs)
	s.Require().Len(msgs, 1)
	s.Equal(types.DefaultTenantID, msgs[0].Metadata.Get("tenant_id"))

	// replays are absorbed
	s.NoError(s.service.processMessage(msgs[0]))
	s.NoError(s.service.processMessage(msgs[0]))

	resp, err := s.service.List(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 1)
	entry := resp.Items[0]
	s.Equal(types.AuditActionWorkspaceCreated, entry.Action)
	s.Equal(types.DefaultUserID, entry.UserID)
	s.Equal("203.0.113.7", entry.IPAddress)
	s.Equal("Brand", entry.Metadata["name"])
}

func (s *AuditServiceSuite) TestMalformedMessageIsDropped() {
	s.NoError(s.service.processMessage(message.NewMessage("bad", []byte("{"))))
}

func (s *AuditServiceSuite) TestRecordWithoutPubSub() {
	s.params.PubSub = nil
	NewAuditService(s.params).Record(s.GetContext(), types.AuditActionTenantUpdated, "tenant", types.DefaultTenantID, nil)
	s.Empty(s.GetPubSub().GetMessages(types.TopicAuditLogs))
}

func (s *AuditServiceSuite) TestListIsTenantScoped() {
	s.service.Record(s.GetContext(), types.AuditActionTenantUpdated, "tenant", types.DefaultTenantID, nil)
	s.service.Record(types.SetTenantID(s.GetContext(), "tenant_other"), types.AuditActionTenantUpdated, "tenant", "tenant_other", nil)
	flushAuditLogs(&s.BaseServiceTestSuite, s.params)

	resp, err := s.service.List(s.GetContext(), nil)
	s.NoError(err)
	s.Len(resp.Items, 1)

	all, err := NewAdminService(s.params).ListAuditLogs(s.GetContext(), nil)
	s.NoError(err)
	s.Len(all.Items, 2)
}
