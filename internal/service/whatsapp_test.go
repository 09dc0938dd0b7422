package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/socialdesk/socialdesk/internal/api/dto"
	domainWhatsApp "github.com/socialdesk/socialdesk/internal/domain/whatsapp"
	"github.com/socialdesk/socialdesk/internal/domain/workspace"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/whatsapp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testPhoneNumberID = "106540352242922"

type WhatsAppServiceSuite struct {
	testutil.BaseServiceTestSuite
	client  *testutil.MockWhatsAppClient
	service WhatsAppService
	ws      *workspace.Workspace
	number  *domainWhatsApp.PhoneNumber
}

func TestWhatsAppService(t *testing.T) {
	suite.Run(t, new(WhatsAppServiceSuite))
}

func (s *WhatsAppServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.client = testutil.NewMockWhatsAppClient()

	params := newTestParams(&s.BaseServiceTestSuite)
	params.WhatsAppClient = s.client
	s.service = NewWhatsAppService(params)

	s.SeedTenant()
	s.SeedPlan("free", "0", map[types.PlanLimitKey]int64{
		types.PlanLimitWhatsAppNumbers:          1,
		types.PlanLimitWhatsAppMessagesPerMonth: 2,
	})

	ctx := s.GetContext()
	s.ws = &workspace.Workspace{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WORKSPACE),
		Name:      "Support",
		Slug:      "support",
		Timezone:  "UTC",
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.GetStores().WorkspaceRepo.Create(ctx, s.ws))

	resp, err := s.service.RegisterPhoneNumber(ctx, dto.RegisterPhoneNumberRequest{
		WorkspaceID:        s.ws.ID,
		PhoneNumberID:      testPhoneNumberID,
		DisplayPhoneNumber: "15550001111",
		BusinessAccountID:  "waba_1",
		AccessToken:        "token",
	})
	s.Require().NoError(err)
	s.number = resp.PhoneNumber
}

func (s *WhatsAppServiceSuite) inbound(waMessageID, text string) *whatsapp.WebhookPayload {
	value := whatsapp.WebhookValue{
		MessagingProduct: "whatsapp",
		Metadata:         whatsapp.WebhookMetadata{PhoneNumberID: testPhoneNumberID},
		Messages: []whatsapp.InboundMessage{{
			ID:        waMessageID,
			From:      "919800000001",
			Timestamp: strconv.FormatInt(s.GetNow().Unix(), 10),
			Type:      "text",
			Text:      &whatsapp.InboundText{Body: text},
		}},
	}
	return &whatsapp.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry:  []whatsapp.WebhookEntry{{Changes: []whatsapp.WebhookChange{{Field: "messages", Value: value}}}},
	}
}

func (s *WhatsAppServiceSuite) statuses(waMessageID string, statuses ...string) *whatsapp.WebhookPayload {
	value := whatsapp.WebhookValue{Metadata: whatsapp.WebhookMetadata{PhoneNumberID: testPhoneNumberID}}
	for i, st := range statuses {
		value.Statuses = append(value.Statuses, whatsapp.MessageStatus{
			ID:        waMessageID,
			Status:    st,
			Timestamp: strconv.FormatInt(s.GetNow().Add(time.Duration(i)*time.Second).Unix(), 10),
		})
	}
	return &whatsapp.WebhookPayload{
		Entry: []whatsapp.WebhookEntry{{Changes: []whatsapp.WebhookChange{{Field: "messages", Value: value}}}},
	}
}

func (s *WhatsAppServiceSuite) send(waMessageID string) *dto.WhatsAppMessageResponse {
	s.client.On("SendText", mock.Anything, mock.Anything, "919800000001", "hello").
		Return(testutil.SentMessage(waMessageID), nil).Once()

	resp, err := s.service.SendMessage(s.GetContext(), s.number.ID, dto.SendWhatsAppMessageRequest{
		To:   "919800000001",
		Type: types.WhatsAppMessageTypeText,
		Text: "hello",
	})
	s.Require().NoError(err)
	return resp
}

func (s *WhatsAppServiceSuite) TestRegisterRespectsNumberLimit() {
	_, err := s.service.RegisterPhoneNumber(s.GetContext(), dto.RegisterPhoneNumberRequest{
		WorkspaceID:       s.ws.ID,
		PhoneNumberID:     "999",
		BusinessAccountID: "waba_1",
		AccessToken:       "token",
	})
	s.True(ierr.IsPermissionDenied(err))
}

func (s *WhatsAppServiceSuite) TestSendMessageStoresOutbound() {
	resp := s.send("wamid.out1")
	s.Equal(types.WhatsAppMessageOutbound, resp.Direction)
	s.Equal(types.WhatsAppMessageStatusSent, resp.MessageStatus)
	s.Equal(testPhoneNumberID, resp.PhoneNumberID)
	s.NotNil(resp.SentAt)
	s.client.AssertExpectations(s.T())
}

func (s *WhatsAppServiceSuite) TestSendMessageMonthlyLimit() {
	s.send("wamid.out1")
	s.send("wamid.out2")

	_, err := s.service.SendMessage(s.GetContext(), s.number.ID, dto.SendWhatsAppMessageRequest{
		To:   "919800000001",
		Type: types.WhatsAppMessageTypeText,
		Text: "hello",
	})
	s.True(ierr.IsPermissionDenied(err))
	s.client.AssertNumberOfCalls(s.T(), "SendText", 2)
}

func (s *WhatsAppServiceSuite) TestInboundWebhookIsIdempotent() {
	// webhooks carry no tenant, the phone number resolves it
	ctx := context.Background()
	payload := s.inbound("wamid.in1", "is this open on sunday?")

	s.NoError(s.service.HandleWebhook(ctx, payload))
	s.NoError(s.service.HandleWebhook(ctx, payload))

	resp, err := s.service.GetConversation(s.GetContext(), s.number.ID, "919800000001", nil)
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal("is this open on sunday?", resp.Items[0].Body)
	s.Equal(types.WhatsAppMessageInbound, resp.Items[0].Direction)
	s.Equal(types.DefaultTenantID, resp.Items[0].TenantID)
	s.Len(s.GetPublisher().GetEvents(), 1)
	s.True(s.GetPublisher().HasEvent(types.SystemEventWhatsAppMessageReceived))
}

func (s *WhatsAppServiceSuite) TestUnknownNumberIsSkipped() {
	payload := s.inbound("wamid.in2", "hi")
	payload.Entry[0].Changes[0].Value.Metadata.PhoneNumberID = "unknown"

	s.NoError(s.service.HandleWebhook(context.Background(), payload))
	s.Empty(s.GetPublisher().GetEvents())
}

func (s *WhatsAppServiceSuite) TestStatusesNeverMoveBackwards() {
	s.send("wamid.out1")

	s.NoError(s.service.HandleWebhook(context.Background(), s.statuses("wamid.out1", "read", "delivered", "sent")))

	msg, err := s.GetStores().WAMessageRepo.GetByWAMessageID(s.GetContext(), "wamid.out1")
	s.Require().NoError(err)
	s.Equal(types.WhatsAppMessageStatusRead, msg.MessageStatus)
	s.NotNil(msg.ReadAt)
	s.Nil(msg.DeliveredAt)
}

func (s *WhatsAppServiceSuite) TestStatusForUnknownMessage() {
	s.NoError(s.service.HandleWebhook(context.Background(), s.statuses("wamid.missing", "delivered")))
}

func (s *WhatsAppServiceSuite) TestVerifyWebhookSubscription() {
	challenge, err := s.service.VerifyWebhookSubscription("subscribe", "test-verify-token", "1158201444")
	s.NoError(err)
	s.Equal("1158201444", challenge)

	_, err = s.service.VerifyWebhookSubscription("subscribe", "wrong", "1158201444")
	s.True(ierr.IsPermissionDenied(err))

	_, err = s.service.VerifyWebhookSubscription("unsubscribe", "test-verify-token", "1158201444")
	s.True(ierr.IsPermissionDenied(err))
}

func (s *WhatsAppServiceSuite) TestSyncTemplatesRemovesStale() {
	ctx := s.GetContext()
	stale := &domainWhatsApp.Template{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WHATSAPP_TEMPLATE),
		PhoneNumberID: testPhoneNumberID,
		Name:          "spring_sale",
		Language:      "en_US",
		Components:    types.RawJSON("[]"),
		SyncedAt:      s.GetNow().Add(-24 * time.Hour),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.GetStores().WATemplateRepo.Upsert(ctx, stale))

	s.client.On("ListTemplates", mock.Anything, mock.Anything).Return([]*whatsapp.TemplateInfo{
		{ID: "t1", Name: "order_update", Language: "en_US", Status: "APPROVED", Category: "UTILITY"},
		{ID: "t2", Name: "welcome", Language: "en_US", Status: "APPROVED", Category: "MARKETING"},
	}, nil)

	resp, err := s.service.SyncTemplates(ctx, s.number.ID)
	s.Require().NoError(err)
	s.Equal(2, resp.Synced)
	s.Equal(int64(1), resp.Removed)

	list, err := s.service.ListTemplates(ctx, s.number.ID, nil)
	s.Require().NoError(err)
	s.Len(list.Items, 2)
}

func (s *WhatsAppServiceSuite) TestAccessTokenIsSealedAtRest() {
	stored, err := s.GetStores().PhoneNumberRepo.Get(s.GetContext(), s.number.ID)
	s.Require().NoError(err)
	s.NotEmpty(stored.AccessToken)
	s.NotEqual("token", stored.AccessToken)

	s.client.On("SendText", mock.Anything, mock.MatchedBy(func(creds whatsapp.Credentials) bool {
		return creds.AccessToken == "token" && creds.PhoneNumberID == testPhoneNumberID
	}), "919800000001", "hello").Return(testutil.SentMessage("wamid.sealed"), nil).Once()

	_, err = s.service.SendMessage(s.GetContext(), s.number.ID, dto.SendWhatsAppMessageRequest{
		To:   "919800000001",
		Type: types.WhatsAppMessageTypeText,
		Text: "hello",
	})
	s.Require().NoError(err)
	s.client.AssertExpectations(s.T())
}
