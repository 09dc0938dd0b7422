package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	domainWhatsApp "github.com/socialdesk/socialdesk/internal/domain/whatsapp"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/whatsapp"
)

type WhatsAppService interface {
	RegisterPhoneNumber(ctx context.Context, req dto.RegisterPhoneNumberRequest) (*dto.PhoneNumberResponse, error)
	ListPhoneNumbers(ctx context.Context, workspaceID string) ([]*dto.PhoneNumberResponse, error)
	RemovePhoneNumber(ctx context.Context, id string) error

	SendMessage(ctx context.Context, numberID string, req dto.SendWhatsAppMessageRequest) (*dto.WhatsAppMessageResponse, error)
	UploadMedia(ctx context.Context, numberID string, data []byte, filename string) (*dto.UploadMediaResponse, error)
	// ListMessages is the inbox of a number, newest first
	ListMessages(ctx context.Context, numberID string, filter *types.WhatsAppMessageFilter) (*dto.ListWhatsAppMessagesResponse, error)
	// GetConversation returns the exchange with one contact, oldest first
	GetConversation(ctx context.Context, numberID, contact string, filter *types.WhatsAppMessageFilter) (*dto.ListWhatsAppMessagesResponse, error)
	MarkRead(ctx context.Context, numberID, waMessageID string) error

	SyncTemplates(ctx context.Context, numberID string) (*dto.SyncTemplatesResponse, error)
	ListTemplates(ctx context.Context, numberID string, filter *types.WhatsAppTemplateFilter) (*dto.ListWhatsAppTemplatesResponse, error)

	// VerifyWebhookSubscription returns the challenge to echo when token matches the configured verify token
	VerifyWebhookSubscription(mode, token, challenge string) (string, error)
	// HandleWebhook ingests a verified webhook body
	HandleWebhook(ctx context.Context, payload *whatsapp.WebhookPayload) error
}

type whatsAppService struct {
	ServiceParams
}

func NewWhatsAppService(params ServiceParams) WhatsAppService {
	return &whatsAppService{ServiceParams: params}
}

// credentials opens the stored access token of number for a Graph API call
func (s *whatsAppService) credentials(number *domainWhatsApp.PhoneNumber) (whatsapp.Credentials, error) {
	token, err := s.Encryption.Decrypt(number.AccessToken)
	if err != nil {
		return whatsapp.Credentials{}, err
	}
	return whatsapp.Credentials{
		PhoneNumberID:     number.PhoneNumberID,
		BusinessAccountID: number.BusinessAccountID,
		AccessToken:       token,
	}, nil
}

func (s *whatsAppService) RegisterPhoneNumber(ctx context.Context, req dto.RegisterPhoneNumberRequest) (*dto.PhoneNumberResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.WorkspaceRepo.Get(ctx, req.WorkspaceID); err != nil {
		return nil, err
	}

	if err := NewUsageService(s.ServiceParams).CheckLimit(ctx, types.PlanLimitWhatsAppNumbers, 1); err != nil {
		return nil, err
	}

	sealed, err := s.Encryption.Encrypt(req.AccessToken)
	if err != nil {
		return nil, err
	}

	number := &domainWhatsApp.PhoneNumber{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WHATSAPP_PHONE_NUMBER),
		WorkspaceID:        req.WorkspaceID,
		PhoneNumberID:      req.PhoneNumberID,
		DisplayPhoneNumber: req.DisplayPhoneNumber,
		BusinessAccountID:  req.BusinessAccountID,
		AccessToken:        sealed,
		VerifiedName:       req.VerifiedName,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}

	if err := s.PhoneNumberRepo.Create(ctx, number); err != nil {
		return nil, err
	}

	s.Logger.Infow("whatsapp number registered",
		"tenant_id", number.TenantID,
		"workspace_id", number.WorkspaceID,
		"phone_number_id", number.PhoneNumberID,
	)
	return &dto.PhoneNumberResponse{PhoneNumber: number}, nil
}

func (s *whatsAppService) ListPhoneNumbers(ctx context.Context, workspaceID string) ([]*dto.PhoneNumberResponse, error) {
	filter := types.NewWhatsAppPhoneNumberFilter()
	filter.WorkspaceID = workspaceID

	numbers, err := s.PhoneNumberRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return lo.Map(numbers, func(n *domainWhatsApp.PhoneNumber, _ int) *dto.PhoneNumberResponse {
		return &dto.PhoneNumberResponse{PhoneNumber: n}
	}), nil
}

func (s *whatsAppService) RemovePhoneNumber(ctx context.Context, id string) error {
	if _, err := s.PhoneNumberRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.PhoneNumberRepo.Delete(ctx, id)
}

func (s *whatsAppService) SendMessage(ctx context.Context, numberID string, req dto.SendWhatsAppMessageRequest) (*dto.WhatsAppMessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	number, err := s.PhoneNumberRepo.Get(ctx, numberID)
	if err != nil {
		return nil, err
	}

	if err := NewUsageService(s.ServiceParams).CheckLimit(ctx, types.PlanLimitWhatsAppMessagesPerMonth, 1); err != nil {
		return nil, err
	}

	creds, err := s.credentials(number)
	if err != nil {
		return nil, err
	}
	var (
		resp *whatsapp.SendMessageResponse
		body string
	)
	switch {
	case req.Type == types.WhatsAppMessageTypeText:
		body = req.Text
		resp, err = s.WhatsAppClient.SendText(ctx, creds, req.To, req.Text)
	case req.Type == types.WhatsAppMessageTypeTemplate:
		body = req.Template
		resp, err = s.WhatsAppClient.SendTemplate(ctx, creds, req.To, req.Template, req.Language, req.Components)
	case req.Type.IsMedia():
		body = req.Caption
		resp, err = s.WhatsAppClient.SendMedia(ctx, creds, req.To, req.Type, req.MediaID, req.Caption)
	}
	if err != nil {
		s.Logger.Warnw("whatsapp send failed",
			"error", err,
			"phone_number_id", number.PhoneNumberID,
			"message_type", req.Type,
		)
		return nil, err
	}

	now := time.Now().UTC()
	msg := &domainWhatsApp.Message{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WHATSAPP_MESSAGE),
		PhoneNumberID: number.PhoneNumberID,
		WAMessageID:   resp.MessageID(),
		Direction:     types.WhatsAppMessageOutbound,
		From:          number.DisplayPhoneNumber,
		To:            req.To,
		MessageType:   req.Type,
		Body:          body,
		MediaID:       req.MediaID,
		MessageStatus: types.WhatsAppMessageStatusSent,
		SentAt:        &now,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	if raw, err := json.Marshal(resp); err == nil {
		msg.RawPayload = raw
	}

	// the message has left already, a failed insert only loses the inbox row
	if err := s.WAMessageRepo.Create(ctx, msg); err != nil {
		s.Logger.Errorw("failed to store outbound whatsapp message",
			"error", err,
			"wa_message_id", msg.WAMessageID,
			"tenant_id", msg.TenantID,
		)
		return nil, err
	}

	return &dto.WhatsAppMessageResponse{Message: msg}, nil
}

func (s *whatsAppService) UploadMedia(ctx context.Context, numberID string, data []byte, filename string) (*dto.UploadMediaResponse, error) {
	if len(data) == 0 {
		return nil, ierr.NewError("media file is empty").
			WithHint("Upload a non empty file").
			Mark(ierr.ErrValidation)
	}

	number, err := s.PhoneNumberRepo.Get(ctx, numberID)
	if err != nil {
		return nil, err
	}

	creds, err := s.credentials(number)
	if err != nil {
		return nil, err
	}
	resp, err := s.WhatsAppClient.UploadMedia(ctx, creds, data, filename)
	if err != nil {
		return nil, err
	}
	return &dto.UploadMediaResponse{MediaID: resp.ID, MimeType: resp.MimeType}, nil
}

func (s *whatsAppService) ListMessages(ctx context.Context, numberID string, filter *types.WhatsAppMessageFilter) (*dto.ListWhatsAppMessagesResponse, error) {
	number, err := s.PhoneNumberRepo.Get(ctx, numberID)
	if err != nil {
		return nil, err
	}

	if filter == nil {
		filter = types.NewWhatsAppMessageFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	filter.PhoneNumberID = number.PhoneNumberID
	filter.AllTenants = false
	return s.listMessages(ctx, filter)
}

func (s *whatsAppService) GetConversation(ctx context.Context, numberID, contact string, filter *types.WhatsAppMessageFilter) (*dto.ListWhatsAppMessagesResponse, error) {
	if contact == "" {
		return nil, ierr.NewError("contact is required").
			WithHint("Contact number is required").
			Mark(ierr.ErrValidation)
	}

	number, err := s.PhoneNumberRepo.Get(ctx, numberID)
	if err != nil {
		return nil, err
	}

	if filter == nil {
		filter = types.NewWhatsAppMessageFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	filter.PhoneNumberID = number.PhoneNumberID
	filter.Contact = contact
	filter.AllTenants = false
	filter.Order = lo.ToPtr(types.OrderAsc)
	return s.listMessages(ctx, filter)
}

func (s *whatsAppService) listMessages(ctx context.Context, filter *types.WhatsAppMessageFilter) (*dto.ListWhatsAppMessagesResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	messages, err := s.WAMessageRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.WAMessageRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.WhatsAppMessageResponse, len(messages))
	for i, m := range messages {
		items[i] = &dto.WhatsAppMessageResponse{Message: m}
	}
	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *whatsAppService) MarkRead(ctx context.Context, numberID, waMessageID string) error {
	number, err := s.PhoneNumberRepo.Get(ctx, numberID)
	if err != nil {
		return err
	}

	msg, err := s.WAMessageRepo.GetByWAMessageID(ctx, waMessageID)
	if err != nil {
		return err
	}
	if msg.TenantID != number.TenantID || msg.PhoneNumberID != number.PhoneNumberID {
		return ierr.NewError("message not found").
			WithHint("Message not found").
			WithReportableDetails(map[string]any{"wa_message_id": waMessageID}).
			Mark(ierr.ErrNotFound)
	}
	if msg.Direction != types.WhatsAppMessageInbound {
		return ierr.NewError("only inbound messages can be marked read").
			WithHint("Only received messages can be marked as read").
			Mark(ierr.ErrValidation)
	}

	creds, err := s.credentials(number)
	if err != nil {
		return err
	}
	if err := s.WhatsAppClient.MarkRead(ctx, creds, waMessageID); err != nil {
		return err
	}

	if msg.ReadAt == nil {
		now := time.Now().UTC()
		msg.ReadAt = &now
		if err := s.WAMessageRepo.Update(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *whatsAppService) SyncTemplates(ctx context.Context, numberID string) (*dto.SyncTemplatesResponse, error) {
	number, err := s.PhoneNumberRepo.Get(ctx, numberID)
	if err != nil {
		return nil, err
	}

	creds, err := s.credentials(number)
	if err != nil {
		return nil, err
	}
	remote, err := s.WhatsAppClient.ListTemplates(ctx, creds)
	if err != nil {
		return nil, err
	}

	syncedAt := time.Now().UTC()
	resp := &dto.SyncTemplatesResponse{}
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		for _, info := range remote {
			tpl := &domainWhatsApp.Template{
				ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WHATSAPP_TEMPLATE),
				PhoneNumberID:  number.PhoneNumberID,
				ExternalID:     info.ID,
				Name:           info.Name,
				Language:       info.Language,
				Category:       info.Category,
				TemplateStatus: info.Status,
				Components:     types.RawJSON(info.Components),
				SyncedAt:       syncedAt,
				BaseModel:      types.GetDefaultBaseModel(ctx),
			}
			if len(tpl.Components) == 0 {
				tpl.Components = types.RawJSON("[]")
			}
			if err := s.WATemplateRepo.Upsert(ctx, tpl); err != nil {
				return err
			}
			resp.Synced++
		}

		removed, err := s.WATemplateRepo.MarkStaleDeleted(ctx, number.PhoneNumberID, syncedAt)
		if err != nil {
			return err
		}
		resp.Removed = removed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("whatsapp templates synced",
		"phone_number_id", number.PhoneNumberID,
		"synced", resp.Synced,
		"removed", resp.Removed,
	)
	return resp, nil
}

func (s *whatsAppService) ListTemplates(ctx context.Context, numberID string, filter *types.WhatsAppTemplateFilter) (*dto.ListWhatsAppTemplatesResponse, error) {
	number, err := s.PhoneNumberRepo.Get(ctx, numberID)
	if err != nil {
		return nil, err
	}

	if filter == nil {
		filter = types.NewWhatsAppTemplateFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	filter.PhoneNumberID = number.PhoneNumberID
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	templates, err := s.WATemplateRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.WATemplateRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.WhatsAppTemplateResponse, len(templates))
	for i, t := range templates {
		items[i] = &dto.WhatsAppTemplateResponse{Template: t}
	}
	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *whatsAppService) VerifyWebhookSubscription(mode, token, challenge string) (string, error) {
	if mode != "subscribe" || s.Config.WhatsApp.VerifyToken == "" || token != s.Config.WhatsApp.VerifyToken {
		return "", ierr.NewError("webhook verification failed").
			WithHint("Invalid verify token").
			Mark(ierr.ErrPermissionDenied)
	}
	return challenge, nil
}

func (s *whatsAppService) HandleWebhook(ctx context.Context, payload *whatsapp.WebhookPayload) error {
	if payload == nil {
		return nil
	}

	for _, value := range payload.MessageChanges() {
		number, err := s.PhoneNumberRepo.GetByPhoneNumberID(ctx, value.Metadata.PhoneNumberID)
		if err != nil {
			if ierr.IsNotFound(err) {
				s.Logger.Warnw("webhook for unknown whatsapp number", "phone_number_id", value.Metadata.PhoneNumberID)
				continue
			}
			return err
		}

		tenantCtx := types.SetTenantID(ctx, number.TenantID)
		names := lo.SliceToMap(value.Contacts, func(c whatsapp.WebhookContact) (string, string) {
			return c.WaID, c.Profile.Name
		})

		for i := range value.Messages {
			if err := s.ingestMessage(tenantCtx, number, &value.Messages[i], names); err != nil {
				return err
			}
		}
		for i := range value.Statuses {
			if err := s.applyStatus(tenantCtx, &value.Statuses[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *whatsAppService) ingestMessage(ctx context.Context, number *domainWhatsApp.PhoneNumber, in *whatsapp.InboundMessage, names map[string]string) error {
	msgType := types.WhatsAppMessageType(in.Type)
	if msgType.Validate() != nil {
		// stickers, reactions and the like are kept as text rows with the raw payload
		msgType = types.WhatsAppMessageTypeText
	}

	sentAt := in.SentAt()
	msg := &domainWhatsApp.Message{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WHATSAPP_MESSAGE),
		PhoneNumberID: number.PhoneNumberID,
		WAMessageID:   in.ID,
		Direction:     types.WhatsAppMessageInbound,
		From:          in.From,
		To:            number.DisplayPhoneNumber,
		ContactName:   names[in.From],
		MessageType:   msgType,
		Body:          in.Body(),
		MessageStatus: types.WhatsAppMessageStatusReceived,
		SentAt:        &sentAt,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	if media := in.Media(); media != nil {
		msg.MediaID = media.ID
	}
	if raw, err := json.Marshal(in); err == nil {
		msg.RawPayload = raw
	}

	if err := s.WAMessageRepo.Create(ctx, msg); err != nil {
		if ierr.IsAlreadyExists(err) {
			s.Logger.Debugw("duplicate whatsapp message ignored", "wa_message_id", in.ID)
			return nil
		}
		return err
	}

	publishEvent(ctx, s.ServiceParams, types.SystemEventWhatsAppMessageReceived, msg)
	return nil
}

func (s *whatsAppService) applyStatus(ctx context.Context, st *whatsapp.MessageStatus) error {
	msg, err := s.WAMessageRepo.GetByWAMessageID(ctx, st.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Debugw("status for unknown whatsapp message", "wa_message_id", st.ID, "status", st.Status)
			return nil
		}
		return err
	}

	var errMsg string
	if len(st.Errors) > 0 {
		errMsg = string(st.Errors[0])
	}

	if !msg.ApplyStatus(types.WhatsAppMessageStatus(st.Status), st.At(), errMsg) {
		return nil
	}
	return s.WAMessageRepo.Update(ctx, msg)
}
