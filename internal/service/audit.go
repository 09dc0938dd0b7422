package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/auditlog"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	pubsubRouter "github.com/socialdesk/socialdesk/internal/pubsub/router"
	"github.com/socialdesk/socialdesk/internal/types"
)

// AuditService records who did what. Recording never fails the caller.
type AuditService interface {
	Record(ctx context.Context, action types.AuditAction, entityType, entityID string, metadata map[string]interface{})
	List(ctx context.Context, filter *types.AuditLogFilter) (*dto.ListAuditLogsResponse, error)
	// RegisterHandler subscribes the writer that persists published audit rows
	RegisterHandler(router *pubsubRouter.Router)
}

type auditService struct {
	ServiceParams
}

func NewAuditService(params ServiceParams) AuditService {
	return &auditService{ServiceParams: params}
}

func (s *auditService) Record(ctx context.Context, action types.AuditAction, entityType, entityID string, metadata map[string]interface{}) {
	if s.PubSub == nil {
		return
	}

	entry := &auditlog.AuditLog{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT_LOG),
		TenantID:   types.GetTenantID(ctx),
		UserID:     types.GetUserID(ctx),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  types.GetClientIP(ctx),
		UserAgent:  types.GetUserAgent(ctx),
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}

	body, err := json.Marshal(entry)
	if err != nil {
		s.Logger.Errorw("failed to marshal audit log", "error", err, "action", action)
		return
	}

	msg := message.NewMessage(entry.ID, body)
	msg.Metadata.Set("tenant_id", entry.TenantID)
	msg.Metadata.Set("action", string(action))

	if err := s.PubSub.Publish(context.WithoutCancel(ctx), types.TopicAuditLogs, msg); err != nil {
		s.Logger.Errorw("failed to publish audit log",
			"error", err,
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"tenant_id", entry.TenantID,
		)
	}
}

func (s *auditService) RegisterHandler(router *pubsubRouter.Router) {
	router.AddNoPublishHandler(
		"audit_log_writer",
		types.TopicAuditLogs,
		s.PubSub,
		s.processMessage,
	)
}

func (s *auditService) processMessage(msg *message.Message) error {
	var entry auditlog.AuditLog
	if err := json.Unmarshal(msg.Payload, &entry); err != nil {
		s.Logger.Errorw("failed to unmarshal audit log", "error", err, "message_uuid", msg.UUID)
		return nil
	}

	ctx := types.SetTenantID(msg.Context(), entry.TenantID)
	if err := s.AuditLogRepo.Create(ctx, &entry); err != nil {
		// replays of an already written row are fine
		if ierr.IsAlreadyExists(err) {
			return nil
		}
		s.Logger.Errorw("failed to write audit log",
			"error", err,
			"audit_log_id", entry.ID,
			"tenant_id", entry.TenantID,
		)
		return err
	}
	return nil
}

func (s *auditService) List(ctx context.Context, filter *types.AuditLogFilter) (*dto.ListAuditLogsResponse, error) {
	if filter == nil {
		filter = types.NewAuditLogFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	logs, err := s.AuditLogRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.AuditLogRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.AuditLogResponse, len(logs))
	for i, l := range logs {
		items[i] = &dto.AuditLogResponse{AuditLog: l}
	}
	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

// recordAudit is shared by the services that change audited entities
func recordAudit(ctx context.Context, params ServiceParams, action types.AuditAction, entityType, entityID string, metadata map[string]interface{}) {
	NewAuditService(params).Record(ctx, action, entityType, entityID, metadata)
}

// publishEvent emits a system event; delivery failures are logged and never returned
func publishEvent(ctx context.Context, params ServiceParams, name types.SystemEventName, payload interface{}) {
	if params.EventPublisher == nil {
		return
	}
	if err := params.EventPublisher.Publish(ctx, name, payload); err != nil {
		params.Logger.Errorw("failed to publish system event",
			"error", err,
			"event_name", name,
			"tenant_id", types.GetTenantID(ctx),
		)
	}
}
