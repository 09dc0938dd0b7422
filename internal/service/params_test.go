package service

import (
	"context"

	"github.com/socialdesk/socialdesk/internal/auth"
	"github.com/socialdesk/socialdesk/internal/security"
	"github.com/socialdesk/socialdesk/internal/testutil"
	"github.com/socialdesk/socialdesk/internal/types"
)

// newTestParams wires ServiceParams to the in-memory stores of the suite
func newTestParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	encryption, err := security.NewEncryptionService(s.GetConfig(), s.GetLogger())
	s.Require().NoError(err)

	return ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		DB:                s.GetDB(),
		Cache:             s.GetCache(),
		TenantRepo:        stores.TenantRepo,
		UserRepo:          stores.UserRepo,
		SessionRepo:       stores.SessionRepo,
		WorkspaceRepo:     stores.WorkspaceRepo,
		TeamRepo:          stores.TeamRepo,
		TeamMemberRepo:    stores.TeamMemberRepo,
		SocialAccountRepo: stores.SocialAccountRepo,
		PostRepo:          stores.PostRepo,
		PlanRepo:          stores.PlanRepo,
		SubRepo:           stores.SubRepo,
		InvoiceRepo:       stores.InvoiceRepo,
		PaymentMethodRepo: stores.PaymentMethodRepo,
		FeatureFlagRepo:   stores.FeatureFlagRepo,
		PhoneNumberRepo:   stores.PhoneNumberRepo,
		WATemplateRepo:    stores.WATemplateRepo,
		WAMessageRepo:     stores.WAMessageRepo,
		AuditLogRepo:      stores.AuditLogRepo,
		AnalyticsRepo:     stores.AnalyticsRepo,
		AuthProvider:      auth.NewProvider(s.GetConfig()),
		Encryption:        encryption,
		EventPublisher:    s.GetPublisher(),
		PubSub:            s.GetPubSub(),
	}
}

// flushAuditLogs writes every published audit row to the audit store
func flushAuditLogs(s *testutil.BaseServiceTestSuite, params ServiceParams) {
	audit := &auditService{ServiceParams: params}
	for _, msg := range s.GetPubSub().GetMessages(types.TopicAuditLogs) {
		s.Require().NoError(audit.processMessage(msg))
	}
	s.GetPubSub().ClearMessages()
}

// auditActions returns the recorded actions of the tenant in the suite context
func auditActions(s *testutil.BaseServiceTestSuite, params ServiceParams) []types.AuditAction {
	return auditActionsIn(s.GetContext(), s, params)
}

// auditActionsIn returns the recorded actions of the tenant in ctx, in no particular order
func auditActionsIn(ctx context.Context, s *testutil.BaseServiceTestSuite, params ServiceParams) []types.AuditAction {
	flushAuditLogs(s, params)

	filter := types.NewAuditLogFilter()
	filter.QueryFilter = types.NewNoLimitQueryFilter()
	logs, err := params.AuditLogRepo.List(ctx, filter)
	s.Require().NoError(err)

	actions := make([]types.AuditAction, len(logs))
	for i, l := range logs {
		actions[i] = l.Action
	}
	return actions
}
