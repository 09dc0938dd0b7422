package repository

import (
	"github.com/socialdesk/socialdesk/internal/clickhouse"
	"github.com/socialdesk/socialdesk/internal/domain/analytics"
	"github.com/socialdesk/socialdesk/internal/domain/auditlog"
	"github.com/socialdesk/socialdesk/internal/domain/featureflag"
	"github.com/socialdesk/socialdesk/internal/domain/invoice"
	"github.com/socialdesk/socialdesk/internal/domain/paymentmethod"
	"github.com/socialdesk/socialdesk/internal/domain/plan"
	"github.com/socialdesk/socialdesk/internal/domain/post"
	"github.com/socialdesk/socialdesk/internal/domain/socialaccount"
	"github.com/socialdesk/socialdesk/internal/domain/subscription"
	"github.com/socialdesk/socialdesk/internal/domain/tenant"
	"github.com/socialdesk/socialdesk/internal/domain/user"
	"github.com/socialdesk/socialdesk/internal/domain/whatsapp"
	"github.com/socialdesk/socialdesk/internal/domain/workspace"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	clickhouseRepo "github.com/socialdesk/socialdesk/internal/repository/clickhouse"
	postgresRepo "github.com/socialdesk/socialdesk/internal/repository/postgres"
)

func NewTenantRepository(db *postgres.DB, logger *logger.Logger) tenant.Repository {
	return postgresRepo.NewTenantRepository(db, logger)
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return postgresRepo.NewUserRepository(db, logger)
}

func NewSessionRepository(db *postgres.DB, logger *logger.Logger) user.SessionRepository {
	return postgresRepo.NewSessionRepository(db, logger)
}

func NewWorkspaceRepository(db *postgres.DB, logger *logger.Logger) workspace.Repository {
	return postgresRepo.NewWorkspaceRepository(db, logger)
}

func NewTeamRepository(db *postgres.DB, logger *logger.Logger) workspace.TeamRepository {
	return postgresRepo.NewTeamRepository(db, logger)
}

func NewTeamMemberRepository(db *postgres.DB, logger *logger.Logger) workspace.TeamMemberRepository {
	return postgresRepo.NewTeamMemberRepository(db, logger)
}

func NewSocialAccountRepository(db *postgres.DB, logger *logger.Logger) socialaccount.Repository {
	return postgresRepo.NewSocialAccountRepository(db, logger)
}

func NewPostRepository(db *postgres.DB, logger *logger.Logger) post.Repository {
	return postgresRepo.NewPostRepository(db, logger)
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger) plan.Repository {
	return postgresRepo.NewPlanRepository(db, logger)
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(db, logger)
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewPaymentMethodRepository(db *postgres.DB, logger *logger.Logger) paymentmethod.Repository {
	return postgresRepo.NewPaymentMethodRepository(db, logger)
}

func NewFeatureFlagRepository(db *postgres.DB, logger *logger.Logger) featureflag.Repository {
	return postgresRepo.NewFeatureFlagRepository(db, logger)
}

func NewWhatsAppPhoneNumberRepository(db *postgres.DB, logger *logger.Logger) whatsapp.PhoneNumberRepository {
	return postgresRepo.NewWhatsAppPhoneNumberRepository(db, logger)
}

func NewWhatsAppTemplateRepository(db *postgres.DB, logger *logger.Logger) whatsapp.TemplateRepository {
	return postgresRepo.NewWhatsAppTemplateRepository(db, logger)
}

func NewWhatsAppMessageRepository(db *postgres.DB, logger *logger.Logger) whatsapp.MessageRepository {
	return postgresRepo.NewWhatsAppMessageRepository(db, logger)
}

func NewAuditLogRepository(db *postgres.DB, logger *logger.Logger) auditlog.Repository {
	return postgresRepo.NewAuditLogRepository(db, logger)
}

// NewAnalyticsRepository picks clickhouse when the store is configured and postgres otherwise
func NewAnalyticsRepository(store *clickhouse.ClickHouseStore, db *postgres.DB, logger *logger.Logger) analytics.Repository {
	if store != nil {
		return clickhouseRepo.NewAnalyticsRepository(store, logger)
	}
	return postgresRepo.NewAnalyticsRepository(db, logger)
}
