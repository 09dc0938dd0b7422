package service

import (
	"github.com/socialdesk/socialdesk/internal/auth"
	"github.com/socialdesk/socialdesk/internal/cache"
	"github.com/socialdesk/socialdesk/internal/config"
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
	domainWhatsApp "github.com/socialdesk/socialdesk/internal/domain/whatsapp"
	"github.com/socialdesk/socialdesk/internal/domain/workspace"
	"github.com/socialdesk/socialdesk/internal/email"
	"github.com/socialdesk/socialdesk/internal/integration"
	"github.com/socialdesk/socialdesk/internal/integration/base"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/pdf"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/pubsub"
	"github.com/socialdesk/socialdesk/internal/s3"
	"github.com/socialdesk/socialdesk/internal/security"
	"github.com/socialdesk/socialdesk/internal/webhook/publisher"
	"github.com/socialdesk/socialdesk/internal/whatsapp"
)

// GatewayProvider hands out the configured payment gateways
type GatewayProvider interface {
	GetSubscriptionGateway() (base.SubscriptionGateway, error)
	GetPaymentMethodGateway() (base.PaymentMethodGateway, error)
}

var _ GatewayProvider = (*integration.Factory)(nil)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger       *logger.Logger
	Config       *config.Configuration
	DB           postgres.IClient
	PDFGenerator pdf.Generator
	// S3 is nil when object storage is disabled
	S3    s3.Service
	Email *email.Email
	Cache cache.Cache

	// Repositories
	TenantRepo        tenant.Repository
	UserRepo          user.Repository
	SessionRepo       user.SessionRepository
	WorkspaceRepo     workspace.Repository
	TeamRepo          workspace.TeamRepository
	TeamMemberRepo    workspace.TeamMemberRepository
	SocialAccountRepo socialaccount.Repository
	PostRepo          post.Repository
	PlanRepo          plan.Repository
	SubRepo           subscription.Repository
	InvoiceRepo       invoice.Repository
	PaymentMethodRepo paymentmethod.Repository
	FeatureFlagRepo   featureflag.Repository
	PhoneNumberRepo   domainWhatsApp.PhoneNumberRepository
	WATemplateRepo    domainWhatsApp.TemplateRepository
	WAMessageRepo     domainWhatsApp.MessageRepository
	AuditLogRepo      auditlog.Repository
	AnalyticsRepo     analytics.Repository

	// Integrations
	AuthProvider   auth.Provider
	Encryption     security.EncryptionService
	Gateways       GatewayProvider
	WhatsAppClient whatsapp.Client

	// Publishers
	EventPublisher publisher.EventPublisher
	PubSub         pubsub.PubSub
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db *postgres.DB,
	pdfGenerator pdf.Generator,
	s3Service s3.Service,
	emailService *email.Email,
	memoryCache *cache.InMemoryCache,
	tenantRepo tenant.Repository,
	userRepo user.Repository,
	sessionRepo user.SessionRepository,
	workspaceRepo workspace.Repository,
	teamRepo workspace.TeamRepository,
	teamMemberRepo workspace.TeamMemberRepository,
	socialAccountRepo socialaccount.Repository,
	postRepo post.Repository,
	planRepo plan.Repository,
	subRepo subscription.Repository,
	invoiceRepo invoice.Repository,
	paymentMethodRepo paymentmethod.Repository,
	featureFlagRepo featureflag.Repository,
	phoneNumberRepo domainWhatsApp.PhoneNumberRepository,
	templateRepo domainWhatsApp.TemplateRepository,
	messageRepo domainWhatsApp.MessageRepository,
	auditLogRepo auditlog.Repository,
	analyticsRepo analytics.Repository,
	authProvider auth.Provider,
	encryption security.EncryptionService,
	gateways *integration.Factory,
	whatsAppClient whatsapp.Client,
	eventPublisher publisher.EventPublisher,
	pubSub pubsub.PubSub,
) ServiceParams {
	return ServiceParams{
		Logger:            logger,
		Config:            config,
		DB:                db,
		PDFGenerator:      pdfGenerator,
		S3:                s3Service,
		Email:             emailService,
		Cache:             memoryCache,
		TenantRepo:        tenantRepo,
		UserRepo:          userRepo,
		SessionRepo:       sessionRepo,
		WorkspaceRepo:     workspaceRepo,
		TeamRepo:          teamRepo,
		TeamMemberRepo:    teamMemberRepo,
		SocialAccountRepo: socialAccountRepo,
		PostRepo:          postRepo,
		PlanRepo:          planRepo,
		SubRepo:           subRepo,
		InvoiceRepo:       invoiceRepo,
		PaymentMethodRepo: paymentMethodRepo,
		FeatureFlagRepo:   featureFlagRepo,
		PhoneNumberRepo:   phoneNumberRepo,
		WATemplateRepo:    templateRepo,
		WAMessageRepo:     messageRepo,
		AuditLogRepo:      auditLogRepo,
		AnalyticsRepo:     analyticsRepo,
		AuthProvider:      authProvider,
		Encryption:        encryption,
		Gateways:          gateways,
		WhatsAppClient:    whatsAppClient,
		EventPublisher:    eventPublisher,
		PubSub:            pubSub,
	}
}
