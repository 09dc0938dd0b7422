package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api"
	"github.com/socialdesk/socialdesk/internal/api/cron"
	v1 "github.com/socialdesk/socialdesk/internal/api/v1"
	"github.com/socialdesk/socialdesk/internal/auth"
	"github.com/socialdesk/socialdesk/internal/cache"
	"github.com/socialdesk/socialdesk/internal/clickhouse"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/email"
	"github.com/socialdesk/socialdesk/internal/integration"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/metrics"
	"github.com/socialdesk/socialdesk/internal/pdf"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/pubsub"
	"github.com/socialdesk/socialdesk/internal/pubsub/memory"
	pubsubRouter "github.com/socialdesk/socialdesk/internal/pubsub/router"
	"github.com/socialdesk/socialdesk/internal/pyroscope"
	"github.com/socialdesk/socialdesk/internal/rbac"
	"github.com/socialdesk/socialdesk/internal/repository"
	"github.com/socialdesk/socialdesk/internal/s3"
	"github.com/socialdesk/socialdesk/internal/security"
	"github.com/socialdesk/socialdesk/internal/sentry"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/svix"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/validator"
	"github.com/socialdesk/socialdesk/internal/webhook"
	"github.com/socialdesk/socialdesk/internal/webhook/handler"
	"github.com/socialdesk/socialdesk/internal/whatsapp"
	"go.uber.org/fx"
)

// @title SocialDesk API
// @version 1.0
// @description Multi-tenant social media management API
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the token in the format **Bearer &lt;token&gt;**

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Initialize Fx application
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,
			pyroscope.NewPyroscopeService,
			metrics.NewMetrics,

			// Cache
			cache.NewInMemoryCache,
			cache.NewRedisClient,
			cache.NewCounter,

			// Postgres
			postgres.NewDB,

			// Clickhouse
			clickhouse.NewClickHouseStore,

			// Storage, documents and email
			s3.NewService,
			pdf.NewGenerator,
			email.NewEmailClient,
			email.NewEmail,

			// PubSub
			fx.Annotate(memory.NewPubSub, fx.As(new(pubsub.PubSub))),
			pubsubRouter.NewRouter,

			// Integrations
			auth.NewProvider,
			security.NewEncryptionService,
			rbac.NewRBACService,
			integration.NewFactory,
			svix.NewClient,
			whatsapp.NewClient,

			// Repositories
			repository.NewTenantRepository,
			repository.NewUserRepository,
			repository.NewSessionRepository,
			repository.NewWorkspaceRepository,
			repository.NewTeamRepository,
			repository.NewTeamMemberRepository,
			repository.NewSocialAccountRepository,
			repository.NewPostRepository,
			repository.NewPlanRepository,
			repository.NewSubscriptionRepository,
			repository.NewInvoiceRepository,
			repository.NewPaymentMethodRepository,
			repository.NewFeatureFlagRepository,
			repository.NewWhatsAppPhoneNumberRepository,
			repository.NewWhatsAppTemplateRepository,
			repository.NewWhatsAppMessageRepository,
			repository.NewAuditLogRepository,
			repository.NewAnalyticsRepository,
		),
	)

	// Webhook module (must be initialised before services)
	opts = append(opts, webhook.Module)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			// Core services
			service.NewAuthService,
			service.NewTenantService,
			service.NewUserService,
			service.NewWorkspaceService,
			service.NewAuditService,
			service.NewAnalyticsService,
			service.NewFeatureFlagService,

			// Publishing
			service.NewSocialAccountService,
			service.NewPostService,
			service.NewWhatsAppService,

			// Billing
			service.NewPlanService,
			service.NewUsageService,
			service.NewSubscriptionService,
			service.NewInvoiceService,
			service.NewPaymentMethodService,
			service.NewBillingWebhookService,

			// Back office
			service.NewAdminService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			pyroscope.RegisterHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	authService service.AuthService,
	tenantService service.TenantService,
	userService service.UserService,
	workspaceService service.WorkspaceService,
	socialAccountService service.SocialAccountService,
	postService service.PostService,
	planService service.PlanService,
	usageService service.UsageService,
	subscriptionService service.SubscriptionService,
	invoiceService service.InvoiceService,
	paymentMethodService service.PaymentMethodService,
	featureFlagService service.FeatureFlagService,
	whatsAppService service.WhatsAppService,
	analyticsService service.AnalyticsService,
	auditService service.AuditService,
	adminService service.AdminService,
	billingWebhookService service.BillingWebhookService,
	integrationFactory *integration.Factory,
	svixClient *svix.Client,
) api.Handlers {
	return api.Handlers{
		Health:        v1.NewHealthHandler(),
		Auth:          v1.NewAuthHandler(authService, logger),
		Tenant:        v1.NewTenantHandler(tenantService, logger),
		User:          v1.NewUserHandler(userService, logger),
		Workspace:     v1.NewWorkspaceHandler(workspaceService, logger),
		SocialAccount: v1.NewSocialAccountHandler(socialAccountService, logger),
		Post:          v1.NewPostHandler(postService, logger),
		Plan:          v1.NewPlanHandler(planService, usageService, logger),
		Subscription:  v1.NewSubscriptionHandler(subscriptionService, logger),
		Invoice:       v1.NewInvoiceHandler(invoiceService, logger),
		PaymentMethod: v1.NewPaymentMethodHandler(paymentMethodService, logger),
		FeatureFlag:   v1.NewFeatureFlagHandler(featureFlagService, logger),
		WhatsApp:      v1.NewWhatsAppHandler(whatsAppService, logger),
		Analytics:     v1.NewAnalyticsHandler(analyticsService, auditService, logger),
		Admin:         v1.NewAdminHandler(adminService, tenantService, logger),
		Webhook: v1.NewWebhookHandler(
			whatsAppService,
			billingWebhookService,
			integrationFactory,
			svixClient,
			cfg,
			logger,
		),
		CronSubscription: cron.NewSubscriptionHandler(subscriptionService, logger),
	}
}

func provideRouter(
	handlers api.Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	authService service.AuthService,
	rbacService *rbac.RBACService,
	m *metrics.Metrics,
) *gin.Engine {
	if cfg.Logging.Level != types.LogLevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers, cfg, logger, authService, rbacService, m)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	router *pubsubRouter.Router,
	webhookHandler handler.Handler,
	auditService service.AuditService,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, router, webhookHandler, auditService, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}

func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	webhookHandler handler.Handler,
	auditService service.AuditService,
	logger *logger.Logger,
) {
	// Register handlers before starting the router
	webhookHandler.RegisterHandler(router)
	auditService.RegisterHandler(router)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting message router")
			go func() {
				if err := router.Run(); err != nil {
					logger.Errorw("message router failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping message router")
			return router.Close()
		},
	})
}
