package api

import (
	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/cron"
	v1 "github.com/socialdesk/socialdesk/internal/api/v1"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/metrics"
	"github.com/socialdesk/socialdesk/internal/rbac"
	"github.com/socialdesk/socialdesk/internal/rest/middleware"
	"github.com/socialdesk/socialdesk/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health        *v1.HealthHandler
	Auth          *v1.AuthHandler
	Tenant        *v1.TenantHandler
	User          *v1.UserHandler
	Workspace     *v1.WorkspaceHandler
	SocialAccount *v1.SocialAccountHandler
	Post          *v1.PostHandler
	Plan          *v1.PlanHandler
	Subscription  *v1.SubscriptionHandler
	Invoice       *v1.InvoiceHandler
	PaymentMethod *v1.PaymentMethodHandler
	FeatureFlag   *v1.FeatureFlagHandler
	WhatsApp      *v1.WhatsAppHandler
	Analytics     *v1.AnalyticsHandler
	Admin         *v1.AdminHandler
	Webhook       *v1.WebhookHandler

	CronSubscription *cron.SubscriptionHandler
}

func NewRouter(
	handlers Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	authService service.AuthService,
	rbacService *rbac.RBACService,
	m *metrics.Metrics,
) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware(cfg),
		middleware.SentryMiddleware(cfg),
		middleware.PyroscopeMiddleware(cfg),
		middleware.MetricsMiddleware(m),
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)
	router.POST("/health", handlers.Health.Health)
	if m.IsEnabled() {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authenticated := []gin.HandlerFunc{
		middleware.AuthenticateMiddleware(authService, logger),
		middleware.SentryScopeMiddleware(cfg),
	}
	perm := middleware.NewPermissionMiddleware(rbacService, logger)

	v1Public := router.Group("/api/v1")
	v1Private := router.Group("/api/v1", authenticated...)

	// Auth routes
	auth := v1Public.Group("/auth")
	{
		auth.POST("/signup", handlers.Auth.SignUp)
		auth.POST("/login", handlers.Auth.Login)
	}
	v1Private.POST("/auth/logout", handlers.Auth.Logout)

	// Provider callbacks authenticate by signature
	webhooks := v1Public.Group("/webhooks")
	{
		webhooks.GET("/whatsapp", handlers.Webhook.VerifyWhatsAppWebhook)
		webhooks.POST("/whatsapp", handlers.Webhook.HandleWhatsAppWebhook)
		webhooks.POST("/razorpay", handlers.Webhook.HandleRazorpayWebhook)
		webhooks.POST("/stripe", handlers.Webhook.HandleStripeWebhook)
	}
	v1Private.GET("/webhooks/dashboard", perm.RequirePermission("tenant", "write"), handlers.Webhook.GetDashboardURL)

	tenant := v1Private.Group("/tenant")
	{
		tenant.GET("", perm.RequirePermission("tenant", "read"), handlers.Tenant.GetTenant)
		tenant.PUT("", perm.RequirePermission("tenant", "write"), handlers.Tenant.UpdateTenant)
	}

	user := v1Private.Group("/users")
	{
		user.GET("/me", handlers.User.GetMe)
		user.GET("", perm.RequirePermission("user", "read"), handlers.User.ListUsers)
		user.POST("", perm.RequirePermission("user", "write"), handlers.User.InviteUser)
		user.PUT("/:id/role", perm.RequirePermission("user", "write"), handlers.User.UpdateRole)
		user.DELETE("/:id", perm.RequirePermission("user", "write"), handlers.User.RemoveUser)
	}

	workspace := v1Private.Group("/workspaces")
	{
		workspace.POST("", perm.RequirePermission("workspace", "write"), handlers.Workspace.CreateWorkspace)
		workspace.GET("", perm.RequirePermission("workspace", "read"), handlers.Workspace.ListWorkspaces)
		workspace.GET("/:id", perm.RequirePermission("workspace", "read"), handlers.Workspace.GetWorkspace)
		workspace.PUT("/:id", perm.RequirePermission("workspace", "write"), handlers.Workspace.UpdateWorkspace)
		workspace.DELETE("/:id", perm.RequirePermission("workspace", "write"), handlers.Workspace.DeleteWorkspace)

		workspace.POST("/:id/teams", perm.RequirePermission("team", "write"), handlers.Workspace.CreateTeam)
		workspace.GET("/:id/teams", perm.RequirePermission("team", "read"), handlers.Workspace.ListTeams)

		workspace.POST("/:id/social-accounts", perm.RequirePermission("social_account", "write"), handlers.SocialAccount.ConnectSocialAccount)
		workspace.POST("/:id/posts", perm.RequirePermission("post", "write"), handlers.Post.CreatePost)
	}

	team := v1Private.Group("/teams")
	{
		team.GET("/:team_id", perm.RequirePermission("team", "read"), handlers.Workspace.GetTeam)
		team.PUT("/:team_id", perm.RequirePermission("team", "write"), handlers.Workspace.UpdateTeam)
		team.DELETE("/:team_id", perm.RequirePermission("team", "write"), handlers.Workspace.DeleteTeam)
		team.POST("/:team_id/members", perm.RequirePermission("team", "write"), handlers.Workspace.AddTeamMember)
		team.PUT("/:team_id/members/:user_id", perm.RequirePermission("team", "write"), handlers.Workspace.UpdateTeamMember)
		team.DELETE("/:team_id/members/:user_id", perm.RequirePermission("team", "write"), handlers.Workspace.RemoveTeamMember)
	}

	socialAccount := v1Private.Group("/social-accounts")
	{
		socialAccount.GET("", perm.RequirePermission("social_account", "read"), handlers.SocialAccount.ListSocialAccounts)
		socialAccount.DELETE("/:id", perm.RequirePermission("social_account", "write"), handlers.SocialAccount.DisconnectSocialAccount)
	}

	post := v1Private.Group("/posts")
	{
		post.GET("", perm.RequirePermission("post", "read"), handlers.Post.ListPosts)
		post.GET("/:id", perm.RequirePermission("post", "read"), handlers.Post.GetPost)
		post.PUT("/:id", perm.RequirePermission("post", "write"), handlers.Post.UpdatePost)
		post.POST("/:id/schedule", perm.RequirePermission("post", "write"), handlers.Post.SchedulePost)
		post.POST("/:id/cancel", perm.RequirePermission("post", "write"), handlers.Post.CancelPost)
	}

	billing := v1Private.Group("/billing")
	{
		billing.GET("/plans", handlers.Plan.ListPublicPlans)
		billing.GET("/plans/:code", handlers.Plan.GetPlan)
		billing.GET("/usage", perm.RequirePermission("billing", "read"), handlers.Plan.GetUsage)

		subscriptions := billing.Group("/subscriptions")
		{
			subscriptions.POST("", perm.RequirePermission("billing", "write"), handlers.Subscription.CreateSubscription)
			subscriptions.GET("", perm.RequirePermission("billing", "read"), handlers.Subscription.ListSubscriptions)
			subscriptions.GET("/current", perm.RequirePermission("billing", "read"), handlers.Subscription.GetCurrentSubscription)
			subscriptions.GET("/:id", perm.RequirePermission("billing", "read"), handlers.Subscription.GetSubscription)
			subscriptions.POST("/:id/cancel", perm.RequirePermission("billing", "write"), handlers.Subscription.CancelSubscription)
			subscriptions.POST("/:id/reactivate", perm.RequirePermission("billing", "write"), handlers.Subscription.ReactivateSubscription)
			subscriptions.POST("/:id/change-plan", perm.RequirePermission("billing", "write"), handlers.Subscription.ChangePlan)
		}

		invoices := billing.Group("/invoices")
		{
			invoices.GET("", perm.RequirePermission("billing", "read"), handlers.Invoice.ListInvoices)
			invoices.GET("/:id", perm.RequirePermission("billing", "read"), handlers.Invoice.GetInvoice)
			invoices.GET("/:id/download-url", perm.RequirePermission("billing", "read"), handlers.Invoice.GetDownloadURL)
			invoices.GET("/:id/pdf", perm.RequirePermission("billing", "read"), handlers.Invoice.GetInvoicePDF)
			invoices.POST("/:id/send", perm.RequirePermission("billing", "write"), handlers.Invoice.SendInvoice)
		}

		paymentMethods := billing.Group("/payment-methods")
		{
			paymentMethods.POST("", perm.RequirePermission("billing", "write"), handlers.PaymentMethod.AddPaymentMethod)
			paymentMethods.GET("", perm.RequirePermission("billing", "read"), handlers.PaymentMethod.ListPaymentMethods)
			paymentMethods.POST("/:id/default", perm.RequirePermission("billing", "write"), handlers.PaymentMethod.SetDefault)
			paymentMethods.DELETE("/:id", perm.RequirePermission("billing", "write"), handlers.PaymentMethod.RemovePaymentMethod)
		}
	}

	v1Private.GET("/feature-flags", handlers.FeatureFlag.Evaluate)

	whatsApp := v1Private.Group("/whatsapp/numbers")
	{
		whatsApp.POST("", perm.RequirePermission("whatsapp", "write"), handlers.WhatsApp.RegisterPhoneNumber)
		whatsApp.GET("", perm.RequirePermission("whatsapp", "read"), handlers.WhatsApp.ListPhoneNumbers)
		whatsApp.DELETE("/:id", perm.RequirePermission("whatsapp", "write"), handlers.WhatsApp.RemovePhoneNumber)
		whatsApp.POST("/:id/messages", perm.RequirePermission("whatsapp", "write"), handlers.WhatsApp.SendMessage)
		whatsApp.GET("/:id/messages", perm.RequirePermission("whatsapp", "read"), handlers.WhatsApp.ListMessages)
		whatsApp.POST("/:id/messages/:wa_message_id/read", perm.RequirePermission("whatsapp", "write"), handlers.WhatsApp.MarkRead)
		whatsApp.GET("/:id/conversations/:contact", perm.RequirePermission("whatsapp", "read"), handlers.WhatsApp.GetConversation)
		whatsApp.POST("/:id/media", perm.RequirePermission("whatsapp", "write"), handlers.WhatsApp.UploadMedia)
		whatsApp.POST("/:id/templates/sync", perm.RequirePermission("whatsapp", "write"), handlers.WhatsApp.SyncTemplates)
		whatsApp.GET("/:id/templates", perm.RequirePermission("whatsapp", "read"), handlers.WhatsApp.ListTemplates)
	}

	analytics := v1Private.Group("/analytics")
	{
		analytics.POST("/events", perm.RequirePermission("analytics", "write"), handlers.Analytics.Track)
		analytics.GET("/summary", perm.RequirePermission("analytics", "read"), handlers.Analytics.Summary)
	}
	v1Private.GET("/audit-logs", perm.RequirePermission("audit_log", "read"), handlers.Analytics.ListAuditLogs)

	// Back office, super admins only
	admin := v1Private.Group("/admin", middleware.SuperAdminMiddleware(logger))
	{
		admin.GET("/dashboard", handlers.Admin.GetDashboardStats)
		admin.GET("/tenants", handlers.Admin.ListTenants)
		admin.GET("/tenants/:id", handlers.Admin.GetTenant)
		admin.POST("/tenants/:id/suspend", handlers.Admin.SuspendTenant)
		admin.POST("/tenants/:id/reactivate", handlers.Admin.ReactivateTenant)
		admin.GET("/subscriptions", handlers.Admin.ListSubscriptions)
		admin.POST("/subscriptions/expire", handlers.Subscription.ExpireDueSubscriptions)
		admin.GET("/invoices", handlers.Admin.ListInvoices)
		admin.POST("/invoices/:id/mark-paid", handlers.Invoice.MarkPaid)
		admin.POST("/invoices/:id/void", handlers.Invoice.VoidInvoice)
		admin.GET("/audit-logs", handlers.Admin.ListAuditLogs)

		admin.GET("/plans", handlers.Plan.ListAllPlans)
		admin.PUT("/plans", handlers.Plan.UpsertPlan)
		admin.PUT("/plans/:code/limits", handlers.Plan.SetLimit)

		admin.POST("/feature-flags", handlers.FeatureFlag.CreateFeatureFlag)
		admin.GET("/feature-flags", handlers.FeatureFlag.ListFeatureFlags)
		admin.GET("/feature-flags/:id", handlers.FeatureFlag.GetFeatureFlag)
		admin.PUT("/feature-flags/:id", handlers.FeatureFlag.UpdateFeatureFlag)
		admin.DELETE("/feature-flags/:id", handlers.FeatureFlag.DeleteFeatureFlag)
	}

	// Cron routes, called by the external scheduler
	cronGroup := router.Group("/cron", middleware.CronAuthMiddleware(cfg))
	{
		cronGroup.POST("/subscriptions/expire", handlers.CronSubscription.ExpireDueSubscriptions)
	}

	return router
}
