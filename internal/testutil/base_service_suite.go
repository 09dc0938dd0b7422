package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/cache"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/domain/plan"
	"github.com/socialdesk/socialdesk/internal/domain/tenant"
	"github.com/socialdesk/socialdesk/internal/domain/user"
	"github.com/socialdesk/socialdesk/internal/email"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/socialdesk/socialdesk/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds the in-memory repositories of a test
type Stores struct {
	TenantRepo        *InMemoryTenantStore
	UserRepo          *InMemoryUserStore
	SessionRepo       *InMemorySessionStore
	WorkspaceRepo     *InMemoryWorkspaceStore
	TeamRepo          *InMemoryTeamStore
	TeamMemberRepo    *InMemoryTeamMemberStore
	SocialAccountRepo *InMemorySocialAccountStore
	PostRepo          *InMemoryPostStore
	PlanRepo          *InMemoryPlanStore
	SubRepo           *InMemorySubscriptionStore
	InvoiceRepo       *InMemoryInvoiceStore
	PaymentMethodRepo *InMemoryPaymentMethodStore
	FeatureFlagRepo   *InMemoryFeatureFlagStore
	PhoneNumberRepo   *InMemoryPhoneNumberStore
	WATemplateRepo    *InMemoryWATemplateStore
	WAMessageRepo     *InMemoryWAMessageStore
	AuditLogRepo      *InMemoryAuditLogStore
	AnalyticsRepo     *InMemoryAnalyticsStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	stores    Stores
	publisher *InMemoryEventPublisher
	pubSub    *InMemoryPubSub
	db        *MockPostgresClient
	cache     *cache.InMemoryCache
	email     *InMemoryEmailSender
	logger    *logger.Logger
	config    *config.Configuration
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = &config.Configuration{
		Logging: config.LoggingConfig{
			Level: types.LogLevelInfo,
		},
		Server: config.ServerConfig{
			Address:   ":8080",
			PublicURL: "https://app.socialdesk.test",
		},
		Auth: config.AuthConfig{
			Secret:           "test-secret-for-unit-tests-only",
			TokenTTL:         24 * time.Hour,
			SuperAdminEmails: []string{"root@socialdesk.test"},
		},
		Secrets: config.SecretsConfig{
			EncryptionKey: "test-encryption-key",
		},
		Billing: config.BillingConfig{
			Gateway:         types.PaymentGatewayTypeStripe,
			Currency:        "USD",
			FreePlanCode:    "free",
			TaxRate:         0.18,
			CountryTaxRates: map[string]float64{"gb": 0.2},
			InvoiceDueDays:  7,
		},
		Cache: config.CacheConfig{
			DefaultExpiration: time.Minute,
			CleanupInterval:   time.Minute,
		},
		WhatsApp: config.WhatsAppConfig{
			AppSecret:   "test-app-secret",
			VerifyToken: "test-verify-token",
		},
	}

	var err error
	s.logger, err = logger.NewLogger(s.config)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.publisher = NewInMemoryEventPublisher()
	s.pubSub = NewInMemoryPubSub()
	s.db = NewMockPostgresClient(s.logger)
	s.cache = cache.NewInMemoryCache(s.config)
	s.email = NewInMemoryEmailSender()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
	_ = s.pubSub.Close()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		TenantRepo:        NewInMemoryTenantStore(),
		UserRepo:          NewInMemoryUserStore(),
		SessionRepo:       NewInMemorySessionStore(),
		WorkspaceRepo:     NewInMemoryWorkspaceStore(),
		TeamRepo:          NewInMemoryTeamStore(),
		TeamMemberRepo:    NewInMemoryTeamMemberStore(),
		SocialAccountRepo: NewInMemorySocialAccountStore(),
		PostRepo:          NewInMemoryPostStore(),
		PlanRepo:          NewInMemoryPlanStore(),
		SubRepo:           NewInMemorySubscriptionStore(),
		InvoiceRepo:       NewInMemoryInvoiceStore(),
		PaymentMethodRepo: NewInMemoryPaymentMethodStore(),
		FeatureFlagRepo:   NewInMemoryFeatureFlagStore(),
		PhoneNumberRepo:   NewInMemoryPhoneNumberStore(),
		WATemplateRepo:    NewInMemoryWATemplateStore(),
		WAMessageRepo:     NewInMemoryWAMessageStore(),
		AuditLogRepo:      NewInMemoryAuditLogStore(),
		AnalyticsRepo:     NewInMemoryAnalyticsStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.TenantRepo.Clear()
	s.stores.UserRepo.Clear()
	s.stores.SessionRepo.Clear()
	s.stores.WorkspaceRepo.Clear()
	s.stores.TeamRepo.Clear()
	s.stores.TeamMemberRepo.Clear()
	s.stores.SocialAccountRepo.Clear()
	s.stores.PostRepo.Clear()
	s.stores.PlanRepo.Clear()
	s.stores.SubRepo.Clear()
	s.stores.InvoiceRepo.Clear()
	s.stores.PaymentMethodRepo.Clear()
	s.stores.FeatureFlagRepo.Clear()
	s.stores.PhoneNumberRepo.Clear()
	s.stores.WATemplateRepo.Clear()
	s.stores.WAMessageRepo.Clear()
	s.stores.AuditLogRepo.Clear()
	s.stores.AnalyticsRepo.Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetPublisher() *InMemoryEventPublisher {
	return s.publisher
}

func (s *BaseServiceTestSuite) GetPubSub() *InMemoryPubSub {
	return s.pubSub
}

func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetEmail() *email.Email {
	return email.NewEmailWithSender(s.email, s.logger)
}

func (s *BaseServiceTestSuite) GetEmailSender() *InMemoryEmailSender {
	return s.email
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}

// SeedTenant stores the default tenant with an owner user
func (s *BaseServiceTestSuite) SeedTenant() (*tenant.Tenant, *user.User) {
	t := &tenant.Tenant{
		ID:           types.DefaultTenantID,
		Name:         "Acme",
		Slug:         "acme",
		BillingEmail: "billing@acme.test",
		Country:      "IN",
		TenantStatus: types.TenantStatusActive,
		Status:       types.StatusPublished,
		CreatedAt:    s.now,
		UpdatedAt:    s.now,
	}
	s.NoError(s.stores.TenantRepo.Create(s.ctx, t))

	u := &user.User{
		ID:        types.DefaultUserID,
		Email:     "owner@acme.test",
		Name:      "Owner",
		Role:      types.UserRoleOwner,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.stores.UserRepo.Create(s.ctx, u))
	return t, u
}

// SeedPlan stores a published plan with the given limits
func (s *BaseServiceTestSuite) SeedPlan(code string, price string, limits map[types.PlanLimitKey]int64) *plan.Plan {
	p := &plan.Plan{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Code:            code,
		Name:            code,
		Price:           decimal.RequireFromString(price),
		Currency:        s.config.Billing.Currency,
		BillingInterval: types.BillingIntervalMonthly,
		IsPublic:        true,
		Status:          types.StatusPublished,
		Limits:          limits,
		CreatedAt:       s.now,
		UpdatedAt:       s.now,
	}
	s.NoError(s.stores.PlanRepo.Create(s.ctx, p))
	for key, value := range limits {
		s.NoError(s.stores.PlanRepo.UpsertLimit(s.ctx, &plan.Limit{
			PlanCode:   code,
			LimitKey:   key,
			LimitValue: value,
		}))
	}
	return p
}

// InMemoryEmailSender records sent emails
type InMemoryEmailSender struct {
	mu   sync.Mutex
	Sent []SentEmail
}

type SentEmail struct {
	To      string
	Subject string
	HTML    string
}

var _ email.Sender = (*InMemoryEmailSender)(nil)

func NewInMemoryEmailSender() *InMemoryEmailSender {
	return &InMemoryEmailSender{}
}

func (e *InMemoryEmailSender) IsEnabled() bool { return true }

func (e *InMemoryEmailSender) GetFromAddress() string { return "noreply@socialdesk.test" }

func (e *InMemoryEmailSender) SendEmail(ctx context.Context, from, to, subject, htmlContent, textContent string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Sent = append(e.Sent, SentEmail{To: to, Subject: subject, HTML: htmlContent})
	return types.GenerateUUID(), nil
}
