package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Postgres   PostgresConfig   `mapstructure:"postgres" validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
	Billing    BillingConfig    `mapstructure:"billing" validate:"required"`
	S3         S3Config         `mapstructure:"s3"`
	Razorpay   RazorpayConfig   `mapstructure:"razorpay"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	WhatsApp   WhatsAppConfig   `mapstructure:"whatsapp"`
	Email      EmailConfig      `mapstructure:"email"`
	Svix       SvixConfig       `mapstructure:"svix"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Pyroscope  PyroscopeConfig  `mapstructure:"pyroscope"`
	PubSub     PubSubConfig     `mapstructure:"pubsub"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
	// PublicURL is used to build links sent to users, e.g. in invoice emails
	PublicURL string `mapstructure:"public_url"`
	// AllowedOrigins is the CORS allow list, empty allows any origin
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// CronSecret authenticates calls from the external scheduler to /cron routes
	CronSecret string `mapstructure:"cron_secret"`
}

type AuthConfig struct {
	Secret           string        `mapstructure:"secret" validate:"required"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	SuperAdminEmails []string      `mapstructure:"super_admin_emails"`
}

type SecretsConfig struct {
	// EncryptionKey seals provider access tokens at rest
	EncryptionKey string `mapstructure:"encryption_key"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host" validate:"required"`
	Port                   int    `mapstructure:"port" validate:"required"`
	User                   string `mapstructure:"user" validate:"required"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname" validate:"required"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type ClickHouseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	TLS      bool   `mapstructure:"tls"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type BillingConfig struct {
	// Gateway is the provider used for subscriptions
	Gateway  types.PaymentGatewayType `mapstructure:"gateway" validate:"required"`
	Currency string                   `mapstructure:"currency" validate:"required,len=3"`
	// FreePlanCode is the plan whose limits apply to tenants without a current subscription
	FreePlanCode string `mapstructure:"free_plan_code" validate:"required"`
	// TaxRate is a fraction, 0.18 means 18%
	TaxRate float64 `mapstructure:"tax_rate" validate:"gte=0,lt=1"`
	// CountryTaxRates overrides TaxRate by ISO country code of the tenant
	CountryTaxRates map[string]float64 `mapstructure:"country_tax_rates"`
	InvoiceDueDays  int                `mapstructure:"invoice_due_days"`
}

type S3Config struct {
	Enabled               bool   `mapstructure:"enabled"`
	Region                string `mapstructure:"region"`
	Endpoint              string `mapstructure:"endpoint"`
	AccessKeyID           string `mapstructure:"access_key_id"`
	SecretAccessKey       string `mapstructure:"secret_access_key"`
	UsePathStyle          bool   `mapstructure:"use_path_style"`
	InvoiceBucket         string `mapstructure:"invoice_bucket"`
	InvoiceKeyPrefix      string `mapstructure:"invoice_key_prefix"`
	MediaBucket           string `mapstructure:"media_bucket"`
	PresignExpiryDuration string `mapstructure:"presign_expiry_duration"`
}

type RazorpayConfig struct {
	KeyID         string `mapstructure:"key_id"`
	KeySecret     string `mapstructure:"key_secret"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type WhatsAppConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIVersion string `mapstructure:"api_version"`
	AppSecret  string `mapstructure:"app_secret"`
	// VerifyToken is echoed back during the webhook subscription handshake
	VerifyToken string `mapstructure:"verify_token"`
	// RateLimit is the number of requests allowed per phone number in RateWindow
	RateLimit  int64         `mapstructure:"rate_limit"`
	RateWindow time.Duration `mapstructure:"rate_window"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type EmailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address"`
	ReplyTo     string `mapstructure:"reply_to"`
}

type SvixConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	AuthToken string `mapstructure:"auth_token"`
	BaseURL   string `mapstructure:"base_url"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type PyroscopeConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	ServerAddress   string   `mapstructure:"server_address"`
	ApplicationName string   `mapstructure:"application_name"`
	BasicAuthUser   string   `mapstructure:"basic_auth_user"`
	BasicAuthPass   string   `mapstructure:"basic_auth_pass"`
	SampleRate      uint32   `mapstructure:"sample_rate"`
	DisableGCRuns   bool     `mapstructure:"disable_gc_runs"`
	ProfileTypes    []string `mapstructure:"profile_types"`
}

type PubSubConfig struct {
	OutputBufferSize int64         `mapstructure:"output_buffer_size"`
	MaxRetries       int           `mapstructure:"max_retries"`
	InitialInterval  time.Duration `mapstructure:"initial_interval"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Prefix  string `mapstructure:"prefix"`
}

func NewConfig() (*Configuration, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/socialdesk")

	v.SetEnvPrefix("SOCIALDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080", PublicURL: "http://localhost:8080"},
		Auth:       AuthConfig{Secret: "local-development-secret", TokenTTL: 24 * time.Hour},
		Secrets:    SecretsConfig{EncryptionKey: "local-development-encryption-key"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Cache: CacheConfig{
			DefaultExpiration: 5 * time.Minute,
			CleanupInterval:   10 * time.Minute,
		},
		Billing: BillingConfig{
			Gateway:        types.PaymentGatewayTypeRazorpay,
			Currency:       "INR",
			FreePlanCode:   "free",
			TaxRate:        0.18,
			InvoiceDueDays: 7,
		},
		S3: S3Config{PresignExpiryDuration: "30m"},
		WhatsApp: WhatsAppConfig{
			BaseURL:    "https://graph.facebook.com",
			APIVersion: "v19.0",
			RateLimit:  80,
			RateWindow: time.Second,
			Timeout:    30 * time.Second,
		},
		PubSub: PubSubConfig{
			OutputBufferSize: 1024,
			MaxRetries:       3,
			InitialInterval:  100 * time.Millisecond,
		},
		Metrics: MetricsConfig{Enabled: true, Prefix: "socialdesk"},
	}
}

func (c ClickHouseConfig) GetClientOptions() *clickhouse.Options {
	options := &clickhouse.Options{
		Addr: []string{c.Address},
		Auth: clickhouse.Auth{
			Database: c.Database,
			Username: c.Username,
			Password: c.Password,
		},
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	}
	if c.TLS {
		options.TLS = &tls.Config{}
	}
	return options
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

// GetTaxRate returns the tax rate for the given ISO country code
func (c BillingConfig) GetTaxRate(country string) decimal.Decimal {
	// viper lower cases map keys
	if rate, ok := c.CountryTaxRates[strings.ToLower(country)]; ok {
		return decimal.NewFromFloat(rate)
	}
	return decimal.NewFromFloat(c.TaxRate)
}
