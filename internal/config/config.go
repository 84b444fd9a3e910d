package config

import (
	"fmt"

	pkgconfig "github.com/shopforge/notification-service/pkg/config"
)

// Config holds all configuration for the notification service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort          int      `env:"NOTIFICATION_HTTP_PORT" envDefault:"8010"`
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`

	// SMTP delivery
	SMTPHost       string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort       int    `env:"SMTP_PORT" envDefault:"1025"`
	SMTPUser       string `env:"SMTP_USERNAME"`
	SMTPPass       string `env:"SMTP_PASSWORD"`
	SMTPEncryption string `env:"SMTP_ENCRYPTION" envDefault:"default"`
	FromEmail      string `env:"NOTIFICATION_FROM_EMAIL" envDefault:"noreply@shopforge.dev"`

	// Templates. TemplatePath is the directory holding one subdirectory per
	// template id; TemplateMap overrides the built-in event-to-template
	// mapping when set (format: event.name:template-id,other.event:id).
	TemplatePath string            `env:"NOTIFICATION_TEMPLATE_PATH" envDefault:"templates"`
	TemplateMap  map[string]string `env:"NOTIFICATION_TEMPLATE_MAP" envSeparator:"," envKeyValSeparator:":"`

	// StorefrontURL is exposed to templates through the env block of the
	// render context, for building customer-facing links.
	StorefrontURL string `env:"STOREFRONT_URL" envDefault:"http://localhost:3000"`

	// Upstream service base URLs
	OrderServiceURL       string `env:"ORDER_SERVICE_URL" envDefault:"http://localhost:8004"`
	ReturnServiceURL      string `env:"RETURN_SERVICE_URL" envDefault:"http://localhost:8005"`
	SwapServiceURL        string `env:"SWAP_SERVICE_URL" envDefault:"http://localhost:8005"`
	ClaimServiceURL       string `env:"CLAIM_SERVICE_URL" envDefault:"http://localhost:8005"`
	FulfillmentServiceURL string `env:"FULFILLMENT_SERVICE_URL" envDefault:"http://localhost:8006"`
	CartServiceURL        string `env:"CART_SERVICE_URL" envDefault:"http://localhost:8003"`
	GiftCardServiceURL    string `env:"GIFT_CARD_SERVICE_URL" envDefault:"http://localhost:8007"`
	VariantServiceURL     string `env:"VARIANT_SERVICE_URL" envDefault:"http://localhost:8002"`
	TotalsServiceURL      string `env:"TOTALS_SERVICE_URL" envDefault:"http://localhost:8004"`
	ProviderServiceURL    string `env:"PROVIDER_SERVICE_URL" envDefault:"http://localhost:8006"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"shopforge"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"shopforge_secret"`
	PostgresDB   string `env:"NOTIFICATION_DB_NAME" envDefault:"notification_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (consumer idempotency)
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load notification config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.SMTPPort < 1 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTPPort)
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email must not be empty")
	}
	return nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}

// EnvSnapshot returns the environment values exposed to templates through the
// render context.
func (c *Config) EnvSnapshot() map[string]string {
	return map[string]string{
		"storefront_url": c.StorefrontURL,
	}
}
