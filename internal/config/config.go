package config

import (
	"fmt"
	"strings"

	pkgconfig "github.com/goldendrop/storefront/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// CORS origin allow-list for the browser storefront.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Redis (cart + newsletter decision store)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Newsletter decision TTL in hours (default: 365 days, matching the
	// cookie lifetime the storefront used to set)
	NewsletterTTL int `env:"NEWSLETTER_TTL_HOURS" envDefault:"8760"`

	// Stripe
	StripeSecretKey    string `env:"STRIPE_SECRET_KEY" envDefault:""`
	StripeAPIBaseURL   string `env:"STRIPE_API_BASE_URL" envDefault:"https://api.stripe.com"`
	CheckoutSuccessURL string `env:"CHECKOUT_SUCCESS_URL" envDefault:"https://goldendrop.si/success"`
	CheckoutCancelURL  string `env:"CHECKOUT_CANCEL_URL" envDefault:"https://goldendrop.si/"`

	// Test-mode price reference substituted for every line when the client
	// submits a test checkout.
	TestPriceRef string `env:"STRIPE_TEST_PRICE_REF" envDefault:"price_1SYuSEIVhqY1p0l8HVT98w3x"`

	// Brevo
	BrevoAPIKey            string `env:"BREVO_API_KEY" envDefault:""`
	BrevoAPIBaseURL        string `env:"BREVO_API_BASE_URL" envDefault:"https://api.brevo.com/v3"`
	BrevoListIDs           []int  `env:"BREVO_LIST_IDS" envSeparator:","`
	BrevoWelcomeTemplateID int    `env:"BREVO_WELCOME_TEMPLATE_ID" envDefault:"0"`
	BrevoSenderName        string `env:"BREVO_SENDER_NAME" envDefault:"GoldenDrop"`
	BrevoSenderEmail       string `env:"BREVO_SENDER_EMAIL" envDefault:"narocila@goldendrop.si"`
	OrderNotificationEmail string `env:"ORDER_NOTIFICATION_EMAIL" envDefault:""`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	TracingEnabled bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSample    float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof access
	PprofCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
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
	if c.CartTTL < 1 {
		return fmt.Errorf("invalid cart TTL: %d", c.CartTTL)
	}
	return nil
}

// StripeConfigured reports whether a usable Stripe secret is present.
// Placeholder values from setup templates count as not configured, so a
// half-configured deployment fails checkout without touching the network.
func (c *Config) StripeConfigured() bool {
	return credentialPresent(c.StripeSecretKey)
}

// BrevoConfigured reports whether a usable Brevo API key is present.
func (c *Config) BrevoConfigured() bool {
	return credentialPresent(c.BrevoAPIKey)
}

func credentialPresent(key string) bool {
	if key == "" {
		return false
	}
	return !strings.Contains(key, "your_key_here") && !strings.Contains(key, "YOUR_")
}
