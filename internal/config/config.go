package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/patatpalace/pkg/config"
)

// Storage backends.
const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort            int      `env:"HTTP_PORT" envDefault:"8080"`
	CORSAllowedOrigins  []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	SessionCookieName   string   `env:"SESSION_COOKIE_NAME" envDefault:"patat_session"`
	SessionCookieSecure bool     `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	RateLimitRPS        float64  `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst      int      `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Cart storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"redis"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass      string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	// Cart TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Kafka. Events are disabled when no brokers are configured.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Transient messages and simulated contact sending, in milliseconds.
	NoticeTTLMs          int `env:"NOTICE_TTL_MS" envDefault:"5000"`
	CartNoticeTTLMs      int `env:"CART_NOTICE_TTL_MS" envDefault:"3000"`
	ContactSubmitDelayMs int `env:"CONTACT_SUBMIT_DELAY_MS" envDefault:"1500"`

	// In-memory session housekeeping
	SessionIdleMinutes  int `env:"SESSION_IDLE_MINUTES" envDefault:"120"`
	JanitorIntervalSecs int `env:"JANITOR_INTERVAL_SECONDS" envDefault:"60"`

	// Bank transfer details shown on confirmation
	BankAccountName string `env:"BANK_ACCOUNT_NAME" envDefault:"Patat Palace"`
	BankIBAN        string `env:"BANK_IBAN" envDefault:"NL00BANK0123456789"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
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

// CartTTLDuration is the storage expiry of a cart.
func (c *Config) CartTTLDuration() time.Duration {
	return time.Duration(c.CartTTL) * time.Hour
}

// NoticeTTL is how long warnings and contact messages stay visible.
func (c *Config) NoticeTTL() time.Duration {
	return time.Duration(c.NoticeTTLMs) * time.Millisecond
}

// CartNoticeTTL is how long the "added to order" notification stays visible.
func (c *Config) CartNoticeTTL() time.Duration {
	return time.Duration(c.CartNoticeTTLMs) * time.Millisecond
}

// ContactSubmitDelay is the simulated sending time of the contact form.
func (c *Config) ContactSubmitDelay() time.Duration {
	return time.Duration(c.ContactSubmitDelayMs) * time.Millisecond
}

// SessionIdle is how long an untouched session stays in memory.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// JanitorInterval is how often idle sessions are swept.
func (c *Config) JanitorInterval() time.Duration {
	return time.Duration(c.JanitorIntervalSecs) * time.Second
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.StorageBackend {
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis storage backend")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageRedis, StorageMemory, c.StorageBackend)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("CART_TTL_HOURS must be positive, got %d", c.CartTTL)
	}
	if c.NoticeTTLMs < 1 || c.CartNoticeTTLMs < 1 {
		return fmt.Errorf("NOTICE_TTL_MS and CART_NOTICE_TTL_MS must be positive")
	}
	if c.ContactSubmitDelayMs < 0 {
		return fmt.Errorf("CONTACT_SUBMIT_DELAY_MS must not be negative, got %d", c.ContactSubmitDelayMs)
	}
	if c.SessionIdleMinutes < 1 || c.JanitorIntervalSecs < 1 {
		return fmt.Errorf("SESSION_IDLE_MINUTES and JANITOR_INTERVAL_SECONDS must be positive")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.OTELSampleRate)
	}
	return nil
}
