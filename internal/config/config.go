package config

import (
	"fmt"

	pkgconfig "github.com/jschof1/val-des-roses/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Cart snapshot storage: "redis" or "badger".
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"redis"`

	// Redis (cart snapshots and the catalog cache)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Badger (embedded alternative for single-node deployments)
	BadgerPath string `env:"BADGER_PATH" envDefault:"./data/carts"`

	// Cart TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Catalog cache TTL in seconds
	CatalogCacheTTL int `env:"CATALOG_CACHE_TTL_SECONDS" envDefault:"300"`

	// Commerce platform credentials. Leave unset (or keep the template
	// placeholders) to run against the built-in demo catalog.
	StoreDomain      string `env:"STORE_DOMAIN" envDefault:""`
	StoreAccessToken string `env:"STORE_ACCESS_TOKEN" envDefault:""`
	StoreAPIVersion  string `env:"STORE_API_VERSION" envDefault:"2023-10"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Pprof debug endpoints are only reachable from these networks.
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`

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

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.StorageBackend != "redis" && c.StorageBackend != "badger" {
		return fmt.Errorf("invalid storage backend: %q", c.StorageBackend)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("cart TTL must be at least one hour, got %d", c.CartTTL)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}
