package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"0"`
	Version     string `envconfig:"VERSION" default:"dev"`

	// APIKeyHash is the bcrypt hash of the shared API key. Empty disables the check.
	APIKeyHash string `envconfig:"API_KEY_HASH" default:""`

	DefaultCurrency     string        `envconfig:"DEFAULT_CURRENCY" default:"USD"`
	EditorIdleTimeout   time.Duration `envconfig:"EDITOR_IDLE_TIMEOUT" default:"30m"`
	EditorSweepInterval time.Duration `envconfig:"EDITOR_SWEEP_INTERVAL" default:"1m"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	AMQPURL     string `envconfig:"AMQP_URL" default:""`
	EventsQueue string `envconfig:"EVENTS_QUEUE" default:"pricing.overrides.committed"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.EditorIdleTimeout <= 0 {
		return fmt.Errorf("EDITOR_IDLE_TIMEOUT must be positive, got %s", c.EditorIdleTimeout)
	}
	if c.EditorSweepInterval <= 0 {
		return fmt.Errorf("EDITOR_SWEEP_INTERVAL must be positive, got %s", c.EditorSweepInterval)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	return nil
}
