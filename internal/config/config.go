// Package config loads service configuration from the environment.
// All settings live under the BONDMON_ prefix; loading fails fast so a
// misconfigured service never starts half-wired.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full service configuration.
type Config struct {
	App      AppConfig
	Log      LogConfig
	Server   ServerConfig
	Cache    CacheConfig
	Ledger   LedgerConfig
	Gateway  GatewayConfig
	Health   HealthConfig
	Remote   RemoteConfig
	Postgres PostgresConfig
	Redis    RedisConfig
}

// AppConfig identifies the running service.
type AppConfig struct {
	Version string `default:"dev"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `default:"info"`
	Pretty bool   `default:"false"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host            string        `default:"0.0.0.0"`
	Port            int           `default:"8080"`
	ReadTimeout     time.Duration `default:"10s"`
	WriteTimeout    time.Duration `default:"30s"`
	ShutdownTimeout time.Duration `default:"15s"`
}

// CacheConfig controls the bond record cache.
type CacheConfig struct {
	// Capacity bounds the number of live entries; 0 is unbounded.
	Capacity      int           `default:"1000"`
	DefaultTTL    time.Duration `split_words:"true" default:"1h"`
	SweepInterval time.Duration `split_words:"true" default:"5m"`
}

// LedgerConfig controls the error ledger.
type LedgerConfig struct {
	MaxRecords     int           `split_words:"true" default:"1000"`
	CriticalWindow time.Duration `split_words:"true" default:"1h"`
}

// GatewayConfig controls the external data gateway.
type GatewayConfig struct {
	TTL            time.Duration `default:"1h"`
	MaxConcurrency int           `split_words:"true" default:"5"`
	FetchTimeout   time.Duration `split_words:"true" default:"15s"`
}

// HealthConfig controls the health registry.
type HealthConfig struct {
	CheckTimeout  time.Duration `split_words:"true" default:"10s"`
	CheckInterval time.Duration `split_words:"true" default:"30s"`
	RunInterval   time.Duration `split_words:"true" default:"1m"`
}

// RemoteConfig points at the upstream bond data endpoint.
type RemoteConfig struct {
	BaseURL          string        `split_words:"true" required:"true"`
	Timeout          time.Duration `default:"30s"`
	UserAgent        string        `split_words:"true" default:"bondmon/1.0"`
	BreakerThreshold uint32        `split_words:"true" default:"5"`
	BreakerCooldown  time.Duration `split_words:"true" default:"30s"`
}

// PostgresConfig enables the database health check when URL is set.
type PostgresConfig struct {
	URL string `default:""`
}

// RedisConfig enables the redis health check when Addr is set.
type RedisConfig struct {
	Addr     string `default:""`
	Password string `default:""`
	DB       int    `default:"0"`
}

// Load reads configuration from BONDMON_-prefixed environment
// variables and fails on missing or malformed values.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("bondmon", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
