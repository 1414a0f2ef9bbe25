// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// CacheBackend selects the cache store implementation.
type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendRedis  CacheBackend = "redis"
)

// CacheConfig holds settings for the cache facade.
type CacheConfig struct {
	// Backend selects the store: memory or redis.
	Backend CacheBackend `json:"backend" yaml:"backend" mapstructure:"backend" validate:"oneof=memory redis"`

	// RedisURL is the connection URL for the redis backend
	// (e.g. "redis://localhost:6379/0"). Required when Backend is redis.
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" mapstructure:"redis_url" validate:"required_if=Backend redis"`

	// Namespace prefixes every cache key so Flush can clear this
	// engine's entries without touching a shared database.
	Namespace string `json:"namespace" yaml:"namespace" mapstructure:"namespace" validate:"required"`

	// TTL bounds staleness of cached provider lookups (default 600s).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl" validate:"gt=0"`
}

// RankingConfig holds settings for the ranking orchestrator.
type RankingConfig struct {
	// MaxResults is the default result limit when the caller does not
	// supply one (default 15). Negative means unbounded.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// SharesConfig holds settings for the bundled local share provider.
type SharesConfig struct {
	// Enabled controls whether the local provider is registered.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// DBPath is the SQLite database file holding share records.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path" validate:"required_if=Enabled true"`
}

// IdentityConfig holds settings for the static identity resolver.
type IdentityConfig struct {
	// DirectoryPath is the YAML file listing users, groups, and
	// circles with their memberships.
	DirectoryPath string `json:"directory_path" yaml:"directory_path" mapstructure:"directory_path" validate:"required"`
}

// HTTPConfig holds settings for the HTTP front-end.
type HTTPConfig struct {
	// Addr is the listen address (default ":8642").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr" validate:"required"`

	// ReadTimeout and WriteTimeout bound request handling.
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout" validate:"gt=0"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error"`

	// Console switches from JSON to human-readable console output.
	Console bool `json:"console" yaml:"console" mapstructure:"console"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	Cache    CacheConfig    `json:"cache" yaml:"cache" mapstructure:"cache"`
	Ranking  RankingConfig  `json:"ranking" yaml:"ranking" mapstructure:"ranking"`
	Shares   SharesConfig   `json:"shares" yaml:"shares" mapstructure:"shares"`
	Identity IdentityConfig `json:"identity" yaml:"identity" mapstructure:"identity"`
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}

// SetDefaults fills zero-valued fields with working defaults.
func (c *EngineConfig) SetDefaults() {
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheBackendMemory
	}
	if c.Cache.Namespace == "" {
		c.Cache.Namespace = "related-engine"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 600 * time.Second
	}
	if c.Ranking.MaxResults == 0 {
		c.Ranking.MaxResults = 15
	}
	if c.Shares.DBPath == "" {
		c.Shares.DBPath = "shares.db"
	}
	if c.Identity.DirectoryPath == "" {
		c.Identity.DirectoryPath = "directory.yaml"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8642"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration after defaults are applied.
func (c *EngineConfig) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}
