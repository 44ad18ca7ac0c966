// internal/common/config/config.go
package config

import "fmt"

// Config is the root configuration for the estate client and CLI.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	API       APIConfig       `mapstructure:"api"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Chat      ChatConfig      `mapstructure:"chat"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig describes how to reach the marketplace backend.
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
	UserAgent string `mapstructure:"user_agent"`
	// Token is an optional pre-issued session token (bearer).
	Token string `mapstructure:"token"`
	// RegistryPath points at a JSON endpoint table replacing the built-in one.
	RegistryPath string `mapstructure:"registry_path"`
}

// CacheConfig selects the response cache used for tagged queries.
type CacheConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Backend string      `mapstructure:"backend"` // memory|redis
	TTL     int         `mapstructure:"ttl"`     // milliseconds
	Prefix  string      `mapstructure:"prefix"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the optional /metrics listener.
type MetricsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Address     string `mapstructure:"address"`
	ServiceName string `mapstructure:"service_name"`
}

type RecommendConfig struct {
	MaxItems       int `mapstructure:"max_items"`
	CandidateLimit int `mapstructure:"candidate_limit"`
}

type ChatConfig struct {
	Greeting string `mapstructure:"greeting"`
}

// Redacted returns a copy safe for logging.
func (c Config) Redacted() Config {
	out := c
	if out.API.Token != "" {
		out.API.Token = "***"
	}
	if out.Cache.Redis.Password != "" {
		out.Cache.Redis.Password = "***"
	}
	return out
}

func (r RedisConfig) String() string {
	return fmt.Sprintf("redis://%s/%d", r.Address, r.DB)
}
