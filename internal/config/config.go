// Package config loads service configuration from defaults, an optional config
// file and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/job-match/internal/server/ratelimit"
	"github.com/jonathan/job-match/internal/types"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable derived from a config key.
const EnvPrefix = "JOB_MATCH"

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// Config is the full runtime configuration.
type Config struct {
	Server         ServerConfig       `mapstructure:"server"`
	DatabaseURL    string             `mapstructure:"database-url"`
	Redis          RedisConfig        `mapstructure:"redis"`
	JWT            JWTConfig          `mapstructure:"jwt"`
	RateLimit      ratelimit.Settings `mapstructure:"rate-limit"`
	Weights        types.WeightConfig `mapstructure:"weights"`
	Workers        int                `mapstructure:"workers"`
	SchemasDir     string             `mapstructure:"schemas-dir"`
	TaxonomyFile   string             `mapstructure:"taxonomy-file"`
	EmployerEmails []string           `mapstructure:"employer-emails"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	CORSOrigin string `mapstructure:"cors-origin"`
}

// RedisConfig controls the optional match result cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache-ttl"`
}

// SetDefaults registers default values on v. Every key must have a default so
// that AutomaticEnv can resolve it during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors-origin", "*")

	v.SetDefault("database-url", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache-ttl", 15*time.Minute)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration-hours", 24)

	rl := ratelimit.DefaultSettings()
	v.SetDefault("rate-limit.enabled", rl.Enabled)
	v.SetDefault("rate-limit.default-limit", rl.DefaultLimit)
	v.SetDefault("rate-limit.default-window", rl.DefaultWindow)
	v.SetDefault("rate-limit.cleanup-interval", rl.CleanupInterval)
	v.SetDefault("rate-limit.whitelist", []string{})
	v.SetDefault("rate-limit.blacklist", []string{})

	v.SetDefault("weights.skill", 0.40)
	v.SetDefault("weights.location", 0.20)
	v.SetDefault("weights.salary", 0.15)
	v.SetDefault("weights.experience", 0.15)
	v.SetDefault("weights.role", 0.10)

	v.SetDefault("workers", 0)
	v.SetDefault("schemas-dir", "schemas")
	v.SetDefault("taxonomy-file", "")
	v.SetDefault("employer-emails", []string{})
}

// bindEnv wires the environment. JOB_MATCH_SERVER_PORT style names work for
// every key; a few keys also accept their conventional unprefixed names.
func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	conventional := map[string]string{
		"database-url":   "DATABASE_URL",
		"redis.addr":     "REDIS_ADDR",
		"redis.password": "REDIS_PASSWORD",
		"jwt.secret":     "JWT_SECRET",
		"server.port":    "PORT",
	}
	for key, env := range conventional {
		prefixed := EnvPrefix + "_" + envKeyReplacer.Replace(strings.ToUpper(key))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return fmt.Errorf("binding %s environment variable: %w", env, err)
		}
	}
	if err := v.BindEnv("jwt.expiration-hours", EnvPrefix+"_JWT_EXPIRATION_HOURS", "JWT_EXPIRATION_HOURS"); err != nil {
		return fmt.Errorf("binding JWT_EXPIRATION_HOURS environment variable: %w", err)
	}
	return nil
}

// Load reads configuration into a fresh Config. path may be empty, in which case
// only defaults and the environment are used.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges. A weight sum other than 1.0 is reported by
// Warnings, not here.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	if c.Redis.CacheTTL < 0 {
		return fmt.Errorf("config error: 'redis.cache-ttl' must be non-negative")
	}
	if c.JWT.Secret != "" {
		if err := c.JWT.normalize(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	return nil
}

// Warnings lists non-fatal problems worth logging at startup.
func (c *Config) Warnings() []string {
	var warnings []string
	if !c.Weights.SumIsNormal() {
		warnings = append(warnings, fmt.Sprintf("weights sum to %g, not 1.0; scores will not be on a 0-100 scale", c.Weights.Sum()))
	}
	if len(c.EmployerEmails) > 0 && c.JWT.Secret == "" {
		warnings = append(warnings, "employer-emails set without a JWT secret; the employer view stays disabled")
	}
	return warnings
}

// CacheEnabled reports whether a Redis address is configured.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}
