package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" matches by prefix)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused bucket survives before cleanup drops it
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Settings is the flat form of Config as it appears in the service configuration.
type Settings struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default-limit"`
	DefaultWindow   time.Duration `mapstructure:"default-window"`
	CleanupInterval time.Duration `mapstructure:"cleanup-interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// NewConfig builds a limiter Config from settings, using the default endpoint tiers.
func NewConfig(s Settings) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}

	defaults := DefaultSettings()
	if s.DefaultLimit <= 0 {
		s.DefaultLimit = defaults.DefaultLimit
	}
	if s.DefaultWindow <= 0 {
		s.DefaultWindow = defaults.DefaultWindow
	}
	if s.CleanupInterval <= 0 {
		s.CleanupInterval = defaults.CleanupInterval
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		IdleTTL:         time.Hour,
		Whitelist:       toSet(s.Whitelist),
		Blacklist:       toSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Batch scoring and stored-profile ranking fan out over many jobs
		{Path: "/api/match/candidate-to-jobs", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/candidates/", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/jobs/", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},

		// Single computation per request
		{Path: "/analyze", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Reads of static data and /health fall through to the default or the unlimited case
	}
}

// toSet turns a list of client identifiers into a lookup set, skipping blanks.
func toSet(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item != "" {
			result[item] = true
		}
	}
	return result
}
