// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Errors wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ProviderBaseURL is the root of the StatsBomb open-data tree.
	ProviderBaseURL string `koanf:"provider_base_url"`

	// ProviderTimeoutMS bounds every provider lookup.
	ProviderTimeoutMS int `koanf:"provider_timeout_ms"`

	// CacheTTLSeconds is how long provider lookups stay memoized. 0 keeps them until evicted.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// CacheMaxEntries bounds each lookup cache.
	CacheMaxEntries int `koanf:"cache_max_entries"`

	// SessionStore selects the session backend: memory or sqlite.
	SessionStore string `koanf:"session_store"`

	// SessionDBPath is the SQLite file used when SessionStore is sqlite.
	SessionDBPath string `koanf:"session_db_path"`

	// SessionTTLMinutes expires idle sessions. 0 keeps them forever.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// MaxResultsCap is the upper bound accepted for the max results field.
	MaxResultsCap int `koanf:"max_results_cap"`

	// DefaultMaxResults, DefaultWindowStart and DefaultWindowEnd seed new sessions.
	DefaultMaxResults  int    `koanf:"default_max_results"`
	DefaultWindowStart string `koanf:"default_window_start"`
	DefaultWindowEnd   string `koanf:"default_window_end"`

	// EventTableLimit caps GET /api/matches/{id}/events?limit.
	EventTableLimit int `koanf:"event_table_limit"`

	// PrefetchEnabled warms the event cache for every match of a listed season.
	PrefetchEnabled   bool `koanf:"prefetch_enabled"`
	PrefetchWorkers   int  `koanf:"prefetch_workers"`
	PrefetchQueueSize int  `koanf:"prefetch_queue_size"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config with defaults. Context is accepted first to satisfy the
// project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		ProviderBaseURL:    "https://raw.githubusercontent.com/statsbomb/open-data/master/data",
		ProviderTimeoutMS:  15_000,
		CacheTTLSeconds:    600,
		CacheMaxEntries:    256,
		SessionStore:       "memory",
		SessionDBPath:      "pitchside.db",
		SessionTTLMinutes:  120,
		MaxResultsCap:      100,
		DefaultMaxResults:  100,
		DefaultWindowStart: "00:00",
		DefaultWindowEnd:   "90:00",
		EventTableLimit:    5_000,
		PrefetchEnabled:    false,
		PrefetchWorkers:    2,
		PrefetchQueueSize:  256,
		MetricsEnabled:     true,
	}
}

// ProviderTimeout returns ProviderTimeoutMS as a duration.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutMS) * time.Millisecond
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SessionTTL returns SessionTTLMinutes as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
