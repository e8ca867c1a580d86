package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/pitchside/internal/domain/filter"
)

// Environment variable names.
const (
	EnvPrefix = "PITCHSIDE_"
	EnvFile   = "PITCHSIDE_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if PITCHSIDE_CONFIG is set
//  3. env (prefix PITCHSIDE_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PITCHSIDE_CACHE_TTL_SECONDS -> cache_ttl_seconds (flat keys)
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.LogFormat != "text" && c.LogFormat != "json":
		return invalid("log_format must be text or json")
	case c.ProviderBaseURL == "":
		return invalid("provider_base_url must not be empty")
	case c.ProviderTimeoutMS <= 0:
		return invalid("provider_timeout_ms must be positive")
	case c.CacheTTLSeconds < 0:
		return invalid("cache_ttl_seconds must not be negative")
	case c.CacheMaxEntries <= 0:
		return invalid("cache_max_entries must be positive")
	case c.SessionStore != "memory" && c.SessionStore != "sqlite":
		return invalid("session_store must be memory or sqlite")
	case c.SessionStore == "sqlite" && c.SessionDBPath == "":
		return invalid("session_db_path must be set for the sqlite store")
	case c.SessionTTLMinutes < 0:
		return invalid("session_ttl_minutes must not be negative")
	case c.MaxResultsCap <= 0:
		return invalid("max_results_cap must be positive")
	case c.DefaultMaxResults < 1 || c.DefaultMaxResults > c.MaxResultsCap:
		return invalid("default_max_results must be between 1 and max_results_cap")
	case c.EventTableLimit <= 0:
		return invalid("event_table_limit must be positive")
	case c.PrefetchEnabled && c.PrefetchWorkers <= 0:
		return invalid("prefetch_workers must be positive when prefetch is enabled")
	case c.PrefetchEnabled && c.PrefetchQueueSize <= 0:
		return invalid("prefetch_queue_size must be positive when prefetch is enabled")
	}
	if _, err := filter.ParseWindow(c.DefaultWindowStart, c.DefaultWindowEnd); err != nil {
		return fmt.Errorf("%w: default window: %w", ErrInvalidConfig, err)
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
