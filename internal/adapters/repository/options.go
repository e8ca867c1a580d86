package repository

import "time"

const (
	defaultTTL                   = 10 * time.Minute
	defaultMaxEntries            = 256
	defaultLoadTimeout           = 30 * time.Second
	defaultMetricsUpdateInterval = 5 * time.Second
)

type cacheOptions struct {
	ttl                   time.Duration
	maxEntries            int
	loadTimeout           time.Duration
	metricsUpdateInterval time.Duration
}

// Option configures a Cache.
type Option func(*cacheOptions)

// WithTTL sets how long an entry stays fresh. ttl <= 0 keeps entries until evicted.
func WithTTL(ttl time.Duration) Option {
	return func(o *cacheOptions) {
		o.ttl = ttl
	}
}

// WithMaxEntries bounds the number of entries; the least recently used goes first.
func WithMaxEntries(n int) Option {
	return func(o *cacheOptions) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// WithLoadTimeout bounds a shared load.
func WithLoadTimeout(d time.Duration) Option {
	return func(o *cacheOptions) {
		if d > 0 {
			o.loadTimeout = d
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(o *cacheOptions) {
		if interval > 0 {
			o.metricsUpdateInterval = interval
		}
	}
}
