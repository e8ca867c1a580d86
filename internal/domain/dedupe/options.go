package dedupe

import "time"

type options struct {
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Deduper.
type Option func(*options)

// WithMaxSize bounds the number of remembered keys; the oldest is evicted first.
// maxSize <= 0 keeps every key.
func WithMaxSize(maxSize int) Option {
	return func(o *options) {
		o.maxSize = maxSize
	}
}

// WithTTL forgets keys after ttl so they can be recorded again.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
