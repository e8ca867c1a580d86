// Package worker runs the prefetch workers that warm the event cache.
package worker

import (
	"time"

	"github.com/okian/pitchside/internal/adapters/mq/queue"
	"github.com/okian/pitchside/pkg/logger"
)

// Option applies a configuration option to a Pool.
type Option func(*Pool)

// WithLogger sets the pool logger; workers log under named children of it.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithJobTimeout bounds each fetch.
func WithJobTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.jobTimeout = d
		}
	}
}

// WithOnDone registers a callback invoked after every job with its result.
func WithOnDone(fn func(job queue.Job, err error)) Option {
	return func(p *Pool) {
		p.onDone = fn
	}
}
