package service

import (
	"time"

	"github.com/okian/pitchside/internal/adapters/sessionstore"
	"github.com/okian/pitchside/internal/domain/session"
	"github.com/okian/pitchside/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionStore sets where session state is kept. The default is an in-memory store.
func WithSessionStore(st sessionstore.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.sessions = st
		}
	}
}

// WithSessionDefaults sets the form defaults for new sessions.
func WithSessionDefaults(cfg session.Config) Option {
	return func(s *Service) {
		s.sessionDefaults = cfg
	}
}

// WithMaxResultsCap bounds the max results a form may ask for.
func WithMaxResultsCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResultsCap = n
		}
	}
}

// WithEventTableLimit caps event table requests.
func WithEventTableLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.eventTableLimit = n
		}
	}
}

// WithPrefetch enables cache warming with the given worker and queue sizes.
func WithPrefetch(workers, queueSize int) Option {
	return func(s *Service) {
		s.prefetch = true
		if workers > 0 {
			s.prefetchWorkers = workers
		}
		if queueSize > 0 {
			s.prefetchQueueSize = queueSize
		}
	}
}

// WithIDGenerator overrides session ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
