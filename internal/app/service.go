// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pitchside/internal/adapters/mq/queue"
	"github.com/okian/pitchside/internal/adapters/mq/worker"
	"github.com/okian/pitchside/internal/adapters/repository"
	"github.com/okian/pitchside/internal/adapters/sessionstore"
	"github.com/okian/pitchside/internal/domain/dedupe"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/session"
	"github.com/okian/pitchside/internal/domain/types"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

const (
	defaultMaxResultsCap   = 100
	defaultEventTableLimit = 5000
	defaultPrefetchWorkers = 2
	defaultPrefetchQueue   = 256
	prefetchDedupeTTL      = 10 * time.Minute
)

// Provider is the event-data lookup surface, usually a repository.CachedProvider.
type Provider = repository.Provider

// Service implements the API dependencies for the match dashboard.
type Service struct {
	mu sync.RWMutex

	provider Provider
	sessions sessionstore.Store

	sessionDefaults session.Config
	maxResultsCap   int
	eventTableLimit int

	prefetch          bool
	prefetchWorkers   int
	prefetchQueueSize int
	prefetchQueue     *queue.InMemoryQueue
	prefetchPool      *worker.Pool
	prefetchSeen      dedupe.Deduper[int]

	started   bool
	startedAt time.Time
	newID     func() string
	now       func() time.Time

	logger logger.Logger
}

// New constructs a Service over provider.
func New(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider:          provider,
		maxResultsCap:     defaultMaxResultsCap,
		eventTableLimit:   defaultEventTableLimit,
		prefetchWorkers:   defaultPrefetchWorkers,
		prefetchQueueSize: defaultPrefetchQueue,
		newID:             func() string { return uuid.NewString() },
		now:               time.Now,
		logger:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = sessionstore.NewMemory(0)
	}
	return s
}

// Start launches background components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting match service...")

	if s.prefetch {
		s.prefetchQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.prefetchQueueSize))
		s.prefetchSeen = dedupe.New[int](
			dedupe.WithMaxSize(s.prefetchQueueSize*4),
			dedupe.WithTTL(prefetchDedupeTTL),
		)
		s.prefetchPool = worker.NewPool(s.prefetchWorkers, s.prefetchQueue, s.provider,
			worker.WithLogger(s.logger.Named("prefetch")),
			worker.WithOnDone(func(job queue.Job, err error) {
				if err != nil {
					s.prefetchSeen.Unrecord(job.MatchID)
				}
			}),
		)
		s.prefetchPool.Start(ctx)
	}

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "match service started",
		logger.Bool("prefetch", s.prefetch),
		logger.Int("prefetchWorkers", s.prefetchWorkers),
		logger.Int("maxResultsCap", s.maxResultsCap),
	)
	return nil
}

// Stop shuts down background components and closes the session store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping match service...")

	var errs []error
	if s.prefetchPool != nil {
		if err := s.prefetchPool.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.sessions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close session store: %w", err))
	}

	s.started = false
	s.logger.Info(ctx, "match service stopped")
	return errors.Join(errs...)
}

// enqueuePrefetch queues every match not already queued recently. Full queues drop work silently.
func (s *Service) enqueuePrefetch(ctx context.Context, matches []model.Match) {
	s.mu.RLock()
	q, seen := s.prefetchQueue, s.prefetchSeen
	s.mu.RUnlock()
	if q == nil {
		return
	}
	cached, _ := s.provider.(interface{ HasEvents(int) bool })
	for i := range matches {
		id := matches[i].ID
		if cached != nil && cached.HasEvents(id) {
			continue
		}
		if seen.SeenAndRecord(id) {
			continue
		}
		if err := q.Enqueue(ctx, queue.Job{MatchID: id}); err != nil {
			seen.Unrecord(id)
			metrics.RecordPrefetchJob("dropped")
			s.logger.Debug(ctx, "prefetch not queued", logger.Int("match_id", id), logger.Error(err))
			if errors.Is(err, queue.ErrClosed) {
				return
			}
			continue
		}
		metrics.RecordPrefetchJob("queued")
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	st := types.Stats{
		Goroutines:  runtime.NumGoroutine(),
		MemoryBytes: mem.Alloc,
	}
	if s.started {
		st.UptimeSeconds = s.now().Sub(s.startedAt).Seconds()
	}
	if n, err := s.sessions.Count(ctx); err == nil {
		st.ActiveSessions = n
		metrics.UpdateActiveSessions(n)
	}
	if c, ok := s.provider.(interface{ Entries() int }); ok {
		st.CacheEntries = c.Entries()
	}
	if s.prefetchQueue != nil {
		st.PrefetchQueued = int64(s.prefetchQueue.Len())
		counts := s.prefetchPool.Counts()
		st.PrefetchDone, st.PrefetchFailed = counts.Done, counts.Failed
		metrics.UpdatePrefetchQueueSize(s.prefetchQueue.Len())
	}
	metrics.UpdateSystemGoroutineCount(st.Goroutines)
	metrics.UpdateSystemMemoryUsage(st.MemoryBytes)
	return st
}
