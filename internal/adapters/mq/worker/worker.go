package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pitchside/internal/adapters/mq/queue"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

const (
	defaultWorkers      = 2
	defaultJobTimeout   = 30 * time.Second
	poolShutdownTimeout = 30 * time.Second
)

// Fetcher loads the events of a match, typically through the cache.
type Fetcher interface {
	Events(ctx context.Context, matchID int) ([]model.Event, error)
}

// Source is where workers receive jobs from.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Counts summarises the jobs handled by a pool.
type Counts struct {
	Done   int64
	Failed int64
}

// Pool runs a fixed number of workers over a job source.
type Pool struct {
	source     Source
	fetcher    Fetcher
	size       int
	jobTimeout time.Duration
	onDone     func(job queue.Job, err error)
	logger     logger.Logger

	done   atomic.Int64
	failed atomic.Int64

	wg      sync.WaitGroup
	cancel  context.CancelFunc
	started atomic.Bool
}

// NewPool creates a pool of size workers. size < 1 selects the default.
func NewPool(size int, source Source, fetcher Fetcher, opts ...Option) *Pool {
	if size < 1 {
		size = defaultWorkers
	}
	p := &Pool{
		source:     source,
		fetcher:    fetcher,
		size:       size,
		jobTimeout: defaultJobTimeout,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the workers. They stop when ctx ends, the source closes or Shutdown is called.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	jobs := p.source.Dequeue(ctx)
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, p.logger.Named("worker-"+strconv.Itoa(i)), jobs)
	}
	metrics.UpdatePrefetchWorkers(p.size)
}

func (p *Pool) run(ctx context.Context, log logger.Logger, jobs <-chan queue.Job) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			err := p.process(ctx, job)
			if err != nil {
				log.Warn(ctx, "prefetch failed", logger.Int("match_id", job.MatchID), logger.Error(err))
			} else {
				log.Debug(ctx, "prefetched match", logger.Int("match_id", job.MatchID),
					logger.Duration("waited", time.Since(job.EnqueuedAt)))
			}
			if p.onDone != nil {
				p.onDone(job, err)
			}
		}
	}
}

func (p *Pool) process(ctx context.Context, job queue.Job) error {
	ctx, cancel := context.WithTimeout(ctx, p.jobTimeout)
	defer cancel()

	if _, err := p.fetcher.Events(ctx, job.MatchID); err != nil {
		p.failed.Add(1)
		metrics.RecordPrefetchJob("failed")
		metrics.RecordErrorByComponent("worker", "prefetch_error")
		return fmt.Errorf("prefetch match %d: %w", job.MatchID, err)
	}
	p.done.Add(1)
	metrics.RecordPrefetchJob("done")
	return nil
}

// Counts returns the number of finished and failed jobs.
func (p *Pool) Counts() Counts {
	return Counts{Done: p.done.Load(), Failed: p.failed.Load()}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Shutdown closes the source when it can be closed, stops the workers and
// waits for them until ctx or the pool shutdown timeout expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	if p.cancel != nil {
		p.cancel()
	}

	waited := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(waited)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()
	select {
	case <-waited:
		metrics.UpdatePrefetchWorkers(0)
		return nil
	case <-shutdownCtx.Done():
		p.logger.Warn(ctx, "worker shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", shutdownCtx.Err())
	}
}
