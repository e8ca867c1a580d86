// Package repository memoizes idempotent provider lookups.
package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/okian/pitchside/pkg/metrics"
)

// Cache is a TTL plus LRU map with load-through. It is safe for concurrent use.
type Cache[K comparable, V any] struct {
	name  string
	opts  cacheOptions
	store *expirable.LRU[K, V]
	group singleflight.Group

	closed   atomic.Bool
	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewCache creates a cache. name labels its metrics.
func NewCache[K comparable, V any](name string, opts ...Option) *Cache[K, V] {
	o := cacheOptions{
		ttl:                   defaultTTL,
		maxEntries:            defaultMaxEntries,
		loadTimeout:           defaultLoadTimeout,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[K, V]{
		name:     name,
		opts:     o,
		store:    expirable.NewLRU[K, V](o.maxEntries, nil, o.ttl),
		stopChan: make(chan struct{}),
	}
}

// Get returns a fresh cached value.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.store.Get(key)
}

// GetOrLoad returns the cached value for key, calling load on a miss.
// Concurrent misses for the same key share a single load. The load runs
// detached from the caller's cancellation, bounded by the load timeout, so a
// departing caller does not fail the others. Failed loads are not cached.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K, load func(context.Context) (V, error)) (V, error) {
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}
	if v, ok := c.store.Get(key); ok {
		metrics.RecordCacheHit(c.name)
		return v, nil
	}

	ch := c.group.DoChan(fmt.Sprint(key), func() (any, error) {
		if v, ok := c.store.Get(key); ok {
			return v, nil
		}
		metrics.RecordCacheMiss(c.name)

		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.loadTimeout)
		defer cancel()
		v, err := load(lctx)
		if err != nil {
			return nil, err
		}
		if !c.closed.Load() {
			c.store.Add(key, v)
		}
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Len returns the number of stored entries.
func (c *Cache[K, V]) Len() int {
	return c.store.Len()
}

// Start runs the background metrics updater until ctx is done or Close is called.
func (c *Cache[K, V]) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.opts.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateCacheEntries(c.name, c.Len())
			}
		}
	}()
}

// Close stops the background updater, drops every entry and rejects further loads.
func (c *Cache[K, V]) Close() {
	c.stopOnce.Do(func() {
		c.closed.Store(true)
		close(c.stopChan)
		c.wg.Wait()
		c.store.Purge()
	})
}
