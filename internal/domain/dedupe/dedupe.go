// Package dedupe tracks recently seen keys so the same work is not queued twice.
package dedupe

import (
	"container/list"
	"sync"
	"time"
)

// Deduper records keys that were already handed out for processing.
type Deduper[K comparable] interface {
	// SeenAndRecord reports whether key was already recorded, recording it if not.
	SeenAndRecord(key K) bool
	// Unrecord forgets key so it can be recorded again, e.g. after a failed enqueue.
	Unrecord(key K)
	Size() int
}

type entry[K comparable] struct {
	key     K
	expires time.Time
}

// seenSet is a mutex-guarded set with oldest-first eviction and an optional TTL.
type seenSet[K comparable] struct {
	mu      sync.Mutex
	items   map[K]*list.Element
	order   *list.List // front is oldest
	maxSize int        // <= 0 means unbounded
	ttl     time.Duration
	now     func() time.Time
}

// New creates a deduper. By default it keeps at most 4096 keys forever.
func New[K comparable](opts ...Option) Deduper[K] {
	o := options{maxSize: 4096, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &seenSet[K]{
		items:   make(map[K]*list.Element),
		order:   list.New(),
		maxSize: o.maxSize,
		ttl:     o.ttl,
		now:     o.now,
	}
}

func (s *seenSet[K]) SeenAndRecord(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if el, ok := s.items[key]; ok {
		if s.ttl <= 0 || now.Before(el.Value.(*entry[K]).expires) {
			return true
		}
		s.remove(el)
	}

	if s.maxSize > 0 {
		for len(s.items) >= s.maxSize {
			s.remove(s.order.Front())
		}
	}
	e := &entry[K]{key: key}
	if s.ttl > 0 {
		e.expires = now.Add(s.ttl)
	}
	s.items[key] = s.order.PushBack(e)
	return false
}

func (s *seenSet[K]) Unrecord(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		s.remove(el)
	}
}

func (s *seenSet[K]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// remove must be called with s.mu held.
func (s *seenSet[K]) remove(el *list.Element) {
	e := el.Value.(*entry[K])
	delete(s.items, e.key)
	s.order.Remove(el)
}
