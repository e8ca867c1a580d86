package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/okian/pitchside/internal/domain/session"
)

// Memory is an in-process Store. Expired sessions are dropped lazily.
type Memory struct {
	mu    sync.RWMutex
	items map[string]session.State
	ttl   time.Duration
	now   func() time.Time
}

// NewMemory creates a Memory store. ttl <= 0 keeps sessions forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		items: make(map[string]session.State),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, id string) (session.State, error) {
	m.mu.RLock()
	s, ok := m.items[id]
	m.mu.RUnlock()
	if !ok {
		return session.State{}, ErrNotFound
	}
	if expired(s, m.ttl, m.now()) {
		m.mu.Lock()
		delete(m.items, id)
		m.mu.Unlock()
		return session.State{}, ErrNotFound
	}
	return s, nil
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, s session.State) error {
	if s.ID == "" {
		return ErrInvalid
	}
	m.mu.Lock()
	m.items[s.ID] = s
	m.mu.Unlock()
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// Count implements Store. It also sweeps expired sessions.
func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, s := range m.items {
		if expired(s, m.ttl, now) {
			delete(m.items, id)
		}
	}
	return len(m.items), nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
