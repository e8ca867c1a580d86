// Package sessionstore persists dashboard session state.
package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/okian/pitchside/internal/domain/session"
)

// Sentinel kinds for session persistence.
var (
	ErrNotFound = errors.New("session not found")
	ErrInvalid  = errors.New("invalid session")
)

// Store keeps session state keyed by session ID.
type Store interface {
	// Get returns the state of id, or ErrNotFound when missing or expired.
	Get(ctx context.Context, id string) (session.State, error)
	// Put creates or replaces the state under s.ID.
	Put(ctx context.Context, s session.State) error
	// Delete drops id. Deleting an unknown id returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Count returns the number of live sessions.
	Count(ctx context.Context) (int, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Open builds the store named by backend.
func Open(backend, dsn string, ttl time.Duration) (Store, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemory(ttl), nil
	case BackendSQLite:
		return OpenSQLite(dsn, ttl)
	default:
		return nil, errors.New("unknown session store " + backend)
	}
}

func expired(s session.State, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(s.UpdatedAt) >= ttl
}
