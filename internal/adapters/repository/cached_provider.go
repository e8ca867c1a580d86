package repository

import (
	"context"

	"github.com/okian/pitchside/internal/domain/model"
)

// Provider is the lookup surface of the event-data provider.
type Provider interface {
	Competitions(ctx context.Context) ([]model.Competition, error)
	Matches(ctx context.Context, competitionID, seasonID int) ([]model.Match, error)
	Events(ctx context.Context, matchID int) ([]model.Event, error)
}

type seasonKey struct {
	competitionID int
	seasonID      int
}

// CachedProvider memoizes every Provider lookup. Callers must treat returned
// slices as read-only; they are shared between callers.
type CachedProvider struct {
	next         Provider
	competitions *Cache[struct{}, []model.Competition]
	matches      *Cache[seasonKey, []model.Match]
	events       *Cache[int, []model.Event]
}

// NewCachedProvider wraps next. opts apply to each of the three caches.
func NewCachedProvider(next Provider, opts ...Option) *CachedProvider {
	return &CachedProvider{
		next:         next,
		competitions: NewCache[struct{}, []model.Competition]("competitions", opts...),
		matches:      NewCache[seasonKey, []model.Match]("matches", opts...),
		events:       NewCache[int, []model.Event]("events", opts...),
	}
}

// Competitions implements Provider.
func (p *CachedProvider) Competitions(ctx context.Context) ([]model.Competition, error) {
	return p.competitions.GetOrLoad(ctx, struct{}{}, p.next.Competitions)
}

// Matches implements Provider.
func (p *CachedProvider) Matches(ctx context.Context, competitionID, seasonID int) ([]model.Match, error) {
	return p.matches.GetOrLoad(ctx, seasonKey{competitionID, seasonID}, func(ctx context.Context) ([]model.Match, error) {
		return p.next.Matches(ctx, competitionID, seasonID)
	})
}

// Events implements Provider.
func (p *CachedProvider) Events(ctx context.Context, matchID int) ([]model.Event, error) {
	return p.events.GetOrLoad(ctx, matchID, func(ctx context.Context) ([]model.Event, error) {
		return p.next.Events(ctx, matchID)
	})
}

// HasEvents reports whether the events of matchID are cached and fresh.
func (p *CachedProvider) HasEvents(matchID int) bool {
	_, ok := p.events.Get(matchID)
	return ok
}

// Entries returns the number of cached lookups across all caches.
func (p *CachedProvider) Entries() int {
	return p.competitions.Len() + p.matches.Len() + p.events.Len()
}

// Start runs the background maintenance of every cache.
func (p *CachedProvider) Start(ctx context.Context) {
	p.competitions.Start(ctx)
	p.matches.Start(ctx)
	p.events.Start(ctx)
}

// Close stops background maintenance.
func (p *CachedProvider) Close() {
	p.competitions.Close()
	p.matches.Close()
	p.events.Close()
}
