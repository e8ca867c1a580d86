package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/pitchside/internal/adapters/sessionstore"
	"github.com/okian/pitchside/internal/domain/filter"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/session"
	"github.com/okian/pitchside/internal/domain/stats"
	"github.com/okian/pitchside/internal/domain/types"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// CreateSession starts a session on matchID with the form defaults. A match
// without events has nothing to explore and is reported as not found.
func (s *Service) CreateSession(ctx context.Context, matchID int) (session.State, error) {
	events, err := s.provider.Events(ctx, matchID)
	if err != nil {
		return session.State{}, err
	}
	if len(events) == 0 {
		return session.State{}, fmt.Errorf("match %d has no events: %w", matchID, ErrNotFound)
	}

	st := session.Defaults(s.newID(), matchID, stats.Players(events), s.sessionDefaults, s.now())
	if st.MaxResults > s.maxResultsCap {
		st.MaxResults = s.maxResultsCap
	}
	if err := s.sessions.Put(ctx, st); err != nil {
		return session.State{}, fmt.Errorf("store session: %w", err)
	}
	s.refreshSessionGauge(ctx)
	s.logger.Debug(ctx, "session created", logger.String("session_id", st.ID), logger.Int("match_id", matchID))
	return st, nil
}

// Session returns the stored state of id.
func (s *Service) Session(ctx context.Context, id string) (session.State, error) {
	st, err := s.sessions.Get(ctx, id)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return session.State{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return st, err
}

// DeleteSession drops id.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	err := s.sessions.Delete(ctx, id)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err == nil {
		s.refreshSessionGauge(ctx)
	}
	return err
}

// SubmitFilters applies a form submission: the state is updated, validated and
// persisted, then the filter pipeline runs over the match events. When the form
// asks for a comparison both players are profiled over the unfiltered events.
// A rejected form leaves the stored state untouched.
func (s *Service) SubmitFilters(ctx context.Context, id string, form session.Form) (session.State, types.FilterResult, error) {
	st, err := s.Session(ctx, id)
	if err != nil {
		return session.State{}, types.FilterResult{}, err
	}
	next := st.Apply(form, s.now())

	spec, err := next.Spec(s.maxResultsCap)
	if err != nil {
		if ce := filter.AsConfigurationError(err); ce != nil {
			metrics.RecordConfigurationError(ce.Field)
		}
		return st, types.FilterResult{}, err
	}

	events, err := s.provider.Events(ctx, next.MatchID)
	if err != nil {
		return st, types.FilterResult{}, err
	}

	if err := s.sessions.Put(ctx, next); err != nil {
		return st, types.FilterResult{}, fmt.Errorf("store session: %w", err)
	}

	return next, s.run(events, next, spec), nil
}

// SessionView reruns the pipeline for the stored state of id.
func (s *Service) SessionView(ctx context.Context, id string) (session.State, []model.Event, error) {
	st, err := s.Session(ctx, id)
	if err != nil {
		return session.State{}, nil, err
	}
	spec, err := st.Spec(s.maxResultsCap)
	if err != nil {
		return st, nil, err
	}
	events, err := s.provider.Events(ctx, st.MatchID)
	if err != nil {
		return st, nil, err
	}
	return st, s.run(events, st, spec).Events, nil
}

func (s *Service) run(events []model.Event, st session.State, spec filter.Spec) types.FilterResult {
	filtered := filter.Apply(events, spec)
	metrics.RecordFilterApplied(spec.Selector.String(), len(filtered))

	res := types.FilterResult{Events: filtered, Count: len(filtered)}
	if st.Compare {
		res.Comparison = &types.Comparison{
			Player1: stats.Profile(events, st.Player1),
			Player2: stats.Profile(events, st.Player2),
		}
	}
	return res
}

func (s *Service) refreshSessionGauge(ctx context.Context) {
	if n, err := s.sessions.Count(ctx); err == nil {
		metrics.UpdateActiveSessions(n)
	}
}
