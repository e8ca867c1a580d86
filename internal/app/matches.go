package service

import (
	"context"
	"fmt"

	"github.com/okian/pitchside/internal/domain/filter"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/stats"
	"github.com/okian/pitchside/internal/domain/types"
)

// Competitions lists every competition with its seasons.
func (s *Service) Competitions(ctx context.Context) ([]model.Competition, error) {
	return s.provider.Competitions(ctx)
}

func (s *Service) competition(ctx context.Context, competitionID int) (model.Competition, error) {
	all, err := s.provider.Competitions(ctx)
	if err != nil {
		return model.Competition{}, err
	}
	for i := range all {
		if all[i].ID == competitionID {
			return all[i], nil
		}
	}
	return model.Competition{}, fmt.Errorf("competition %d: %w", competitionID, ErrNotFound)
}

// Seasons lists the seasons of one competition.
func (s *Service) Seasons(ctx context.Context, competitionID int) ([]model.Season, error) {
	c, err := s.competition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	return c.Seasons, nil
}

// Matches lists the fixtures of a competition season and, when enabled, queues
// their events for prefetch.
func (s *Service) Matches(ctx context.Context, competitionID, seasonID int) ([]model.Match, error) {
	out, err := s.provider.Matches(ctx, competitionID, seasonID)
	if err != nil {
		return nil, err
	}
	if s.prefetch {
		// the request context ends with the response; jobs outlive it
		s.enqueuePrefetch(context.WithoutCancel(ctx), out)
	}
	return out, nil
}

// Match returns one fixture of a competition season.
func (s *Service) Match(ctx context.Context, competitionID, seasonID, matchID int) (model.Match, error) {
	all, err := s.provider.Matches(ctx, competitionID, seasonID)
	if err != nil {
		return model.Match{}, err
	}
	for i := range all {
		if all[i].ID == matchID {
			return all[i], nil
		}
	}
	return model.Match{}, fmt.Errorf("match %d in %d/%d: %w", matchID, competitionID, seasonID, ErrNotFound)
}

// MatchSummary assembles the header of a match view: score, goals, shots per side
// and per-team counts.
func (s *Service) MatchSummary(ctx context.Context, competitionID, seasonID, matchID int) (types.MatchSummary, error) {
	c, err := s.competition(ctx, competitionID)
	if err != nil {
		return types.MatchSummary{}, err
	}
	m, err := s.Match(ctx, competitionID, seasonID, matchID)
	if err != nil {
		return types.MatchSummary{}, err
	}
	events, err := s.provider.Events(ctx, matchID)
	if err != nil {
		return types.MatchSummary{}, err
	}

	seasonName := ""
	for _, se := range c.Seasons {
		if se.ID == seasonID {
			seasonName = se.Name
			break
		}
	}
	return types.MatchSummary{
		Match:       m,
		Competition: c.Name,
		Season:      seasonName,
		Goals:       stats.Goals(events),
		HomeShots:   stats.ShotsByTeam(events, m.HomeTeam),
		AwayShots:   stats.ShotsByTeam(events, m.AwayTeam),
		TeamCounts:  stats.SortedTeamCounts(events),
		Events:      len(events),
	}, nil
}

// Events returns the first limit events of a match. limit <= 0 or above the
// table limit selects the table limit.
func (s *Service) Events(ctx context.Context, matchID, limit int) ([]model.Event, error) {
	events, err := s.provider.Events(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.eventTableLimit {
		limit = s.eventTableLimit
	}
	return filter.Truncate(events, limit), nil
}

// Players lists the players of a match in order of first appearance.
func (s *Service) Players(ctx context.Context, matchID int) ([]string, error) {
	events, err := s.provider.Events(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return stats.Players(events), nil
}

// PlayerMetrics returns the metrics tuple and profile of one player. An unknown
// player yields zeros.
func (s *Service) PlayerMetrics(ctx context.Context, matchID int, player string) (stats.Metrics, types.PlayerProfile, error) {
	events, err := s.provider.Events(ctx, matchID)
	if err != nil {
		return stats.Metrics{}, types.PlayerProfile{}, err
	}
	return stats.ComputeMetrics(events, player), stats.Profile(events, player), nil
}

// PlayerProfiles returns a profile for every player of a match.
func (s *Service) PlayerProfiles(ctx context.Context, matchID int) ([]types.PlayerProfile, error) {
	events, err := s.provider.Events(ctx, matchID)
	if err != nil {
		return nil, err
	}
	players := stats.Players(events)
	out := make([]types.PlayerProfile, 0, len(players))
	for _, p := range players {
		out = append(out, stats.Profile(events, p))
	}
	return out, nil
}

// PlayerEvents returns the events of one player.
func (s *Service) PlayerEvents(ctx context.Context, matchID int, player string) ([]model.Event, error) {
	events, err := s.provider.Events(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return stats.ByPlayer(events, player), nil
}

// TeamCounts returns per-team passes and shots ordered by team.
func (s *Service) TeamCounts(ctx context.Context, matchID int) ([]types.TeamCount, error) {
	events, err := s.provider.Events(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return stats.SortedTeamCounts(events), nil
}

// Pitch returns pass and shot overlay data, for one player when player is set.
func (s *Service) Pitch(ctx context.Context, matchID int, player string) (types.Pitch, error) {
	events, err := s.ExportEvents(ctx, matchID, player)
	if err != nil {
		return types.Pitch{}, err
	}
	return stats.PitchOf(events), nil
}

// ExportEvents returns every event of a match, or of one player when player is set.
func (s *Service) ExportEvents(ctx context.Context, matchID int, player string) ([]model.Event, error) {
	events, err := s.provider.Events(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if player != "" {
		return stats.ByPlayer(events, player), nil
	}
	return filter.Truncate(events, len(events)), nil
}
