package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/session"
	"github.com/okian/pitchside/internal/domain/stats"
	"github.com/okian/pitchside/pkg/logger"
)

// Run probes the server described by config. It returns the run statistics
// and ErrViolated when any check failed.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	cfg := config.withDefaults()
	stats := &Stats{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	log := logger.Get().Named("probe")

	log.Info(ctx, "starting pitchside probe",
		logger.String("run_id", stats.RunID),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("matches", cfg.Matches),
		logger.Int("workers", cfg.Workers),
		logger.Int("maxResults", cfg.MaxResults),
		logger.String("window", cfg.Window),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.BaseURL, stats.RunID, cfg.Timeout)

	// Step 1: Check service health
	if err := client.health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Pick matches
	matches, err := pickMatches(ctx, client, cfg)
	if err != nil {
		return stats, fmt.Errorf("match discovery failed: %w", err)
	}

	// Step 3: Probe matches concurrently
	reports := probeMatches(ctx, client, cfg, matches, log)

	for _, r := range reports {
		stats.MatchesProbed++
		stats.ChecksPassed += r.passed
		stats.ChecksFailed += len(r.violations)
		stats.Violations = append(stats.Violations, r.violations...)
		if r.session {
			stats.Sessions++
		}
	}
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, log, stats)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if stats.ChecksFailed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrViolated, stats.ChecksFailed, stats.ChecksFailed+stats.ChecksPassed)
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

// pickMatches resolves the competition and season and returns up to cfg.Matches fixtures.
func pickMatches(ctx context.Context, client *HTTPClient, cfg *Config) ([]model.Match, error) {
	comps, err := client.competitions(ctx)
	if err != nil {
		return nil, err
	}
	var compID, seasonID int
	for _, c := range comps {
		if cfg.CompetitionID != 0 && c.ID != cfg.CompetitionID {
			continue
		}
		for _, s := range c.Seasons {
			if cfg.SeasonID == 0 || s.ID == cfg.SeasonID {
				compID, seasonID = c.ID, s.ID
				break
			}
		}
		if seasonID != 0 {
			break
		}
	}
	if seasonID == 0 {
		return nil, ErrNoCatalog
	}

	matches, err := client.matches(ctx, compID, seasonID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: competition %d season %d", ErrNoMatches, compID, seasonID)
	}
	if len(matches) > cfg.Matches {
		matches = matches[:cfg.Matches]
	}
	for i := range matches {
		matches[i].CompetitionID, matches[i].SeasonID = compID, seasonID
	}
	return matches, nil
}

// probeMatches fans matches out to cfg.Workers workers.
func probeMatches(ctx context.Context, client *HTTPClient, cfg *Config, matches []model.Match, log logger.Logger) []*report {
	matchChan := make(chan model.Match, cfg.Workers*2)
	var (
		mu      sync.Mutex
		reports []*report
		wg      sync.WaitGroup
	)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range matchChan {
				if ctx.Err() != nil {
					continue
				}
				r := probeMatch(ctx, client, cfg, m, log)
				mu.Lock()
				reports = append(reports, r)
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(matchChan)
		for _, m := range matches {
			select {
			case <-ctx.Done():
				return
			case matchChan <- m:
			}
		}
	}()

	wg.Wait()
	return reports
}

// probeMatch runs every check against one match. Transport failures are
// recorded as violations of the step that hit them.
func probeMatch(ctx context.Context, client *HTTPClient, cfg *Config, m model.Match, log logger.Logger) *report {
	r := &report{matchID: m.ID}
	fail := func(check string, err error) *report {
		r.check(check, false, "%v", err)
		log.Warn(ctx, "probe step failed", logger.Int("match_id", m.ID), logger.String("check", check), logger.Error(err))
		return r
	}

	sum, err := client.summary(ctx, m)
	if err != nil {
		return fail(CheckShotTotals, err)
	}
	all, err := client.events(ctx, m.ID)
	if err != nil {
		return fail(CheckRecompute, err)
	}
	counts, err := client.teamCounts(ctx, m.ID)
	if err != nil {
		return fail(CheckTeamCounts, err)
	}
	verifyTeamCounts(r, counts, all)
	verifyShotTotals(r, sum, counts)

	unknown, err := client.playerMetrics(ctx, m.ID, "probe-"+client.runID)
	if err != nil {
		return fail(CheckUnknownZero, err)
	}
	verifyUnknownPlayer(r, unknown)

	if len(all) == 0 {
		log.Info(ctx, "match has no events; skipping session checks", logger.Int("match_id", m.ID))
		return r
	}

	st, err := client.createSession(ctx, m.ID)
	if err != nil {
		return fail(CheckCount, err)
	}
	r.session = true
	defer func() {
		if err := client.deleteSession(context.WithoutCancel(ctx), st.ID); err != nil {
			log.Warn(ctx, "failed to delete probe session", logger.String("session_id", st.ID), logger.Error(err))
		}
	}()

	forms := []session.Form{
		{
			MaxResults:  &cfg.MaxResults,
			WindowStart: ptr(session.DefaultWindowStart),
			WindowEnd:   &cfg.Window,
			EventType:   ptr("all"),
			Compare:     ptr(true),
		},
		{EventType: ptr("passes")},
		{EventType: ptr("shots"), Compare: ptr(false)},
	}
	var last int
	for _, form := range forms {
		next, res, err := client.submitFilters(ctx, st.ID, form)
		if err != nil {
			return fail(CheckCount, err)
		}
		verifyFilterResult(r, next, res, all)
		last = res.Count
	}

	data, err := client.sessionExport(ctx, st.ID)
	if err != nil {
		return fail(CheckExport, err)
	}
	verifyExport(r, data, last)

	if cfg.Verbose {
		log.Info(ctx, "match probed",
			logger.Int("match_id", m.ID),
			logger.String("fixture", m.Label()),
			logger.Int("events", len(all)),
			logger.Int("players", len(stats.Players(all))),
			logger.Int("passed", r.passed),
			logger.Int("failed", len(r.violations)))
	}
	return r
}

func ptr[T any](v T) *T { return &v }

// displayFinalStats logs the final probe statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	for _, v := range stats.Violations {
		log.Error(ctx, "check failed",
			logger.Int("match_id", v.MatchID),
			logger.String("check", v.Check),
			logger.String("detail", v.Detail))
	}
	log.Info(ctx, "final statistics",
		logger.String("run_id", stats.RunID),
		logger.Int("matchesProbed", stats.MatchesProbed),
		logger.Int("sessions", stats.Sessions),
		logger.Int("checksPassed", stats.ChecksPassed),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.String("duration", stats.Duration.String()))
}
