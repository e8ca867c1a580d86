package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/pitchside/internal/adapters/http/api"
	"github.com/okian/pitchside/internal/adapters/http/site"
	"github.com/okian/pitchside/internal/adapters/http/swagger"
	"github.com/okian/pitchside/internal/adapters/provider"
	"github.com/okian/pitchside/internal/adapters/repository"
	"github.com/okian/pitchside/internal/adapters/sessionstore"
	app "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/config"
	"github.com/okian/pitchside/internal/domain/session"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 45 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	requestTimeout            = 40 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Initialize logging with defaults; the configured format is applied once config is loaded
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.SetEnabled(cfg.MetricsEnabled)

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "pitchside stopped with error", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run wires the components described by cfg and serves HTTP until ctx ends.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, cleanup, err := buildService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// buildService assembles provider, cache, session store and service. The
// returned cleanup stops them in reverse order.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, func(), error) {
	client := provider.New(
		provider.WithBaseURL(cfg.ProviderBaseURL),
		provider.WithTimeout(cfg.ProviderTimeout()),
		provider.WithLogger(log.Named("provider")),
	)
	cached := repository.NewCachedProvider(client,
		repository.WithTTL(cfg.CacheTTL()),
		repository.WithMaxEntries(cfg.CacheMaxEntries),
	)
	cached.Start(ctx)

	store, err := sessionstore.Open(cfg.SessionStore, cfg.SessionDBPath, cfg.SessionTTL())
	if err != nil {
		cached.Close()
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithSessionStore(store),
		app.WithSessionDefaults(session.Config{
			MaxResults:  cfg.DefaultMaxResults,
			WindowStart: cfg.DefaultWindowStart,
			WindowEnd:   cfg.DefaultWindowEnd,
		}),
		app.WithMaxResultsCap(cfg.MaxResultsCap),
		app.WithEventTableLimit(cfg.EventTableLimit),
	}
	if cfg.PrefetchEnabled {
		opts = append(opts, app.WithPrefetch(cfg.PrefetchWorkers, cfg.PrefetchQueueSize))
	}

	svc := app.New(cached, opts...)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		cached.Close()
		return nil, nil, fmt.Errorf("start service: %w", err)
	}

	cleanup := func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			log.Error(stopCtx, "service stop failed", logger.Error(err))
		}
		cached.Close()
	}
	return svc, cleanup, nil
}

// newRouter mounts the API, the docs and the dashboard on one chi router.
func newRouter(ctx context.Context, svc *app.Service, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	apiServer := api.NewServer(svc,
		api.WithLogger(log.Named("http")),
		api.WithRequestTimeout(requestTimeout),
	)
	apiServer.Use(r)
	apiServer.Register(r)

	// API docs at /api-docs and /openapi.yaml
	swagger.Register(ctx, r)

	// Dashboard at / and the match report
	site.Register(ctx, r, svc)
	return r
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
