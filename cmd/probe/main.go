package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/pitchside/internal/probe"
)

// Default configuration constants.
const (
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", probe.DefaultBaseURL, "Base URL of the service")
		competitionID = flag.Int("competition", 0, "Competition to probe (default: first listed)")
		seasonID      = flag.Int("season", 0, "Season to probe (default: first of the competition)")
		matches       = flag.Int("matches", probe.DefaultMatches, "Number of matches to probe")
		workers       = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		maxResults    = flag.Int("max-results", probe.DefaultMaxResults, "max_results submitted with every form")
		window        = flag.String("window", probe.DefaultWindowEnd, "Window end submitted with every form")
		timeout       = flag.Duration("timeout", probe.DefaultTimeout, "HTTP request timeout")
		logFile       = flag.String("log", "", "Log file for probe output (default: probe_log_TIMESTAMP.log)")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
		help          = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	// Setup logging
	if err := probe.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &probe.Config{
		BaseURL:       *baseURL,
		CompetitionID: *competitionID,
		SeasonID:      *seasonID,
		Matches:       *matches,
		Workers:       *workers,
		MaxResults:    *maxResults,
		Window:        *window,
		Timeout:       *timeout,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	_, err := probe.Run(ctx, config)
	cancel()
	if err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		if errors.Is(err, probe.ErrViolated) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
