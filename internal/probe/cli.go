package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/pitchside/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "probe_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`Pitchside Probe
===============

Walks a running pitchside server and checks the filter pipeline on live data:
result counts against max_results, window bounds, event type and player
selection, provider order, a local rerun of every submitted form, per-team
counts, zero metrics for an unknown player and export row counts.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -competition int
        Competition to probe (default: first listed)
  -season int
        Season to probe (default: first of the competition)
  -matches int
        Number of matches to probe (default 5)
  -workers int
        Number of concurrent workers (default CPU cores)
  -max-results int
        max_results submitted with every form (default 25)
  -window string
        Window end submitted with every form (default "45:00")
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for probe output (default: probe_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Probe the first five matches of the first season
  go run ./cmd/probe

  # Probe the 2022 World Cup with eight workers
  go run ./cmd/probe -competition 43 -season 106 -matches 64 -workers 8

  # Probe full matches with a large result cap
  go run ./cmd/probe -window 120:00 -max-results 100 -verbose
`)
}
