package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/rarepour/pkg/logger"
)

// SetupLogging sends logs to stderr so stdout stays the result. Only
// warnings and errors are shown unless verbose is set.
func SetupLogging(verbose bool) error {
	return setupLogging(verbose, os.Stderr)
}

func setupLogging(verbose bool, w io.Writer) error {
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information for the recommend tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Rare Pour offline recommender
=============================

Runs the recommendation engine once against local festival data.

Usage:
  go run ./cmd/recommend [options]

Options:
  -data string
        Directory with schedule.json, wine_list.json, preferences.txt and
        master_classes.json (default "data")
  -at string
        Evaluation time as 2006-01-02T15:04 (default: now)
  -house string
        Comma separated preferred houses (replaces preferences.txt)
  -size string
        any, large, magnum, jeroboam, methuselah or nabuchodonosor
  -older-than int
        Prefer vintages in or before this year
  -attended string
        Comma separated master class ids you are booked on
  -exclude string
        Comma separated wines to leave out
  -ignore-tasted
        Keep wines already tasted at attended master classes
  -tz string
        Time zone of the schedule (default "Europe/Helsinki")
  -verbose
        Enable debug logging on stderr
  -help
        Show this help message

Examples:
  # What is next on Friday morning?
  go run ./cmd/recommend -data ./data -at 2025-04-25T10:00

  # Only Krug and Bollinger, large formats
  go run ./cmd/recommend -house Krug,Bollinger -size magnum
`)
}
