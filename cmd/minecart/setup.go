package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/minecart/internal/config"
	"github.com/vovakirdan/minecart/internal/ride"
)

// newLogger builds the process logger. Full-screen commands pass quiet so
// stderr logging does not tear the display; they still log to --log-file.
func newLogger(prefix string, quiet bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}

	var out io.Writer = os.Stderr
	closer := func() {}
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = func() { f.Close() }
	case quiet:
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closer, nil
}

// loadSetup reads the ride config and tile rules named by the global flags.
func loadSetup(logger *log.Logger) (ride.Setup, error) {
	cfg, err := config.LoadRide(flagConfig)
	if err != nil {
		return ride.Setup{}, err
	}
	cat, err := config.LoadRules(flagRules)
	if err != nil {
		return ride.Setup{}, err
	}
	logger.Debug("configuration loaded", "options", len(cat.All), "rails", len(cat.Rail))
	return ride.Setup{Config: cfg, Catalog: cat, Logger: logger, TickRate: flagFPS}, nil
}

// exitf prints an error and exits, the way every command reports failure.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
