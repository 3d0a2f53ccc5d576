// Package cli implements the plugfetch command-line interface.
//
// plugfetch resolves packages against npm-compatible registries and unpacks
// them into a local plugin directory. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
//   - info: Resolve a version or range and print the matching release
//   - fetch: Resolve, download and extract a package
//   - config: Inspect the config file location and effective settings
//   - completion: Generate shell completion scripts
//
// # Configuration
//
// Settings come from a TOML file (see package config), overridden by the
// --registry, --token and --user-agent flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces every registry request. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Fetched lodash@4.17.21 (412ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
