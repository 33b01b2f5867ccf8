// Package cli implements the hasse command-line interface.
//
// Commands build lattices from closure-operator inputs, inspect and edit
// stored lattice documents, render Hasse diagrams and serve the HTTP API.
// The CLI is built on cobra; status output is styled with lipgloss and
// diagnostics go through charmbracelet/log.
//
// # Commands
//
//   - build: Build lattices from input files (JSON, YAML or TOML)
//   - info, ranks, vertex, dual-faces: Query a lattice document
//   - delete: Remove nodes and renumber the rest
//   - migrate: Convert between the DIMS layout and the rank index layout
//   - render: Draw the Hasse diagram as SVG, PNG or DOT
//   - browse: Page through ranks interactively
//   - trees: Enumerate spanning trees of a graphic matroid input
//   - collapse: Compute the discrete Morse vector by lexicographic collapse
//   - serve: Run the HTTP API
//   - cache: Manage the lattice cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried on the command context.
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
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Built 3 lattices (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
