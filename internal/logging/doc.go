// Package logging assembles structured slog loggers and formatting helpers used
// across the asset pipeline.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so bundle and rewrite code can
// automatically tag log lines with build run IDs, bundle IDs, and asset kinds.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
