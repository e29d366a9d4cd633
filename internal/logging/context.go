package logging

import (
	"context"
	"log/slog"

	"assetpipe/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering (e.g. bundle_published).
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for warnings and errors.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldBuildID is the standardized structured logging key for build run identifiers.
	FieldBuildID = "build_id"
	// FieldBundleID is the standardized structured logging key for logical bundle ids.
	FieldBundleID = "bundle_id"
	// FieldKind is the standardized structured logging key for asset kinds.
	FieldKind = "asset_kind"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.BuildIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldBuildID, id))
	}
	if id, ok := services.BundleIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldBundleID, id))
	}
	if kind, ok := services.KindFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldKind, kind))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(toArgs(fields)...)
}
