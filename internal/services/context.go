package services

import "context"

type contextKey string

const (
	buildIDKey  contextKey = "build_id"
	bundleIDKey contextKey = "bundle_id"
	kindKey     contextKey = "asset_kind"
)

// WithBuildID annotates context with the build run identifier.
func WithBuildID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, buildIDKey, id)
}

// BuildIDFromContext extracts the build run identifier if present.
func BuildIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(buildIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithBundleID annotates context with the logical bundle id being resolved.
func WithBundleID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, bundleIDKey, id)
}

// BundleIDFromContext returns the bundle id if present.
func BundleIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(bundleIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithKind annotates context with the asset kind (script, stylesheet).
func WithKind(ctx context.Context, kind string) context.Context {
	if kind == "" {
		return ctx
	}
	return context.WithValue(ctx, kindKey, kind)
}

// KindFromContext returns the asset kind if present.
func KindFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(kindKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
