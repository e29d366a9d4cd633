package services_test

import (
	"context"
	"testing"

	"assetpipe/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBuildID(ctx, "build-1")
	ctx = services.WithBundleID(ctx, "main")
	ctx = services.WithKind(ctx, "script")

	if id, ok := services.BuildIDFromContext(ctx); !ok || id != "build-1" {
		t.Fatalf("unexpected build id: %v %v", id, ok)
	}
	if id, ok := services.BundleIDFromContext(ctx); !ok || id != "main" {
		t.Fatalf("unexpected bundle id: %v %v", id, ok)
	}
	if kind, ok := services.KindFromContext(ctx); !ok || kind != "script" {
		t.Fatalf("unexpected kind: %v %v", kind, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBundleID(ctx, "")
	ctx = services.WithBuildID(ctx, "")
	if _, ok := services.BundleIDFromContext(ctx); ok {
		t.Fatal("expected no bundle id value")
	}
	if _, ok := services.BuildIDFromContext(ctx); ok {
		t.Fatal("expected no build id value")
	}
}
