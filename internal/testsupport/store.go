package testsupport

import (
	"context"
	"path"
	"testing"

	"assetpipe/internal/config"
	"assetpipe/internal/manifest"
)

// MustOpenManifest opens the manifest configured in cfg and registers cleanup.
func MustOpenManifest(t testing.TB, cfg *config.Config) *manifest.Store {
	t.Helper()

	store, err := manifest.Open(context.Background(), cfg.CDN.ManifestPath)
	if err != nil {
		t.Fatalf("manifest.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// Artifact returns a manifest row for rel with a fixed hash and size.
func Artifact(contextDir, id, version, rel string) manifest.Artifact {
	return manifest.Artifact{
		ContextDir:  contextDir,
		AssetID:     id,
		Ext:         path.Ext(rel),
		Version:     version,
		ContentHash: "abc123",
		RelPath:     rel,
		Size:        42,
	}
}

// MustRecord records every artifact or fails the test.
func MustRecord(t testing.TB, store *manifest.Store, artifacts ...manifest.Artifact) {
	t.Helper()
	for _, a := range artifacts {
		if err := store.Record(context.Background(), a); err != nil {
			t.Fatalf("record %s: %v", a.RelPath, err)
		}
	}
}
