package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"assetpipe/internal/manifest"
)

func TestManifestListAndPrune(t *testing.T) {
	env := setupCLITestEnv(t, `version = "v1"`)
	env.writeSiteFile(t, "a.js", "var a = 1")
	env.writeSiteFile(t, "images/logo.png", "PNG")

	if _, _, err := runCLIWithInput(t, []string{"bundle", "js", "--id", "main"}, env.configPath, `<script src="/a.js"></script>`); err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if _, _, err := runCLI(t, []string{"rewrite", "/images/logo.png"}, env.configPath); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	out, _, err := runCLI(t, []string{"manifest", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("manifest list: %v", err)
	}
	requireContains(t, out, "Javascripts")
	requireContains(t, out, "Images")
	requireContains(t, out, "main")

	out, _, err = runCLI(t, []string{"--json", "manifest", "list", "--context", "javascripts"}, env.configPath)
	if err != nil {
		t.Fatalf("manifest list --json: %v", err)
	}
	var rows []manifest.Artifact
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode json: %v (%s)", err, out)
	}
	if len(rows) != 1 || rows[0].AssetID != "main" || rows[0].Version != "v1" {
		t.Fatalf("unexpected rows %#v", rows)
	}
	published := filepath.Join(env.outDir, filepath.FromSlash(rows[0].RelPath))

	out, _, err = runCLI(t, []string{"manifest", "prune"}, env.configPath)
	if err != nil {
		t.Fatalf("manifest prune: %v", err)
	}
	requireContains(t, out, "Pruned 0 artifact(s)")

	out, _, err = runCLI(t, []string{"manifest", "prune", "--keep", "v2", "--delete-files"}, env.configPath)
	if err != nil {
		t.Fatalf("manifest prune --keep: %v", err)
	}
	requireContains(t, out, "Pruned 2 artifact(s)")
	requireContains(t, out, "Deleted 2 file(s)")
	if _, err := os.Stat(published); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be deleted, stat err=%v", published, err)
	}

	out, _, err = runCLI(t, []string{"manifest", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("manifest list after prune: %v", err)
	}
	requireContains(t, out, "No artifacts recorded")
}

func TestManifestListWithoutDatabase(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"manifest", "list"}, env.configPath)
	if err == nil {
		t.Fatal("expected error when no manifest exists")
	}
	requireContains(t, err.Error(), "no manifest at")
}

func TestVersionSkipsConfig(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, filepath.Join(t.TempDir(), "missing", "config.toml"))
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "assetpipe dev")
}
