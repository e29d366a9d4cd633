package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBundleJavascriptsFromStdin(t *testing.T) {
	env := setupCLITestEnv(t, `version = "v1"`)
	env.writeSiteFile(t, "js/a.js", "var a = 1")
	env.writeSiteFile(t, "js/b.js", "var b = 2")

	markup := `<script src="/js/a.js"></script><script src="/js/b.js"></script>`
	out, _, err := runCLIWithInput(t, []string{"bundle", "js", "--id", "main"}, env.configPath, markup)
	if err != nil {
		t.Fatalf("bundle js: %v", err)
	}
	tag := strings.TrimSpace(out)
	prefix := "<script src='http://cdn.test/javascripts/main-v1-"
	if !strings.HasPrefix(tag, prefix) || !strings.HasSuffix(tag, ".js'></script>") {
		t.Fatalf("unexpected tag %q", tag)
	}

	rel := strings.TrimSuffix(strings.TrimPrefix(tag, "<script src='http://cdn.test/"), "'></script>")
	data, err := os.ReadFile(filepath.Join(env.outDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}
	requireContains(t, string(data), "/* Original File: js/a.js */\nvar a = 1;")
	requireContains(t, string(data), "/* Original File: js/b.js */\nvar b = 2;")
}

func TestBundleStylesheetsFromFileJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeSiteFile(t, "stylesheets/site.css", "body{}")
	fragment := filepath.Join(env.baseDir, "head.html")
	if err := os.WriteFile(fragment, []byte(`<link rel="stylesheet" href="/stylesheets/site.css">`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"--json", "bundle", "css", "--id", "site", fragment}, env.configPath)
	if err != nil {
		t.Fatalf("bundle css: %v", err)
	}
	var result bundleResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode json: %v (%s)", err, out)
	}
	if result.ID != "site" || result.Kind != "stylesheet" {
		t.Fatalf("unexpected result %+v", result)
	}
	requireContains(t, result.Tag, "href='http://cdn.test/stylesheets/site-")
	if result.Stats.Published.Written != 1 || result.Stats.BuildID == "" {
		t.Fatalf("unexpected stats %+v", result.Stats)
	}
}

func TestBundleRequiresID(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLIWithInput(t, []string{"bundle", "js"}, env.configPath, ""); err == nil {
		t.Fatal("expected missing --id to fail")
	}
	if _, _, err := runCLIWithInput(t, []string{"bundle", "images", "--id", "x"}, env.configPath, ""); err == nil {
		t.Fatal("expected unknown kind to fail")
	}
}

func TestBundleMissingReferenceFails(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLIWithInput(t, []string{"bundle", "js", "--id", "main"}, env.configPath, `<script src="/missing.js"></script>`)
	if err == nil {
		t.Fatal("expected missing reference to fail")
	}
	requireContains(t, err.Error(), "missing.js")
}
