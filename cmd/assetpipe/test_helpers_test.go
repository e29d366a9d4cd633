package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	siteDir    string
	outDir     string
	configPath string
}

func setupCLITestEnv(t *testing.T, extra ...string) cliTestEnv {
	t.Helper()
	base := t.TempDir()
	env := cliTestEnv{
		baseDir:    base,
		siteDir:    filepath.Join(base, "site"),
		outDir:     filepath.Join(base, "cdn"),
		configPath: filepath.Join(base, "assetpipe.toml"),
	}
	if err := os.MkdirAll(env.siteDir, 0o755); err != nil {
		t.Fatalf("mkdir site: %v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[site]\nsource_dir = %q\n\n", env.siteDir)
	fmt.Fprintf(&b, "[cdn]\nhttp_base = %q\nout_dir = %q\n", "http://cdn.test", env.outDir)
	for _, line := range extra {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n[logging]\nlevel = \"error\"\n")
	if err := os.WriteFile(env.configPath, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e cliTestEnv) writeSiteFile(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(e.siteDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
