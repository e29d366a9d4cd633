package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"assetpipe/internal/config"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	WriteContent(t, path, string(buf))
}

// WriteContent writes content to path, creating parent directories.
func WriteContent(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteSiteFile writes a file into the site source tree of cfg and returns its
// absolute path.
func WriteSiteFile(t testing.TB, cfg *config.Config, sitePath, content string) string {
	t.Helper()

	full := filepath.Join(cfg.Site.SourceDir, filepath.FromSlash(sitePath))
	WriteContent(t, full, content)
	return full
}

// ReadPublished returns the content of a file under the CDN output directory.
func ReadPublished(t testing.TB, cfg *config.Config, relPath string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(cfg.CDN.OutDir, filepath.FromSlash(relPath)))
	if err != nil {
		t.Fatalf("read published %s: %v", relPath, err)
	}
	return string(data)
}
