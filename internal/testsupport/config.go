package testsupport

import (
	"path/filepath"
	"testing"

	"assetpipe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// CDN publishing is enabled with http_base "http://cdn.test" unless an option
// overrides it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Site.SourceDir = filepath.Join(base, "site")
	cfgVal.CDN.HTTPBase = "http://cdn.test"
	cfgVal.CDN.OutDir = filepath.Join(base, "cdn")
	cfgVal.CDN.ManifestPath = filepath.Join(base, "cdn", ".assetpipe-manifest.db")
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL sets the site base URL used to recognise local references.
func WithBaseURL(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Site.BaseURL = baseURL
	}
}

// WithCDNBase overrides the CDN http base. An empty value disables publishing.
func WithCDNBase(httpBase string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.CDN.HTTPBase = httpBase
	}
}

// WithVersion sets the CDN version token.
func WithVersion(version string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.CDN.Version = version
	}
}

// WithMinify enables JavaScript minification.
func WithMinify() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.CDN.Minify = true
	}
}

// WithStrictReferences makes unrecognized references fail bundle resolution.
func WithStrictReferences() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.CDN.StrictReferences = true
	}
}

// WithPrecompress enables precompressed sidecars for the given codecs.
func WithPrecompress(codecs ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.CDN.Precompress = codecs
	}
}

// WithoutManifest disables the artifact manifest.
func WithoutManifest() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.CDN.ManifestPath = ""
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.CDN.OutDir)
}
