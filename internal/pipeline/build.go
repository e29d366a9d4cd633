package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"assetpipe/internal/asset"
	"assetpipe/internal/bundle"
	"assetpipe/internal/cdn"
	"assetpipe/internal/logging"
	"assetpipe/internal/services"
)

// Build is one render pass. Bundle results are cached for the lifetime of the
// Build only.
type Build struct {
	id          string
	site        *Site
	scripts     *bundle.Aggregator
	stylesheets *bundle.Aggregator
	scriptCache *bundle.Cache
	styleCache  *bundle.Cache
	logger      *slog.Logger
}

// Stats summarizes a build. Published counts cover every build of the site.
type Stats struct {
	BuildID     string            `json:"build_id"`
	Scripts     bundle.CacheStats `json:"scripts"`
	Stylesheets bundle.CacheStats `json:"stylesheets"`
	Published   cdn.Stats         `json:"published"`
}

// NewBuild starts a build with a fresh run id and empty caches.
func (s *Site) NewBuild() (*Build, error) {
	b := &Build{
		id:          uuid.NewString(),
		site:        s,
		scriptCache: bundle.NewCache(),
		styleCache:  bundle.NewCache(),
	}
	b.logger = s.logger.With(logging.String(logging.FieldBuildID, b.id))

	var err error
	if b.scripts, err = s.newAggregator(asset.Script, s.cfg.JavascriptsDir(), b.scriptCache); err != nil {
		return nil, err
	}
	if b.stylesheets, err = s.newAggregator(asset.Stylesheet, s.cfg.StylesheetsDir(), b.styleCache); err != nil {
		return nil, err
	}
	b.logger.Debug("build started")
	return b, nil
}

func (s *Site) newAggregator(kind asset.Kind, contextDir string, cache *bundle.Cache) (*bundle.Aggregator, error) {
	profileOpts := bundle.ProfileOptions{ContextDir: contextDir}
	if kind == asset.Script {
		profileOpts.Strategy = s.jsStrategy
	}
	profile, err := bundle.ProfileFor(kind, profileOpts)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "bundle profile", kind.String(), err)
	}
	return bundle.NewAggregator(bundle.Options{
		Profile:    profile,
		HTTPBase:   s.cfg.CDN.HTTPBase,
		Classifier: s.classifier,
		Minify:     s.cfg.CDN.Minify,
		Strict:     s.cfg.CDN.StrictReferences,
		Source:     s.fetcher,
		Allocator:  s.allocator,
		Cache:      cache,
		Logger:     s.logger,
	})
}

// ID returns the build run id.
func (b *Build) ID() string {
	return b.id
}

// Javascripts resolves a fragment of <script> elements into one bundle tag.
func (b *Build) Javascripts(ctx context.Context, id, markup string) (string, error) {
	return b.scripts.Resolve(services.WithBuildID(ctx, b.id), id, markup)
}

// Stylesheets resolves a fragment of stylesheet <link> elements into one
// bundle tag.
func (b *Build) Stylesheets(ctx context.Context, id, markup string) (string, error) {
	return b.stylesheets.Resolve(services.WithBuildID(ctx, b.id), id, markup)
}

// Resolve dispatches on kind.
func (b *Build) Resolve(ctx context.Context, kind asset.Kind, id, markup string) (string, error) {
	switch kind {
	case asset.Script:
		return b.Javascripts(ctx, id, markup)
	case asset.Stylesheet:
		return b.Stylesheets(ctx, id, markup)
	default:
		return "", services.Wrap(services.ErrConfiguration, "pipeline", "resolve", "unknown kind "+kind.String(), nil)
	}
}

// CDN publishes a single asset referenced from a page. A base-url prefix is
// removed and the remainder resolves against the site source directory.
// With the CDN disabled src is returned unchanged.
func (b *Build) CDN(ctx context.Context, src string) (string, error) {
	if !b.site.cfg.Enabled() {
		return src, nil
	}
	if rel, ok := b.site.classifier.StripLocal(src); ok {
		src = rel
	}
	return b.site.rewriter.Path(services.WithBuildID(ctx, b.id), src, b.site.cfg.Site.SourceDir)
}

// StylesheetURL publishes an asset referenced from the stylesheet at file
// and returns a CSS url() expression.
func (b *Build) StylesheetURL(ctx context.Context, src, file string) (string, error) {
	return b.site.rewriter.URL(services.WithBuildID(ctx, b.id), src, file)
}

// Rewrite publishes src resolved against base, a file or directory, and
// returns its CDN URL.
func (b *Build) Rewrite(ctx context.Context, src, base string) (string, error) {
	return b.site.rewriter.Path(services.WithBuildID(ctx, b.id), src, base)
}

// Stats returns cache and publish counters for the build.
func (b *Build) Stats() Stats {
	stats := Stats{
		BuildID:     b.id,
		Scripts:     b.scriptCache.Stats(),
		Stylesheets: b.styleCache.Stats(),
	}
	if b.site.publisher != nil {
		stats.Published = b.site.publisher.Stats()
	}
	return stats
}
