package rewrite

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"assetpipe/internal/asset"
	"assetpipe/internal/cdn"
	"assetpipe/internal/compress"
	"assetpipe/internal/logging"
	"assetpipe/internal/services"
)

// Source reads raw asset bytes. *fetch.Fetcher satisfies it.
type Source interface {
	RemoteBytes(ctx context.Context, rawURL string) ([]byte, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Options wires a Rewriter.
type Options struct {
	// HTTPBase is the public CDN base URL. Empty disables rewriting.
	HTTPBase  string
	Minify    bool
	Source    Source
	Allocator cdn.Allocator
	// Strategy compresses script assets when Minify is set. Nil uses esbuild.
	Strategy compress.Strategy
	Logger   *slog.Logger
}

// Rewriter maps single asset references to published CDN URLs.
type Rewriter struct {
	httpBase  string
	minify    bool
	source    Source
	allocator cdn.Allocator
	strategy  compress.Strategy
	logger    *slog.Logger
}

// New validates opts and returns a Rewriter.
func New(opts Options) (*Rewriter, error) {
	httpBase := strings.TrimRight(strings.TrimSpace(opts.HTTPBase), "/")
	if httpBase != "" && (opts.Source == nil || opts.Allocator == nil) {
		return nil, services.Wrap(services.ErrConfiguration, "rewrite", "new rewriter", "source and allocator required when CDN is enabled", nil)
	}
	strategy := opts.Strategy
	if strategy == nil {
		strategy = compress.Lazy(func() (compress.Strategy, error) {
			return compress.JavaScript(), nil
		})
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Rewriter{
		httpBase:  httpBase,
		minify:    opts.Minify,
		source:    opts.Source,
		allocator: opts.Allocator,
		strategy:  strategy,
		logger:    logging.NewComponentLogger(logger, "rewrite"),
	}, nil
}

// Enabled reports whether references are rewritten.
func (r *Rewriter) Enabled() bool {
	return r.httpBase != ""
}

// Path publishes the asset src and returns its CDN URL. Remote URLs are
// downloaded; other paths are read relative to base, which is either a
// directory or a file whose directory is used. With the CDN disabled src is
// returned unchanged.
func (r *Rewriter) Path(ctx context.Context, src, base string) (string, error) {
	if !r.Enabled() {
		return src, nil
	}
	u, err := url.Parse(src)
	if err != nil {
		return "", services.NewResourceError(services.ErrResourceNotFound, src, err)
	}
	ext := path.Ext(u.Path)

	var raw []byte
	if u.Scheme != "" {
		fetchURL := *u
		fetchURL.Fragment = ""
		fetchURL.RawFragment = ""
		raw, err = r.source.RemoteBytes(ctx, fetchURL.String())
	} else {
		raw, err = r.source.ReadFile(ctx, resolveLocal(base, u.Path))
	}
	if err != nil {
		return "", err
	}

	id := asset.DeriveID(u.Path)
	contextDir := asset.ContextDirFor(ext)
	content := raw
	if r.minify && asset.IsScriptExt(ext) {
		content = compress.Guard(raw, r.strategy, logging.WithContext(ctx, r.logger))
	}

	rel, err := r.allocator.Add(ctx, string(contextDir), id, ext, content)
	if err != nil {
		return "", err
	}

	result := r.httpBase + "/" + rel
	if u.RawQuery != "" || u.ForceQuery {
		result += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		result += "#" + u.EscapedFragment()
	}

	logging.WithContext(ctx, r.logger).Debug("asset rewritten",
		logging.String("source", src),
		logging.String("url", result),
		logging.String("context_dir", string(contextDir)),
	)
	return result, nil
}

// URL wraps Path in a CSS url() expression. With the CDN disabled it returns
// url(src).
func (r *Rewriter) URL(ctx context.Context, src, base string) (string, error) {
	p, err := r.Path(ctx, src, base)
	if err != nil {
		return "", err
	}
	return "url(" + p + ")", nil
}

func resolveLocal(base, p string) string {
	dir := base
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		dir = filepath.Dir(base)
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}
