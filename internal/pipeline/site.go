package pipeline

import (
	"context"
	"log/slog"
	"net/http"

	"assetpipe/internal/asset"
	"assetpipe/internal/cdn"
	"assetpipe/internal/compress"
	"assetpipe/internal/config"
	"assetpipe/internal/fetch"
	"assetpipe/internal/logging"
	"assetpipe/internal/manifest"
	"assetpipe/internal/rewrite"
	"assetpipe/internal/services"
)

type siteOptions struct {
	renderer   fetch.Renderer
	httpClient *http.Client
	allocator  cdn.Allocator
}

// Option customizes Site construction.
type Option func(*siteOptions)

// WithRenderer replaces the default file renderer for local references.
func WithRenderer(renderer fetch.Renderer) Option {
	return func(o *siteOptions) {
		o.renderer = renderer
	}
}

// WithHTTPClient replaces the HTTP client used for remote references.
func WithHTTPClient(client *http.Client) Option {
	return func(o *siteOptions) {
		o.httpClient = client
	}
}

// WithAllocator replaces the filesystem publisher. No manifest is opened.
func WithAllocator(allocator cdn.Allocator) Option {
	return func(o *siteOptions) {
		o.allocator = allocator
	}
}

// Site holds the collaborators shared by every build of one site.
type Site struct {
	cfg        *config.Config
	logger     *slog.Logger
	classifier *asset.Classifier
	fetcher    *fetch.Fetcher
	allocator  cdn.Allocator
	publisher  *cdn.Publisher
	manifest   *manifest.Store
	jsStrategy compress.Strategy
	rewriter   *rewrite.Rewriter
}

// New builds a Site from cfg. When CDN publishing is enabled the output
// directory is created and, unless WithAllocator is given, the manifest is
// opened.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Site, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new site", "config required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	var o siteOptions
	for _, opt := range opts {
		opt(&o)
	}

	renderer := o.renderer
	if renderer == nil {
		renderer = fetch.FileRenderer{Root: cfg.Site.SourceDir}
	}
	fetchOpts := []fetch.Option{
		fetch.WithTimeout(cfg.HTTP.Timeout()),
		fetch.WithUserAgent(cfg.HTTP.UserAgent),
		fetch.WithLogger(logger),
	}
	if o.httpClient != nil {
		fetchOpts = append(fetchOpts, fetch.WithHTTPClient(o.httpClient))
	}

	site := &Site{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		classifier: asset.NewClassifier(cfg.Site.BaseURL),
		fetcher:    fetch.New(renderer, fetchOpts...),
		allocator:  o.allocator,
		jsStrategy: compress.Lazy(func() (compress.Strategy, error) {
			return compress.JavaScript(), nil
		}),
	}

	if cfg.Enabled() && site.allocator == nil {
		if err := site.openPublisher(ctx, logger); err != nil {
			_ = site.Close()
			return nil, err
		}
	}

	rewriter, err := rewrite.New(rewrite.Options{
		HTTPBase:  cfg.CDN.HTTPBase,
		Minify:    cfg.CDN.Minify,
		Source:    site.fetcher,
		Allocator: site.allocator,
		Strategy:  site.jsStrategy,
		Logger:    logger,
	})
	if err != nil {
		_ = site.Close()
		return nil, err
	}
	site.rewriter = rewriter

	site.logger.Debug("site ready",
		logging.Bool("cdn_enabled", cfg.Enabled()),
		logging.String("http_base", cfg.CDN.HTTPBase),
		logging.String("out_dir", cfg.CDN.OutDir),
		logging.String("version", cfg.CDN.Version),
		logging.Bool("minify", cfg.CDN.Minify),
	)
	return site, nil
}

func (s *Site) openPublisher(ctx context.Context, logger *slog.Logger) error {
	if err := s.cfg.EnsureDirectories(); err != nil {
		return services.Wrap(services.ErrConfiguration, "pipeline", "ensure directories", "", err)
	}
	publisherOpts := []cdn.Option{
		cdn.WithVersion(s.cfg.CDN.Version),
		cdn.WithPrecompress(s.cfg.CDN.Precompress...),
		cdn.WithLogger(logger),
	}
	if s.cfg.CDN.ManifestPath != "" {
		store, err := manifest.Open(ctx, s.cfg.CDN.ManifestPath)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "pipeline", "open manifest", s.cfg.CDN.ManifestPath, err)
		}
		s.manifest = store
		publisherOpts = append(publisherOpts, cdn.WithRecorder(store))
	}
	publisher, err := cdn.NewPublisher(s.cfg.CDN.OutDir, publisherOpts...)
	if err != nil {
		return err
	}
	s.publisher = publisher
	s.allocator = publisher
	return nil
}

// Config returns the site configuration.
func (s *Site) Config() *config.Config {
	return s.cfg
}

// Manifest returns the artifact manifest, or nil when none is open.
func (s *Site) Manifest() *manifest.Store {
	return s.manifest
}

// Close releases the manifest.
func (s *Site) Close() error {
	if s == nil || s.manifest == nil {
		return nil
	}
	err := s.manifest.Close()
	s.manifest = nil
	if err != nil {
		return services.Wrap(services.ErrPublish, "pipeline", "close manifest", "", err)
	}
	return nil
}
