package bundle

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"assetpipe/internal/asset"
	"assetpipe/internal/cdn"
	"assetpipe/internal/compress"
	"assetpipe/internal/logging"
	"assetpipe/internal/services"
)

// Source fetches reference content. *fetch.Fetcher satisfies it.
type Source interface {
	Local(ctx context.Context, sitePath string) (string, error)
	Remote(ctx context.Context, rawURL string) (string, error)
}

// Options wires an Aggregator.
type Options struct {
	Profile Profile
	// HTTPBase is the public CDN base URL. Empty disables the aggregator.
	HTTPBase   string
	Classifier *asset.Classifier
	Minify     bool
	// Strict fails resolution on references that are neither local nor absolute URLs.
	Strict    bool
	Source    Source
	Allocator cdn.Allocator
	Cache     *Cache
	Logger    *slog.Logger
}

// Aggregator resolves bundles of a single kind.
type Aggregator struct {
	profile    Profile
	httpBase   string
	classifier *asset.Classifier
	minify     bool
	strict     bool
	source     Source
	allocator  cdn.Allocator
	cache      *Cache
	logger     *slog.Logger
}

// NewAggregator validates opts and returns an Aggregator.
func NewAggregator(opts Options) (*Aggregator, error) {
	if opts.Profile.Extract == nil || opts.Profile.Tag == nil {
		return nil, services.Wrap(services.ErrConfiguration, "bundle", "new aggregator", "profile requires Extract and Tag", nil)
	}
	httpBase := strings.TrimRight(strings.TrimSpace(opts.HTTPBase), "/")
	if httpBase != "" && (opts.Source == nil || opts.Allocator == nil) {
		return nil, services.Wrap(services.ErrConfiguration, "bundle", "new aggregator", "source and allocator required when CDN is enabled", nil)
	}
	classifier := opts.Classifier
	if classifier == nil {
		classifier = asset.NewClassifier("")
	}
	cache := opts.Cache
	if cache == nil {
		cache = NewCache()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Aggregator{
		profile:    opts.Profile,
		httpBase:   httpBase,
		classifier: classifier,
		minify:     opts.Minify,
		strict:     opts.Strict,
		source:     opts.Source,
		allocator:  opts.Allocator,
		cache:      cache,
		logger:     logging.NewComponentLogger(logger, "bundle"),
	}, nil
}

// Enabled reports whether bundles are published.
func (a *Aggregator) Enabled() bool {
	return a.httpBase != ""
}

// Kind returns the bundle kind handled by a.
func (a *Aggregator) Kind() asset.Kind {
	return a.profile.Kind
}

// Resolve returns the tag loading the published bundle for markup. With the
// CDN disabled markup is returned unchanged. A fragment without recognized
// references resolves to "". Results are cached by exact markup, so a later
// call with the same markup returns the first tag regardless of id.
func (a *Aggregator) Resolve(ctx context.Context, id, markup string) (string, error) {
	if !a.Enabled() {
		return markup, nil
	}
	ctx = services.WithBundleID(ctx, id)
	ctx = services.WithKind(ctx, a.profile.Kind.String())
	shared := context.WithoutCancel(ctx)
	return a.cache.Do(ctx, markup, func() (string, error) {
		return a.build(shared, id, markup)
	})
}

func (a *Aggregator) build(ctx context.Context, id, markup string) (string, error) {
	logger := logging.WithContext(ctx, a.logger)

	refs, err := a.profile.Extract(markup)
	if err != nil {
		return "", services.Wrap(services.ErrPublish, "bundle", "extract references", id, err)
	}

	var payload strings.Builder
	fetched := 0
	for _, raw := range refs {
		ref, ok := a.classifier.Classify(raw)
		if !ok {
			if a.strict {
				return "", services.NewResourceError(services.ErrUnrecognizedReference, raw, nil)
			}
			logger.Debug("reference dropped", logging.String("reference", raw))
			continue
		}
		content, err := a.fetch(ctx, ref)
		if err != nil {
			return "", err
		}
		if a.profile.Wrap != nil {
			content = a.profile.Wrap(ref.Path, content)
		}
		payload.WriteString(content)
		fetched++
		logger.Debug("reference fetched",
			logging.String("reference", ref.Path),
			logging.Bool("remote", ref.Remote),
			logging.Int("bytes", len(content)),
		)
	}

	if payload.Len() == 0 {
		logger.Debug("bundle empty; nothing published", logging.Int("references", len(refs)))
		return "", nil
	}

	data := []byte(payload.String())
	if a.minify {
		data = compress.Guard(data, a.profile.Strategy, logger)
	}

	rel, err := a.allocator.Add(ctx, a.profile.ContextDir, id, a.profile.Extension, data)
	if err != nil {
		return "", err
	}
	url := a.httpBase + "/" + rel

	logger.Info("bundle published",
		logging.String(logging.FieldEventType, "bundle_published"),
		logging.Int("references", fetched),
		logging.Int("bytes", len(data)),
		logging.String("path", rel),
	)
	return a.profile.Tag(url), nil
}

func (a *Aggregator) fetch(ctx context.Context, ref asset.Reference) (string, error) {
	if ref.Remote {
		return a.source.Remote(ctx, ref.Path)
	}
	candidates := []string{ref.Path}
	if a.profile.LocalCandidates != nil {
		candidates = a.profile.LocalCandidates(ref.Path)
	}
	var lastErr error
	for _, candidate := range candidates {
		content, err := a.source.Local(ctx, candidate)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		lastErr = err
	}
	return "", services.NewResourceError(services.ErrResourceNotFound, ref.Path, lastErr)
}
