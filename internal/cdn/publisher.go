package cdn

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"assetpipe/internal/fileutil"
	"assetpipe/internal/logging"
	"assetpipe/internal/manifest"
	"assetpipe/internal/services"
)

// LockFileName is created inside the output directory to serialize publishers.
const LockFileName = ".assetpipe.lock"

const lockRetryDelay = 25 * time.Millisecond

// Allocator publishes content and returns its path relative to the CDN base.
type Allocator interface {
	Add(ctx context.Context, contextDir, id, ext string, content []byte) (string, error)
}

// Recorder receives a row for every published artifact.
type Recorder interface {
	Record(ctx context.Context, artifact manifest.Artifact) error
}

// Stats counts publisher outcomes.
type Stats struct {
	Written   int64 `json:"written"`
	Unchanged int64 `json:"unchanged"`
}

// Publisher is the filesystem Allocator.
type Publisher struct {
	outDir   string
	version  string
	recorder Recorder
	sidecars []sidecar
	logger   *slog.Logger

	mu   sync.Mutex
	lock *flock.Flock

	written   atomic.Int64
	unchanged atomic.Int64
}

var _ Allocator = (*Publisher)(nil)

// Option configures a Publisher.
type Option func(*Publisher) error

// WithVersion sets the version folded into every token.
func WithVersion(version string) Option {
	return func(p *Publisher) error {
		p.version = strings.TrimSpace(version)
		return nil
	}
}

// WithRecorder records each publish, typically in a manifest.Store.
func WithRecorder(recorder Recorder) Option {
	return func(p *Publisher) error {
		p.recorder = recorder
		return nil
	}
}

// WithPrecompress enables sidecars for the given codecs ("gzip", "zstd").
func WithPrecompress(codecs ...string) Option {
	return func(p *Publisher) error {
		for _, codec := range codecs {
			sc, err := sidecarFor(codec)
			if err != nil {
				return err
			}
			p.sidecars = append(p.sidecars, sc)
		}
		return nil
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// NewPublisher creates a publisher rooted at outDir, creating it if needed.
func NewPublisher(outDir string, opts ...Option) (*Publisher, error) {
	outDir = strings.TrimSpace(outDir)
	if outDir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "cdn", "new publisher", "output directory required", nil)
	}
	p := &Publisher{outDir: outDir, logger: logging.NewNop()}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "cdn", "new publisher", "", err)
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrPublish, "cdn", "new publisher", "create output directory", err)
	}
	p.lock = flock.New(filepath.Join(outDir, LockFileName))
	p.logger = logging.NewComponentLogger(p.logger, "cdn")
	return p, nil
}

// OutDir returns the publish root.
func (p *Publisher) OutDir() string {
	return p.outDir
}

// Version returns the configured version token.
func (p *Publisher) Version() string {
	return p.version
}

// Stats returns publish counters since construction.
func (p *Publisher) Stats() Stats {
	return Stats{Written: p.written.Load(), Unchanged: p.unchanged.Load()}
}

// Add publishes content as <contextDir>/<id>-<token><ext> and returns that
// relative path. Publishing identical content again returns the same path
// without rewriting the file.
func (p *Publisher) Add(ctx context.Context, contextDir, id, ext string, content []byte) (string, error) {
	contextDir = strings.Trim(contextDir, "/")
	if contextDir == "" || !filepath.IsLocal(filepath.FromSlash(contextDir)) {
		return "", services.Wrap(services.ErrPublish, "cdn", "add", fmt.Sprintf("invalid context directory %q", contextDir), nil)
	}
	if id == "" || strings.Contains(id, "/") {
		return "", services.Wrap(services.ErrPublish, "cdn", "add", fmt.Sprintf("invalid asset id %q", id), nil)
	}

	hash := ContentHash(content)
	rel := RelPath(contextDir, id, tokenFromHash(p.version, hash), ext)
	full := filepath.Join(p.outDir, filepath.FromSlash(rel))

	unlock, err := p.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	wrote, err := fileutil.WriteFileIfChanged(full, content, 0o644)
	if err != nil {
		return "", services.Wrap(services.ErrPublish, "cdn", "write artifact", rel, err)
	}
	if err := p.writeSidecars(full, rel, content); err != nil {
		return "", err
	}

	if p.recorder != nil {
		if err := p.recorder.Record(ctx, manifest.Artifact{
			ContextDir:  contextDir,
			AssetID:     id,
			Ext:         ext,
			Version:     p.version,
			ContentHash: hash,
			RelPath:     rel,
			Size:        int64(len(content)),
		}); err != nil {
			return "", services.Wrap(services.ErrPublish, "cdn", "record artifact", rel, err)
		}
	}

	logger := logging.WithContext(ctx, p.logger)
	if wrote {
		p.written.Add(1)
		logger.Debug("artifact written", logging.String("path", rel), logging.Int("bytes", len(content)))
	} else {
		p.unchanged.Add(1)
		logger.Debug("artifact unchanged", logging.String("path", rel))
	}
	return rel, nil
}

// acquire serializes publishes within the process and across processes
// sharing the output directory.
func (p *Publisher) acquire(ctx context.Context) (func(), error) {
	p.mu.Lock()
	locked, err := p.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		p.mu.Unlock()
		if err == nil {
			err = ctx.Err()
		}
		return nil, services.Wrap(services.ErrPublish, "cdn", "lock", p.lock.Path(), err)
	}
	return func() {
		if err := p.lock.Unlock(); err != nil {
			logging.WarnWithContext(p.logger, "failed to release publish lock", "lock_release_failed",
				logging.Error(err),
				logging.String("path", p.lock.Path()),
				logging.String(logging.FieldErrorHint, "remove the lock file if no other build is running"),
			)
		}
		p.mu.Unlock()
	}, nil
}

func (p *Publisher) writeSidecars(full, rel string, content []byte) error {
	if len(p.sidecars) == 0 || !wantsSidecars(rel) {
		return nil
	}
	for _, sc := range p.sidecars {
		encoded, err := sc.encode(content)
		if err != nil {
			return services.Wrap(services.ErrPublish, "cdn", "precompress", rel+sc.suffix, err)
		}
		if len(encoded) >= len(content) {
			continue
		}
		wrote, err := fileutil.WriteFileIfChanged(full+sc.suffix, encoded, 0o644)
		if err != nil {
			return services.Wrap(services.ErrPublish, "cdn", "write sidecar", rel+sc.suffix, err)
		}
		if wrote {
			p.logger.Debug("sidecar written", logging.String("path", rel+sc.suffix), logging.Int("bytes", len(encoded)))
		}
	}
	return nil
}
