package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"assetpipe/internal/asset"
	"assetpipe/internal/logging"
	"assetpipe/internal/services"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "assetpipe/dev"
	// maxRemoteBytes bounds a single remote asset download.
	maxRemoteBytes = 64 << 20
)

// Fetcher retrieves local and remote asset content.
type Fetcher struct {
	renderer   Renderer
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client. It has no effect
// when WithHTTPClient supplies a client.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header sent with remote requests.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		if ua := strings.TrimSpace(userAgent); ua != "" {
			f.userAgent = ua
		}
	}
}

// WithLogger attaches a logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fetcher. A nil renderer serves local paths from the working
// directory.
func New(renderer Renderer, opts ...Option) *Fetcher {
	if renderer == nil {
		renderer = FileRenderer{Root: "."}
	}
	f := &Fetcher{
		renderer:  renderer,
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.httpClient == nil {
		f.httpClient = &http.Client{Timeout: f.timeout}
	}
	f.logger = logging.NewComponentLogger(f.logger, "fetch")
	return f
}

// Local renders a site-relative path.
func (f *Fetcher) Local(ctx context.Context, sitePath string) (string, error) {
	content, err := f.renderer.Render(ctx, sitePath)
	if err != nil {
		return "", services.NewResourceError(services.ErrResourceNotFound, sitePath, err)
	}
	return content, nil
}

// Remote downloads rawURL and returns its body as text.
func (f *Fetcher) Remote(ctx context.Context, rawURL string) (string, error) {
	body, err := f.RemoteBytes(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// RemoteBytes downloads rawURL. Transport failures, timeouts and non-2xx
// responses are reported as ErrRemoteFetchFailed.
func (f *Fetcher) RemoteBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, services.NewResourceError(services.ErrRemoteFetchFailed, rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	started := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, services.NewResourceError(services.ErrRemoteFetchFailed, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, services.NewResourceError(services.ErrRemoteFetchFailed, rawURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBytes+1))
	if err != nil {
		return nil, services.NewResourceError(services.ErrRemoteFetchFailed, rawURL, fmt.Errorf("read body: %w", err))
	}
	if len(body) > maxRemoteBytes {
		return nil, services.NewResourceError(services.ErrRemoteFetchFailed, rawURL, fmt.Errorf("body exceeds %d bytes", maxRemoteBytes))
	}

	f.logger.Debug("remote asset fetched",
		logging.String("url", rawURL),
		logging.Int("bytes", len(body)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return body, nil
}

// Fetch retrieves a classified reference.
func (f *Fetcher) Fetch(ctx context.Context, ref asset.Reference) (string, error) {
	if ref.Remote {
		return f.Remote(ctx, ref.Path)
	}
	return f.Local(ctx, ref.Path)
}

// ReadFile returns the raw bytes of a file on disk without rendering.
func (f *Fetcher) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.NewResourceError(services.ErrResourceNotFound, path, err)
	}
	return data, nil
}
