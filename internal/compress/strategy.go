package compress

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"

	"assetpipe/internal/logging"
	"assetpipe/internal/services"
)

// Strategy transforms a payload into a (usually smaller) equivalent.
type Strategy interface {
	Compress(input []byte) ([]byte, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(input []byte) ([]byte, error)

// Compress calls f.
func (f StrategyFunc) Compress(input []byte) ([]byte, error) {
	return f(input)
}

type lazy struct {
	once     sync.Once
	factory  func() (Strategy, error)
	strategy Strategy
	err      error
}

// Lazy returns a Strategy that calls factory on first use and reuses the
// result afterwards. A factory error is returned by every Compress call.
func Lazy(factory func() (Strategy, error)) Strategy {
	return &lazy{factory: factory}
}

func (l *lazy) Compress(input []byte) ([]byte, error) {
	l.once.Do(func() {
		if l.factory == nil {
			l.err = services.Wrap(services.ErrCompression, "compress", "init", "no strategy factory", nil)
			return
		}
		l.strategy, l.err = l.factory()
		if l.err == nil && l.strategy == nil {
			l.err = services.Wrap(services.ErrCompression, "compress", "init", "factory returned no strategy", nil)
		}
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.strategy.Compress(input)
}

// Guard runs strategy over input and returns its output only when it is
// strictly smaller. A nil strategy or a strategy error yields input unchanged;
// errors are logged as warnings.
func Guard(input []byte, strategy Strategy, logger *slog.Logger) []byte {
	if strategy == nil {
		return input
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	output, err := strategy.Compress(input)
	if err != nil {
		logging.WarnWithContext(logger, "compression failed; using uncompressed payload", "compression_failed",
			logging.Error(err),
			logging.Int("bytes", len(input)),
			logging.String(logging.FieldErrorHint, "check the payload for syntax errors"),
			logging.String(logging.FieldImpact, "bundle is published unminified"),
		)
		return input
	}
	logger.Debug("compressed payload", logging.Int("input_bytes", len(input)), logging.Int("output_bytes", len(output)))
	if len(output) < len(input) {
		return output
	}
	return input
}

// JavaScript returns a whitespace and syntax minifier. Identifiers are never
// renamed so globals shared between bundles keep working.
func JavaScript() Strategy {
	return StrategyFunc(minifyJavaScript)
}

func minifyJavaScript(input []byte) ([]byte, error) {
	result := api.Transform(string(input), api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifySyntax:      true,
		MinifyIdentifiers: false,
		LegalComments:     api.LegalCommentsNone,
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		messages := make([]string, 0, len(result.Errors))
		for _, msg := range result.Errors {
			messages = append(messages, msg.Text)
		}
		return nil, services.Wrap(services.ErrCompression, "compress", "minify javascript", strings.Join(messages, "; "), nil)
	}
	return result.Code, nil
}
