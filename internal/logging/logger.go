package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"assetpipe/internal/config"
)

// LogFileName is the file written inside logging.dir.
const LogFileName = "assetpipe.log"

// Options describes logger construction parameters.
type Options struct {
	// Level is debug, info, warn or error. Anything else means info.
	Level string
	// Format is console or json. Empty means console.
	Format string
	// OutputPaths lists destinations: "stderr", "stdout" or file paths.
	// Empty means stderr.
	OutputPaths []string
	// AddSource appends the caller location. Debug level always adds it.
	AddSource bool
}

// New constructs a logger from opts.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	addSource := opts.AddSource || level <= slog.LevelDebug

	var build func(io.Writer, slog.Leveler, bool) slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		build = func(w io.Writer, l slog.Leveler, src bool) slog.Handler {
			return newConsoleHandler(w, l, src)
		}
	case "json":
		build = newJSONHandler
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	w, err := openOutputs(opts.OutputPaths)
	if err != nil {
		return nil, err
	}
	return slog.New(build(w, level, addSource)), nil
}

// NewFromConfig builds the CLI logger. Logs go to stderr because stdout
// carries command output; logging.dir adds a file copy.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	outputs := []string{"stderr"}
	if cfg.Logging.Dir != "" {
		outputs = append(outputs, filepath.Join(cfg.Logging.Dir, LogFileName))
	}
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}

func parseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func openOutputs(paths []string) (io.Writer, error) {
	if len(paths) == 0 {
		return os.Stderr, nil
	}
	seen := make(map[string]struct{}, len(paths))
	writers := make([]io.Writer, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		switch p {
		case "stderr":
			writers = append(writers, os.Stderr)
		case "stdout":
			writers = append(writers, os.Stdout)
		default:
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return nil, fmt.Errorf("ensure log directory: %w", err)
			}
			file, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", p, err)
			}
			writers = append(writers, file)
		}
	}
	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}
