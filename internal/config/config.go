package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Site describes the site whose pages reference the assets.
type Site struct {
	BaseURL   string `toml:"base_url"`
	SourceDir string `toml:"source_dir"`
}

// CDN contains the publishing settings. An empty HTTPBase disables publishing:
// bundles and single-resource rewrites pass their input through unchanged.
type CDN struct {
	HTTPBase               string   `toml:"http_base"`
	OutDir                 string   `toml:"out_dir"`
	Version                string   `toml:"version"`
	Minify                 bool     `toml:"minify"`
	JavascriptsContextPath string   `toml:"javascripts_context_path"`
	StylesheetsContextPath string   `toml:"stylesheets_context_path"`
	StrictReferences       bool     `toml:"strict_references"`
	Precompress            []string `toml:"precompress"`
	ManifestPath           string   `toml:"manifest_path"`
}

// HTTP configures the client used for remote asset fetches.
type HTTP struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// Timeout returns the per-request timeout.
func (h HTTP) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for assetpipe.
//
// Configuration sections by subsystem:
//   - Site: base URL used to recognise local references and the source tree
//   - CDN: publish base URL, output directory, version, minify, overrides
//   - HTTP: remote fetch timeout and user agent
//   - Logging: log format, level, and optional file directory
type Config struct {
	Site    Site    `toml:"site"`
	CDN     CDN     `toml:"cdn"`
	HTTP    HTTP    `toml:"http"`
	Logging Logging `toml:"logging"`
}

// Enabled reports whether CDN publishing is configured.
func (c *Config) Enabled() bool {
	return c != nil && strings.TrimSpace(c.CDN.HTTPBase) != ""
}

// JavascriptsDir returns the context directory for script bundles.
func (c *Config) JavascriptsDir() string {
	if dir := strings.TrimSpace(c.CDN.JavascriptsContextPath); dir != "" {
		return dir
	}
	return defaultJavascriptsContextPath
}

// StylesheetsDir returns the context directory for stylesheet bundles.
func (c *Config) StylesheetsDir() string {
	if dir := strings.TrimSpace(c.CDN.StylesheetsContextPath); dir != "" {
		return dir
	}
	return defaultStylesheetsContextPath
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// DefaultConfigPath returns the per-user configuration location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("assetpipe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the CDN output directory when publishing is enabled.
func (c *Config) EnsureDirectories() error {
	if !c.Enabled() {
		return nil
	}
	if err := os.MkdirAll(c.CDN.OutDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.CDN.OutDir, err)
	}
	if c.Logging.Dir != "" {
		if err := os.MkdirAll(c.Logging.Dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", c.Logging.Dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
