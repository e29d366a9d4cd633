package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeSite(); err != nil {
		return err
	}
	if err := c.normalizeCDN(); err != nil {
		return err
	}
	c.normalizeHTTP()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeSite() error {
	var err error
	c.Site.BaseURL = strings.TrimRight(strings.TrimSpace(c.Site.BaseURL), "/")
	if strings.TrimSpace(c.Site.SourceDir) == "" {
		c.Site.SourceDir = defaultSourceDir
	}
	if c.Site.SourceDir, err = expandPath(c.Site.SourceDir); err != nil {
		return fmt.Errorf("site.source_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCDN() error {
	var err error
	if c.CDN.HTTPBase == "" {
		if value, ok := os.LookupEnv("ASSETPIPE_CDN_HTTP_BASE"); ok {
			c.CDN.HTTPBase = value
		}
	}
	c.CDN.HTTPBase = strings.TrimRight(strings.TrimSpace(c.CDN.HTTPBase), "/")

	if c.CDN.Version == "" {
		if value, ok := os.LookupEnv("ASSETPIPE_CDN_VERSION"); ok {
			c.CDN.Version = value
		}
	}
	c.CDN.Version = strings.TrimSpace(c.CDN.Version)

	if strings.TrimSpace(c.CDN.OutDir) == "" {
		c.CDN.OutDir = defaultOutDir
	}
	if c.CDN.OutDir, err = expandPath(c.CDN.OutDir); err != nil {
		return fmt.Errorf("cdn.out_dir: %w", err)
	}

	c.CDN.JavascriptsContextPath = strings.Trim(strings.TrimSpace(c.CDN.JavascriptsContextPath), "/")
	c.CDN.StylesheetsContextPath = strings.Trim(strings.TrimSpace(c.CDN.StylesheetsContextPath), "/")

	if len(c.CDN.Precompress) > 0 {
		codecs := make([]string, 0, len(c.CDN.Precompress))
		seen := make(map[string]struct{}, len(c.CDN.Precompress))
		for _, codec := range c.CDN.Precompress {
			normalized := strings.ToLower(strings.TrimSpace(codec))
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			codecs = append(codecs, normalized)
		}
		c.CDN.Precompress = codecs
	}

	if strings.TrimSpace(c.CDN.ManifestPath) == "" {
		c.CDN.ManifestPath = filepath.Join(c.CDN.OutDir, defaultManifestName)
	}
	if c.CDN.ManifestPath, err = expandPath(c.CDN.ManifestPath); err != nil {
		return fmt.Errorf("cdn.manifest_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeHTTP() {
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = defaultHTTPTimeoutSeconds
	}
	c.HTTP.UserAgent = strings.TrimSpace(c.HTTP.UserAgent)
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = ""
		return nil
	}
	var err error
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
