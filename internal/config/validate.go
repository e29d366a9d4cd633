package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCDN(); err != nil {
		return err
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return errors.New("http.timeout_seconds must be positive")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateCDN() error {
	if base := c.CDN.HTTPBase; base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("cdn.http_base: %w", err)
		}
		if u.Scheme == "" && u.Host == "" && !strings.HasPrefix(base, "/") {
			return fmt.Errorf("cdn.http_base %q must be an absolute URL, a protocol-relative URL, or a root path", base)
		}
		if u.RawQuery != "" || u.Fragment != "" {
			return fmt.Errorf("cdn.http_base %q must not carry a query or fragment", base)
		}
	}
	for key, dir := range map[string]string{
		"cdn.javascripts_context_path": c.CDN.JavascriptsContextPath,
		"cdn.stylesheets_context_path": c.CDN.StylesheetsContextPath,
	} {
		if err := validateContextPath(dir); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	for _, codec := range c.CDN.Precompress {
		switch codec {
		case PrecompressGzip, PrecompressZstd:
		default:
			return fmt.Errorf("cdn.precompress: unsupported codec %q (use %q or %q)", codec, PrecompressGzip, PrecompressZstd)
		}
	}
	return nil
}

func validateContextPath(dir string) error {
	if dir == "" {
		return nil
	}
	for _, segment := range strings.Split(dir, "/") {
		if segment == ".." || segment == "." || segment == "" {
			return fmt.Errorf("invalid segment in %q", dir)
		}
	}
	if strings.ContainsAny(dir, `\?#`) {
		return fmt.Errorf("invalid character in %q", dir)
	}
	return nil
}
