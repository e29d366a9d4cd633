package config

const (
	defaultConfigPath             = "~/.config/assetpipe/config.toml"
	defaultSourceDir              = "."
	defaultOutDir                 = "_cdn"
	defaultJavascriptsContextPath = "javascripts"
	defaultStylesheetsContextPath = "stylesheets"
	defaultManifestName           = ".assetpipe-manifest.db"
	defaultHTTPTimeoutSeconds     = 30
	defaultUserAgent              = "assetpipe/dev"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Precompression codecs accepted in cdn.precompress.
const (
	PrecompressGzip = "gzip"
	PrecompressZstd = "zstd"
)

// Default returns a Config populated with repository defaults. CDN publishing
// is disabled until cdn.http_base is set.
func Default() Config {
	return Config{
		Site: Site{
			SourceDir: defaultSourceDir,
		},
		CDN: CDN{
			OutDir: defaultOutDir,
		},
		HTTP: HTTP{
			TimeoutSeconds: defaultHTTPTimeoutSeconds,
			UserAgent:      defaultUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
