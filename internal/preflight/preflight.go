package preflight

import (
	"context"

	"assetpipe/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Options toggles checks that leave the machine.
type Options struct {
	// ProbeCDN issues a request against cdn.http_base when it is an absolute
	// http(s) URL.
	ProbeCDN bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckReadableDirectory("Source directory", cfg.Site.SourceDir)}
	if !cfg.Enabled() {
		results = append(results, Result{Name: "CDN", Passed: true, Detail: "disabled (http_base empty)"})
		return results
	}

	results = append(results, CheckOutputDirectory("Output directory", cfg.CDN.OutDir))
	if cfg.CDN.ManifestPath != "" {
		results = append(results, CheckManifest(ctx, cfg.CDN.ManifestPath))
	}
	if opts.ProbeCDN {
		results = append(results, CheckHTTPBase(ctx, cfg.CDN.HTTPBase, cfg.HTTP.Timeout()))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
