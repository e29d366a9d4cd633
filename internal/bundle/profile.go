package bundle

import (
	"fmt"
	"strings"

	"assetpipe/internal/asset"
	"assetpipe/internal/compress"
)

// Profile holds everything that differs between bundle kinds.
type Profile struct {
	Kind asset.Kind
	// Extract lists the references in markup in document order.
	Extract func(markup string) ([]string, error)
	// Wrap decorates fetched content before concatenation. Nil leaves it as is.
	Wrap func(source, content string) string
	// Tag renders the element that loads the published bundle.
	Tag func(url string) string
	// Strategy compresses the payload when minification is on. Nil disables it.
	Strategy   compress.Strategy
	ContextDir string
	Extension  string
	// LocalCandidates lists the site paths tried, in order, for a local
	// reference. Nil tries the reference path only.
	LocalCandidates func(sitePath string) []string
}

// ProfileOptions customizes ProfileFor.
type ProfileOptions struct {
	// ContextDir overrides the kind's default context directory.
	ContextDir string
	// Strategy overrides the kind's compression strategy.
	Strategy compress.Strategy
}

// ProfileFor returns the profile for kind.
func ProfileFor(kind asset.Kind, opts ProfileOptions) (Profile, error) {
	contextDir := strings.Trim(strings.TrimSpace(opts.ContextDir), "/")
	if contextDir == "" {
		contextDir = kind.DefaultContextDir()
	}

	switch kind {
	case asset.Script:
		strategy := opts.Strategy
		if strategy == nil {
			strategy = compress.Lazy(func() (compress.Strategy, error) {
				return compress.JavaScript(), nil
			})
		}
		return Profile{
			Kind:       kind,
			Extract:    ScriptSources,
			Wrap:       wrapProvenance,
			Tag:        scriptTag,
			Strategy:   strategy,
			ContextDir: contextDir,
			Extension:  kind.Extension(),
		}, nil
	case asset.Stylesheet:
		return Profile{
			Kind:            kind,
			Extract:         StylesheetHrefs,
			Tag:             stylesheetTag,
			Strategy:        opts.Strategy,
			ContextDir:      contextDir,
			Extension:       kind.Extension(),
			LocalCandidates: stylesheetCandidates,
		}, nil
	default:
		return Profile{}, fmt.Errorf("no bundle profile for %s", kind)
	}
}

func wrapProvenance(source, content string) string {
	return "/* Original File: " + source + " */\n" + content + ";"
}

func scriptTag(url string) string {
	return "<script src='" + url + "'></script>"
}

func stylesheetTag(url string) string {
	return "<link rel='stylesheet' type='text/css' href='" + url + "'></link>"
}

// stylesheetCandidates prefers the Sass source of a .css reference. Renderers
// that cannot compile Sass report it as not found and the .css file is used.
func stylesheetCandidates(sitePath string) []string {
	if strings.HasSuffix(sitePath, ".css") {
		return []string{strings.TrimSuffix(sitePath, ".css") + ".scss", sitePath}
	}
	return []string{sitePath}
}
