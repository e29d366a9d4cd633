package asset

// ContextDir is the top-level folder under the CDN root grouping assets by type.
type ContextDir string

const (
	ContextFonts   ContextDir = "fonts"
	ContextImages  ContextDir = "images"
	ContextScripts ContextDir = "javascripts"
	ContextOther   ContextDir = "other"
)

var (
	fontExts  = []string{".otf", ".eot", ".svg", ".ttf", ".woff", ".woff2"}
	imageExts = []string{".png", ".jpeg", ".jpg", ".gif", ".webp", ".ico"}
	jsExts    = []string{".js"}
)

// ContextDirFor classifies a file extension (including the dot). Matching is
// exact, so ".PNG" lands in other.
func ContextDirFor(ext string) ContextDir {
	switch {
	case contains(fontExts, ext):
		return ContextFonts
	case contains(imageExts, ext):
		return ContextImages
	case contains(jsExts, ext):
		return ContextScripts
	default:
		return ContextOther
	}
}

// IsScriptExt reports whether ext denotes a script asset eligible for minification.
func IsScriptExt(ext string) bool {
	return contains(jsExts, ext)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
