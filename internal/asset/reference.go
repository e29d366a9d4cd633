package asset

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Reference is one asset location found in markup.
type Reference struct {
	// Path is site-relative for local references and the absolute URL for remote ones.
	Path   string
	Remote bool
}

// Classifier decides whether a raw src/href is local to the site, remote, or
// neither. Local references match "^<base_url>/{1,2}(.*)$".
type Classifier struct {
	baseURL string
	local   *regexp.Regexp
}

// NewClassifier builds a classifier for the site base URL. A trailing slash on
// baseURL is ignored.
func NewClassifier(baseURL string) *Classifier {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &Classifier{
		baseURL: base,
		local:   regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `/{1,2}(.*)$`),
	}
}

// BaseURL returns the normalized base URL.
func (c *Classifier) BaseURL() string {
	return c.baseURL
}

// Classify returns the reference for raw and false when raw is neither a local
// path under the base URL nor an absolute URI with a scheme.
func (c *Classifier) Classify(raw string) (Reference, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, false
	}
	if rel, ok := c.StripLocal(raw); ok {
		return Reference{Path: rel}, true
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		return Reference{Path: raw, Remote: true}, true
	}
	return Reference{}, false
}

// StripLocal removes the base URL prefix from raw, reporting whether it matched.
func (c *Classifier) StripLocal(raw string) (string, bool) {
	m := c.local.FindStringSubmatch(raw)
	if m == nil {
		return raw, false
	}
	return m[1], true
}

// DeriveID turns an asset path into the allocator's logical id: the extension is
// dropped, every "/" becomes "_", then a leading "." or ".." is removed.
//
// Distinct paths can map to the same id ("a/b.png" and "a_b.png" both become
// "a_b"); the allocator will then treat them as one asset.
func DeriveID(p string) string {
	id := strings.TrimSuffix(p, path.Ext(p))
	id = strings.ReplaceAll(id, "/", "_")
	switch {
	case strings.HasPrefix(id, ".."):
		id = id[2:]
	case strings.HasPrefix(id, "."):
		id = id[1:]
	}
	return id
}
