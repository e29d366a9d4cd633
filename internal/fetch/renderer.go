package fetch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Renderer produces the final content of a site-relative path. Implementations
// must report a missing path with an error satisfying errors.Is(err, fs.ErrNotExist).
type Renderer interface {
	Render(ctx context.Context, sitePath string) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, sitePath string) (string, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, sitePath string) (string, error) {
	return f(ctx, sitePath)
}

// FileRenderer reads site paths verbatim from Root. It does not compile
// preprocessor sources, so Sass files are reported as not found and callers
// fall back to the rendered stylesheet next to them.
type FileRenderer struct {
	Root string
}

// Render returns the file contents at Root/sitePath. Paths that would escape
// Root and Sass sources are reported as not found.
func (r FileRenderer) Render(ctx context.Context, sitePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := filepath.FromSlash(strings.TrimLeft(sitePath, "/"))
	if rel == "" || !filepath.IsLocal(rel) || IsSassSource(rel) {
		return "", &fs.PathError{Op: "render", Path: sitePath, Err: fs.ErrNotExist}
	}
	full := filepath.Join(r.Root, rel)
	info, err := os.Stat(full)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", &fs.PathError{Op: "render", Path: sitePath, Err: fs.ErrNotExist}
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", sitePath, err)
	}
	return string(data), nil
}

// IsSassSource reports whether sitePath names a Sass source that needs
// compiling before it can be served as CSS.
func IsSassSource(sitePath string) bool {
	switch strings.ToLower(filepath.Ext(sitePath)) {
	case ".scss", ".sass":
		return true
	}
	return false
}
