package rewrite_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"assetpipe/internal/cdn"
	"assetpipe/internal/compress"
	"assetpipe/internal/fetch"
	"assetpipe/internal/rewrite"
	"assetpipe/internal/services"
	"assetpipe/internal/testsupport"
)

type countingAllocator struct {
	calls    int
	contents []string
}

func (a *countingAllocator) Add(_ context.Context, contextDir, id, ext string, content []byte) (string, error) {
	a.calls++
	a.contents = append(a.contents, string(content))
	return contextDir + "/" + id + "-tok" + ext, nil
}

func newRewriter(t *testing.T, alloc cdn.Allocator, mutate func(*rewrite.Options)) *rewrite.Rewriter {
	t.Helper()
	opts := rewrite.Options{
		HTTPBase:  "https://cdn.example.com/",
		Source:    fetch.New(nil),
		Allocator: alloc,
	}
	if mutate != nil {
		mutate(&opts)
	}
	r, err := rewrite.New(opts)
	if err != nil {
		t.Fatalf("rewrite.New: %v", err)
	}
	return r
}

func TestPathPreservesQueryAndFragment(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteContent(t, filepath.Join(dir, "images", "logo.png"), "PNGDATA")
	alloc := &countingAllocator{}
	r := newRewriter(t, alloc, nil)

	got, err := r.Path(context.Background(), "images/logo.png?v=2#frag", dir)
	if err != nil {
		t.Fatalf("Path returned error: %v", err)
	}
	if got != "https://cdn.example.com/images/images_logo-tok.png?v=2#frag" {
		t.Fatalf("unexpected url %q", got)
	}
	if alloc.contents[0] != "PNGDATA" {
		t.Fatalf("unexpected published bytes %q", alloc.contents[0])
	}
}

func TestPathResolvesAgainstFileDirectory(t *testing.T) {
	dir := t.TempDir()
	sheet := filepath.Join(dir, "stylesheets", "site.scss")
	testsupport.WriteContent(t, sheet, "body{}")
	testsupport.WriteContent(t, filepath.Join(dir, "fonts", "a.woff"), "FONT")
	alloc := &countingAllocator{}
	r := newRewriter(t, alloc, nil)

	got, err := r.Path(context.Background(), "../fonts/a.woff", sheet)
	if err != nil {
		t.Fatalf("Path returned error: %v", err)
	}
	if got != "https://cdn.example.com/fonts/_fonts_a-tok.woff" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestPathContextDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"x.svg", "x.gif", "x.js", "x.pdf"} {
		testsupport.WriteContent(t, filepath.Join(dir, name), "data")
	}
	r := newRewriter(t, &countingAllocator{}, nil)

	cases := map[string]string{
		"x.svg": "https://cdn.example.com/fonts/x-tok.svg",
		"x.gif": "https://cdn.example.com/images/x-tok.gif",
		"x.js":  "https://cdn.example.com/javascripts/x-tok.js",
		"x.pdf": "https://cdn.example.com/other/x-tok.pdf",
	}
	for src, want := range cases {
		got, err := r.Path(context.Background(), src, dir)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if got != want {
			t.Fatalf("%s: got %q want %q", src, got, want)
		}
	}
}

func TestPathMissingFile(t *testing.T) {
	r := newRewriter(t, &countingAllocator{}, nil)
	_, err := r.Path(context.Background(), "images/missing.png", t.TempDir())
	if !errors.Is(err, services.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestPathRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "v=1" {
			t.Errorf("expected query forwarded, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte("GIF89a"))
	}))
	t.Cleanup(server.Close)

	alloc := &countingAllocator{}
	r := newRewriter(t, alloc, nil)
	got, err := r.Path(context.Background(), server.URL+"/img/spacer.gif?v=1#top", "")
	if err != nil {
		t.Fatalf("Path returned error: %v", err)
	}
	if got != "https://cdn.example.com/images/_img_spacer-tok.gif?v=1#top" {
		t.Fatalf("unexpected url %q", got)
	}
	if alloc.contents[0] != "GIF89a" {
		t.Fatalf("unexpected bytes %q", alloc.contents[0])
	}
}

func TestMinifyOnlyScripts(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteContent(t, filepath.Join(dir, "app.js"), "var   a   =   1;")
	testsupport.WriteContent(t, filepath.Join(dir, "logo.png"), "PNG     DATA")
	calls := 0
	strategy := compress.StrategyFunc(func(in []byte) ([]byte, error) {
		calls++
		return []byte(strings.Join(strings.Fields(string(in)), "")), nil
	})
	alloc := &countingAllocator{}
	r := newRewriter(t, alloc, func(o *rewrite.Options) {
		o.Minify = true
		o.Strategy = strategy
	})

	if _, err := r.Path(context.Background(), "app.js", dir); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Path(context.Background(), "logo.png", dir); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected strategy to run only for the script, ran %d times", calls)
	}
	if alloc.contents[0] != "vara=1;" || alloc.contents[1] != "PNG     DATA" {
		t.Fatalf("unexpected published contents %q", alloc.contents)
	}
}

func TestDisabledPassesThrough(t *testing.T) {
	alloc := &countingAllocator{}
	r := newRewriter(t, alloc, func(o *rewrite.Options) { o.HTTPBase = "" })

	got, err := r.Path(context.Background(), "images/logo.png?v=2", "/nowhere")
	if err != nil || got != "images/logo.png?v=2" {
		t.Fatalf("expected passthrough, got %q %v", got, err)
	}
	got, err = r.URL(context.Background(), "images/logo.png", "/nowhere")
	if err != nil || got != "url(images/logo.png)" {
		t.Fatalf("expected url passthrough, got %q %v", got, err)
	}
	if alloc.calls != 0 {
		t.Fatal("expected no publish while disabled")
	}
}

func TestURLWrapsPublishedPath(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteContent(t, filepath.Join(dir, "bg.jpg"), "JPEG")
	r := newRewriter(t, &countingAllocator{}, nil)

	got, err := r.URL(context.Background(), "bg.jpg", dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != "url(https://cdn.example.com/images/bg-tok.jpg)" {
		t.Fatalf("unexpected url() %q", got)
	}
}

func TestPathWithPublisher(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteContent(t, filepath.Join(dir, "images", "logo.png"), "PNGDATA")
	outDir := filepath.Join(t.TempDir(), "cdn")
	publisher, err := cdn.NewPublisher(outDir, cdn.WithVersion("v9"))
	if err != nil {
		t.Fatal(err)
	}
	r := newRewriter(t, publisher, nil)

	got, err := r.Path(context.Background(), "images/logo.png", dir)
	if err != nil {
		t.Fatal(err)
	}
	rel := "images/images_logo-" + cdn.Token("v9", []byte("PNGDATA")) + ".png"
	if got != "https://cdn.example.com/"+rel {
		t.Fatalf("unexpected url %q", got)
	}
	data, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(rel)))
	if err != nil || string(data) != "PNGDATA" {
		t.Fatalf("published file: %q %v", data, err)
	}
}
