package asset_test

import (
	"testing"

	"assetpipe/internal/asset"
)

func TestClassifyLocalRemoteAndUnrecognized(t *testing.T) {
	c := asset.NewClassifier("/base")

	cases := []struct {
		raw    string
		want   asset.Reference
		wantOK bool
	}{
		{raw: "/base/a.js", want: asset.Reference{Path: "a.js"}, wantOK: true},
		{raw: "/base//js/b.js", want: asset.Reference{Path: "js/b.js"}, wantOK: true},
		{raw: "https://cdn.example/b.js", want: asset.Reference{Path: "https://cdn.example/b.js", Remote: true}, wantOK: true},
		{raw: "js/relative.js", wantOK: false},
		{raw: "/other/a.js", wantOK: false},
		{raw: "", wantOK: false},
	}
	for _, tc := range cases {
		got, ok := c.Classify(tc.raw)
		if ok != tc.wantOK {
			t.Fatalf("Classify(%q) ok = %v, want %v", tc.raw, ok, tc.wantOK)
		}
		if ok && got != tc.want {
			t.Fatalf("Classify(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestClassifyEmptyBaseTreatsRootPathsAsLocal(t *testing.T) {
	c := asset.NewClassifier("")
	got, ok := c.Classify("/javascripts/app.js")
	if !ok || got.Remote || got.Path != "javascripts/app.js" {
		t.Fatalf("unexpected classification: %+v %v", got, ok)
	}
}

func TestClassifierIgnoresTrailingSlashOnBase(t *testing.T) {
	c := asset.NewClassifier("http://localhost:4242/")
	got, ok := c.Classify("http://localhost:4242/css/site.css")
	if !ok || got.Remote || got.Path != "css/site.css" {
		t.Fatalf("expected local reference, got %+v %v", got, ok)
	}
}

func TestDeriveID(t *testing.T) {
	cases := map[string]string{
		"images/logo.png":    "images_logo",
		"../fonts/a.woff":    "_fonts_a",
		"./img/b.gif":        "_img_b",
		"script.js":          "script",
		"/abs/path/font.ttf": "_abs_path_font",
		"noext":              "noext",
	}
	for in, want := range cases {
		if got := asset.DeriveID(in); got != want {
			t.Fatalf("DeriveID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDeriveIDCollisionIsKnownHazard(t *testing.T) {
	// Two different sources share one logical id; the allocator cannot tell them apart.
	if asset.DeriveID("a/b.png") != asset.DeriveID("a_b.png") {
		t.Fatal("expected derived ids to collide for a/b.png and a_b.png")
	}
}

func TestContextDirFor(t *testing.T) {
	cases := map[string]asset.ContextDir{
		".woff": asset.ContextFonts,
		".svg":  asset.ContextFonts,
		".png":  asset.ContextImages,
		".jpg":  asset.ContextImages,
		".js":   asset.ContextScripts,
		".css":  asset.ContextOther,
		".PNG":  asset.ContextOther,
		"":      asset.ContextOther,
	}
	for ext, want := range cases {
		if got := asset.ContextDirFor(ext); got != want {
			t.Fatalf("ContextDirFor(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"js", "script", "Javascripts"} {
		k, err := asset.ParseKind(name)
		if err != nil || k != asset.Script {
			t.Fatalf("ParseKind(%q) = %v, %v", name, k, err)
		}
	}
	k, err := asset.ParseKind("css")
	if err != nil || k != asset.Stylesheet {
		t.Fatalf("ParseKind(css) = %v, %v", k, err)
	}
	if _, err := asset.ParseKind("image"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if asset.Script.Extension() != ".js" || asset.Stylesheet.Extension() != ".css" {
		t.Fatal("unexpected kind extensions")
	}
	if asset.Stylesheet.DefaultContextDir() != "stylesheets" {
		t.Fatalf("unexpected stylesheet context dir %q", asset.Stylesheet.DefaultContextDir())
	}
}
