package compress_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"assetpipe/internal/compress"
	"assetpipe/internal/services"
)

func TestGuardKeepsStrictlySmallerOutput(t *testing.T) {
	shrink := compress.StrategyFunc(func(in []byte) ([]byte, error) { return in[:len(in)-1], nil })
	if got := compress.Guard([]byte("abcd"), shrink, nil); string(got) != "abc" {
		t.Fatalf("expected smaller output kept, got %q", got)
	}

	same := compress.StrategyFunc(func(in []byte) ([]byte, error) { return []byte("wxyz"), nil })
	if got := compress.Guard([]byte("abcd"), same, nil); string(got) != "abcd" {
		t.Fatalf("expected equal-size output rejected, got %q", got)
	}

	grow := compress.StrategyFunc(func(in []byte) ([]byte, error) { return append(in, 'x'), nil })
	if got := compress.Guard([]byte("abcd"), grow, nil); string(got) != "abcd" {
		t.Fatalf("expected larger output rejected, got %q", got)
	}
}

func TestGuardFallsBackOnError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	fail := compress.StrategyFunc(func([]byte) ([]byte, error) { return nil, errors.New("boom") })

	if got := compress.Guard([]byte("payload"), fail, logger); string(got) != "payload" {
		t.Fatalf("expected input on error, got %q", got)
	}
	if !strings.Contains(buf.String(), "event_type=compression_failed") {
		t.Fatalf("expected compression_failed warning, got %s", buf.String())
	}
}

func TestGuardNilStrategy(t *testing.T) {
	if got := compress.Guard([]byte("a { }"), nil, nil); string(got) != "a { }" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestLazyResolvesOnceOnFirstUse(t *testing.T) {
	calls := 0
	strategy := compress.Lazy(func() (compress.Strategy, error) {
		calls++
		return compress.StrategyFunc(func(in []byte) ([]byte, error) { return in, nil }), nil
	})
	if calls != 0 {
		t.Fatalf("factory ran before first use")
	}
	for range 3 {
		if _, err := strategy.Compress([]byte("x")); err != nil {
			t.Fatalf("Compress returned error: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected factory to run once, ran %d times", calls)
	}
}

func TestLazyFactoryErrorBecomesInputPassthrough(t *testing.T) {
	strategy := compress.Lazy(func() (compress.Strategy, error) { return nil, errors.New("no minifier") })
	if got := compress.Guard([]byte("var a = 1;"), strategy, nil); string(got) != "var a = 1;" {
		t.Fatalf("expected input when strategy unavailable, got %q", got)
	}
}

func TestJavaScriptMinifiesWithoutRenaming(t *testing.T) {
	input := []byte("/* Original File: a.js */\nfunction greet(name) {\n    var message = 'hi ' + name;\n    return message;\n}\n;")
	out, err := compress.JavaScript().Compress(input)
	if err != nil {
		t.Fatalf("Compress returned error: %v", err)
	}
	if len(out) >= len(input) {
		t.Fatalf("expected minified output, got %d >= %d bytes", len(out), len(input))
	}
	if !strings.Contains(string(out), "greet") || !strings.Contains(string(out), "name") {
		t.Fatalf("expected identifiers preserved, got %q", out)
	}
}

func TestJavaScriptSyntaxError(t *testing.T) {
	_, err := compress.JavaScript().Compress([]byte("function ( {"))
	if !errors.Is(err, services.ErrCompression) {
		t.Fatalf("expected ErrCompression, got %v", err)
	}
}
