package cdn

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"assetpipe/internal/config"
)

// precompressible lists the artifact extensions that gain sidecars.
var precompressible = map[string]struct{}{
	".js":   {},
	".css":  {},
	".svg":  {},
	".json": {},
	".txt":  {},
	".html": {},
}

// zstd.Encoder is safe for concurrent EncodeAll calls.
var zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
})

type sidecar struct {
	suffix string
	encode func([]byte) ([]byte, error)
}

func sidecarFor(codec string) (sidecar, error) {
	switch codec {
	case config.PrecompressGzip:
		return sidecar{suffix: ".gz", encode: encodeGzip}, nil
	case config.PrecompressZstd:
		return sidecar{suffix: ".zst", encode: encodeZstd}, nil
	default:
		return sidecar{}, fmt.Errorf("unsupported precompress codec %q", codec)
	}
}

func wantsSidecars(relPath string) bool {
	_, ok := precompressible[strings.ToLower(path.Ext(relPath))]
	return ok
}

func encodeGzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeZstd(data []byte) ([]byte, error) {
	encoder, err := zstdEncoder()
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	return encoder.EncodeAll(data, nil), nil
}

// Remove deletes a published artifact and any sidecars next to it. Missing
// files are skipped. It returns how many files were removed.
func Remove(outDir, relPath string) (int, error) {
	if !filepath.IsLocal(filepath.FromSlash(relPath)) {
		return 0, fmt.Errorf("artifact path %q escapes output directory", relPath)
	}
	target := filepath.Join(outDir, filepath.FromSlash(relPath))
	removed := 0
	for _, suffix := range []string{"", ".gz", ".zst"} {
		err := os.Remove(target + suffix)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
		default:
			return removed, fmt.Errorf("remove %s: %w", target+suffix, err)
		}
	}
	return removed, nil
}
