// Package source reads input documents from disk and writes artifacts back.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Encoding names accepted by ReadText.
const (
	EncodingUTF8  = "utf-8"
	EncodingEUCKR = "euc-kr"
)

var compressionExts = map[string]bool{
	".gz":  true,
	".zst": true,
	".br":  true,
}

// BaseName strips a trailing compression extension so the inner format can
// be detected, e.g. "feed.html.gz" -> "feed.html".
func BaseName(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if compressionExts[ext] {
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}

// Open opens path and transparently decompresses it by extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		rc := zr.IOReadCloser()
		return &stackedCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	case ".br":
		return &stackedCloser{Reader: brotli.NewReader(f), closers: []io.Closer{f}}, nil
	default:
		return f, nil
	}
}

// ReadText reads a whole file and returns it as UTF-8 bytes, decoding from
// the named legacy encoding when needed.
func ReadText(path, encoding string) ([]byte, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
	case EncodingEUCKR, "euckr", "cp949":
		r = transform.NewReader(rc, korean.EUCKR.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes data to a temp file beside path and renames it into
// place, so a failed run never leaves a partial artifact.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
