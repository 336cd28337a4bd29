package analyzer

import (
	"fmt"
	"io"
	"os"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"

	"go.iain.rocks/bundlemon/app/domain"
)

type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

// compressedSize returns the size of the file at path after compression.
func compressedSize(path string, compression domain.Compression) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	counter := &countingWriter{}
	var w io.WriteCloser

	switch compression {
	case domain.CompressionNone:
		info, err := f.Stat()
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	case domain.CompressionGzip:
		w, err = gzip.NewWriterLevel(counter, gzip.BestCompression)
		if err != nil {
			return 0, err
		}
	case domain.CompressionBrotli:
		w = brotli.NewWriterLevel(counter, brotli.BestCompression)
	default:
		return 0, fmt.Errorf("unsupported compression %q", compression)
	}

	if _, err := io.Copy(w, f); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}

	return counter.n, nil
}
