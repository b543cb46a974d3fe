package dimacs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/internal/fs"
	"github.com/hupe1980/bkio/model"
)

// Compression is the stream compression applied to a DIMACS file.
type Compression uint8

const (
	// CompressionNone is plain text.
	CompressionNone Compression = iota
	// CompressionZstd is a zstd stream (.zst).
	CompressionZstd
	// CompressionLZ4 is an LZ4 frame stream (.lz4).
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// CompressionFor returns the compression implied by the extension of path.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// NewReader returns a reader that decompresses r.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// NewWriter returns a writer that compresses into w. Close flushes the
// compressed stream but does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// stack closes a compression layer before the file beneath it.
type stack struct {
	io.Reader
	io.Writer
	layer io.Closer
	file  io.Closer
}

func (s *stack) Close() error {
	return errors.Join(s.layer.Close(), s.file.Close())
}

// Open opens the DIMACS file at path for reading, decompressing by extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := fs.Open(fs.Default, path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, CompressionFor(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &stack{Reader: r, layer: r, file: f}, nil
}

// Create creates the DIMACS file at path for writing, compressing by
// extension. The file is complete only after Close returns nil.
func Create(path string) (io.WriteCloser, error) {
	f, err := fs.Default.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, CompressionFor(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &stack{Writer: w, layer: w, file: f}, nil
}

// ReadFile reads the DIMACS file at path.
func ReadFile[C, T captype.Capacity](path string) (model.Graph[C, T], error) {
	r, err := Open(path)
	if err != nil {
		return model.Graph[C, T]{}, err
	}
	defer r.Close()

	g, err := Read[C, T](r)
	if err != nil {
		return model.Graph[C, T]{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteFile writes g to path, compressing by extension and replacing path
// atomically.
func WriteFile[C, T captype.Capacity](path string, g model.Graph[C, T]) error {
	return writeFile(fs.Default, path, g)
}

func writeFile[C, T captype.Capacity](fsys fs.FileSystem, path string, g model.Graph[C, T]) error {
	err := fs.WriteFileAtomic(fsys, path, 0o644, func(w io.Writer) error {
		cw, err := NewWriter(w, CompressionFor(path))
		if err != nil {
			return err
		}
		if err := Write(cw, g); err != nil {
			_ = cw.Close()
			return err
		}
		return cw.Close()
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
