package bkio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/internal/fs"
	"github.com/hupe1980/bkio/internal/mmap"
	"github.com/hupe1980/bkio/internal/wire"
	"github.com/hupe1980/bkio/model"
)

const (
	filePerm       = 0o644
	readBufferSize = 256 * 1024
)

// Kind identifies the container format of a file.
type Kind int

const (
	// KindUnknown is neither a BK graph nor a QPBO problem.
	KindUnknown Kind = iota
	// KindGraph is a .bbk BK graph.
	KindGraph
	// KindQpbo is a .bq QPBO problem.
	KindQpbo
)

func (k Kind) String() string {
	switch k {
	case KindGraph:
		return "graph"
	case KindQpbo:
		return "qpbo"
	default:
		return "unknown"
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func writeFile(o options, path string, kind string, write func(io.Writer) error) error {
	start := time.Now()
	var size int64
	err := fs.WriteFileAtomic(o.fs, path, filePerm, func(w io.Writer) error {
		cw := &countingWriter{w: w}
		err := write(cw)
		size = cw.n
		return err
	})
	elapsed := time.Since(start)
	o.logger.LogWrite(path, kind, o.compress, size, elapsed, err)
	o.metrics.RecordWrite(kind, size, elapsed, err)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (o options) recordRead(path, kind string, records uint64, mapped bool, elapsed time.Duration, err error) {
	o.logger.LogRead(path, kind, records, mapped, elapsed, err)
	o.metrics.RecordRead(kind, records, elapsed, err)
}

// readFile decodes path through a memory mapping when enabled and the file
// system hands out OS files, otherwise through a buffered stream bounded by
// the file size.
func readFile[V any](o options, path string, decode func(wire.Source) (V, error)) (v V, mapped bool, err error) {
	f, err := fs.Open(o.fs, path)
	if err != nil {
		return v, false, err
	}
	defer f.Close()

	if o.mmap {
		if osf, ok := f.(*os.File); ok {
			m, err := mmap.Map(osf)
			switch {
			case err == nil:
				defer m.Close()
				_ = m.Advise(mmap.AccessSequential)
				v, err = decode(wire.NewSliceReader(m.Bytes()))
				return v, true, err
			case !errors.Is(err, mmap.ErrUnsupported):
				return v, true, err
			}
		}
		o.logger.Debug("mmap unavailable, using buffered read", "path", path)
	}

	info, err := f.Stat()
	if err != nil {
		return v, false, err
	}
	v, err = decode(wire.NewStreamReader(bufio.NewReaderSize(f, readBufferSize), info.Size()))
	return v, false, err
}

// readHeaderFile reads only the fixed header of path.
func readHeaderFile[H any](o options, path string, decode func(wire.Source) (H, error)) (H, error) {
	var zero H
	f, err := fs.Open(o.fs, path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return zero, err
	}
	h, err := decode(wire.NewStreamReader(f, info.Size()))
	o.logger.LogHeader(path, h, err)
	o.metrics.RecordHeader(err)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// WriteGraphFile writes g to path, replacing it atomically.
func WriteGraphFile[C, T captype.Capacity](path string, g model.Graph[C, T], opts ...Option) error {
	o := applyOptions(opts)
	return writeFile(o, path, "graph", func(w io.Writer) error {
		return WriteGraph(w, g, o.compress)
	})
}

// ReadGraphFile reads a .bbk graph from path.
func ReadGraphFile[C, T captype.Capacity](path string, opts ...Option) (model.Graph[C, T], error) {
	o := applyOptions(opts)
	start := time.Now()
	g, mapped, err := readFile(o, path, decodeGraph[C, T])
	o.recordRead(path, "graph", uint64(g.NumArcs()), mapped, time.Since(start), err)
	if err != nil {
		return model.Graph[C, T]{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ReadGraphHeaderFile reads only the header of the .bbk file at path.
func ReadGraphHeaderFile(path string, opts ...Option) (GraphHeader, error) {
	return readHeaderFile(applyOptions(opts), path, decodeGraphHeader)
}

// GraphSizes returns the node count including source and sink, and the total
// arc count, of the .bbk file at path. Only the header is read.
func GraphSizes(path string, opts ...Option) (nodes, arcs uint64, err error) {
	h, err := ReadGraphHeaderFile(path, opts...)
	if err != nil {
		return 0, 0, err
	}
	return h.NumNodes + 2, h.NumArcs(), nil
}

// ReadGraphRawFile reads the .bbk file at path without decoding records.
func ReadGraphRawFile(path string, opts ...Option) (RawGraph, error) {
	o := applyOptions(opts)
	start := time.Now()
	g, mapped, err := readFile(o, path, decodeGraphRaw)
	o.recordRead(path, "graph", g.Header.NumArcs(), mapped, time.Since(start), err)
	if err != nil {
		return RawGraph{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteGraphRawFile writes g to path, replacing it atomically.
func WriteGraphRawFile(path string, g RawGraph, opts ...Option) error {
	o := applyOptions(opts)
	return writeFile(o, path, "graph", func(w io.Writer) error {
		return WriteGraphRaw(w, g, o.compress)
	})
}

// WriteQpboFile writes q to path, replacing it atomically.
func WriteQpboFile[T captype.Capacity](path string, q model.Qpbo[T], opts ...Option) error {
	o := applyOptions(opts)
	return writeFile(o, path, "qpbo", func(w io.Writer) error {
		return WriteQpbo(w, q, o.compress)
	})
}

// ReadQpboFile reads a .bq problem from path.
func ReadQpboFile[T captype.Capacity](path string, opts ...Option) (model.Qpbo[T], error) {
	o := applyOptions(opts)
	start := time.Now()
	q, mapped, err := readFile(o, path, decodeQpbo[T])
	o.recordRead(path, "qpbo", uint64(q.NumTerms()), mapped, time.Since(start), err)
	if err != nil {
		return model.Qpbo[T]{}, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

// ReadQpboHeaderFile reads only the header of the .bq file at path.
func ReadQpboHeaderFile(path string, opts ...Option) (QpboHeader, error) {
	return readHeaderFile(applyOptions(opts), path, decodeQpboHeader)
}

// QpboSizes returns the node and arc counts of the graph the .bq problem at
// path reduces to (see GraphFromQpbo): 2n+2 nodes and two arcs per term.
// Only the header is read.
func QpboSizes(path string, opts ...Option) (nodes, arcs uint64, err error) {
	h, err := ReadQpboHeaderFile(path, opts...)
	if err != nil {
		return 0, 0, err
	}
	return 2*h.NumNodes + 2, 2*h.NumUnaryTerms + 2*h.NumBinaryTerms, nil
}

// ReadQpboRawFile reads the .bq file at path without decoding records.
func ReadQpboRawFile(path string, opts ...Option) (RawQpbo, error) {
	o := applyOptions(opts)
	start := time.Now()
	q, mapped, err := readFile(o, path, decodeQpboRaw)
	o.recordRead(path, "qpbo", q.Header.NumTerms(), mapped, time.Since(start), err)
	if err != nil {
		return RawQpbo{}, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

// WriteQpboRawFile writes q to path, replacing it atomically.
func WriteQpboRawFile(path string, q RawQpbo, opts ...Option) error {
	o := applyOptions(opts)
	return writeFile(o, path, "qpbo", func(w io.Writer) error {
		return WriteQpboRaw(w, q, o.compress)
	})
}

// DetectKind reads the magic of the file at path.
func DetectKind(path string, opts ...Option) (Kind, error) {
	o := applyOptions(opts)
	f, err := fs.Open(o.fs, path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	var magic [len(qpboMagic)]byte
	n, err := io.ReadFull(f, magic[:])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return KindUnknown, err
	}
	return kindOf(magic[:n]), nil
}

func kindOf(magic []byte) Kind {
	switch {
	case len(magic) >= len(qpboMagic) && bytes.EqualFold(magic[:len(qpboMagic)], []byte(qpboMagic)):
		return KindQpbo
	case len(magic) >= len(graphMagic) && bytes.EqualFold(magic[:len(graphMagic)], []byte(graphMagic)):
		return KindGraph
	default:
		return KindUnknown
	}
}

// Recompress rewrites the graph or problem at src to dst with or without
// compression, without decoding records. Value types are preserved. The
// WithCompression option is ignored in favour of compress.
func Recompress(src, dst string, compress bool, opts ...Option) (Kind, error) {
	kind, err := DetectKind(src, opts...)
	if err != nil {
		return kind, err
	}
	opts = append(opts, WithCompression(compress))

	switch kind {
	case KindGraph:
		g, err := ReadGraphRawFile(src, opts...)
		if err != nil {
			return kind, err
		}
		return kind, WriteGraphRawFile(dst, g, opts...)
	case KindQpbo:
		q, err := ReadQpboRawFile(src, opts...)
		if err != nil {
			return kind, err
		}
		return kind, WriteQpboRawFile(dst, q, opts...)
	default:
		return kind, fmt.Errorf("%s: %w: not a graph or QPBO file", src, ErrInvalidHeader)
	}
}
