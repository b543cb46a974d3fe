package bkio

import (
	"fmt"
	"io"

	"github.com/hupe1980/bkio/internal/layout"
	"github.com/hupe1980/bkio/internal/wire"
)

// RawGraph is a BK graph with undecoded sections. Terminal and Neighbor hold
// the packed little-endian records described by Header, uncompressed.
type RawGraph struct {
	Header   GraphHeader
	Terminal []byte
	Neighbor []byte
}

// RawQpbo is a QPBO problem with undecoded sections.
type RawQpbo struct {
	Header QpboHeader
	Unary  []byte
	Binary []byte
}

// ReadGraphRaw reads a .bbk graph of any value types without decoding records.
func ReadGraphRaw(r io.Reader) (RawGraph, error) {
	return decodeGraphRaw(newSource(r))
}

func decodeGraphRaw(src wire.Source) (RawGraph, error) {
	h, err := decodeGraphHeader(src)
	if err != nil {
		return RawGraph{}, err
	}
	terminal, err := readRawSection(src, h.NumTerminalArcs, layout.TerminalArcSize(h.TerminalCapType), h.Compressed)
	if err != nil {
		return RawGraph{}, fmt.Errorf("terminal arcs: %w", err)
	}
	neighbor, err := readRawSection(src, h.NumNeighborArcs, layout.NeighborArcSize(h.NeighborCapType), h.Compressed)
	if err != nil {
		return RawGraph{}, fmt.Errorf("neighbor arcs: %w", err)
	}
	if err := checkEnd(src); err != nil {
		return RawGraph{}, err
	}
	return RawGraph{Header: h, Terminal: terminal, Neighbor: neighbor}, nil
}

// WriteGraphRaw writes g with the given compression, ignoring
// g.Header.Compressed. Section lengths must match the header counts.
func WriteGraphRaw(w io.Writer, g RawGraph, compress bool) error {
	h := g.Header
	h.Compressed = compress
	hdr, err := h.AppendBinary(make([]byte, 0, GraphHeaderSize))
	if err != nil {
		return err
	}
	tSize := layout.TerminalArcSize(h.TerminalCapType)
	nSize := layout.NeighborArcSize(h.NeighborCapType)
	if err := checkRawLen("terminal arcs", g.Terminal, h.NumTerminalArcs, tSize); err != nil {
		return err
	}
	if err := checkRawLen("neighbor arcs", g.Neighbor, h.NumNeighborArcs, nSize); err != nil {
		return err
	}

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	if err := writeRawSection(w, g.Terminal, compress); err != nil {
		return fmt.Errorf("terminal arcs: %w", err)
	}
	if err := writeRawSection(w, g.Neighbor, compress); err != nil {
		return fmt.Errorf("neighbor arcs: %w", err)
	}
	return nil
}

// ReadQpboRaw reads a .bq problem of any value type without decoding records.
func ReadQpboRaw(r io.Reader) (RawQpbo, error) {
	return decodeQpboRaw(newSource(r))
}

func decodeQpboRaw(src wire.Source) (RawQpbo, error) {
	h, err := decodeQpboHeader(src)
	if err != nil {
		return RawQpbo{}, err
	}
	unary, err := readRawSection(src, h.NumUnaryTerms, layout.UnaryTermSize(h.CapType), h.Compressed)
	if err != nil {
		return RawQpbo{}, fmt.Errorf("unary terms: %w", err)
	}
	binary, err := readRawSection(src, h.NumBinaryTerms, layout.BinaryTermSize(h.CapType), h.Compressed)
	if err != nil {
		return RawQpbo{}, fmt.Errorf("binary terms: %w", err)
	}
	if err := checkEnd(src); err != nil {
		return RawQpbo{}, err
	}
	return RawQpbo{Header: h, Unary: unary, Binary: binary}, nil
}

// WriteQpboRaw writes q with the given compression, ignoring
// q.Header.Compressed.
func WriteQpboRaw(w io.Writer, q RawQpbo, compress bool) error {
	h := q.Header
	h.Compressed = compress
	hdr, err := h.AppendBinary(make([]byte, 0, QpboHeaderSize))
	if err != nil {
		return err
	}
	uSize := layout.UnaryTermSize(h.CapType)
	bSize := layout.BinaryTermSize(h.CapType)
	if err := checkRawLen("unary terms", q.Unary, h.NumUnaryTerms, uSize); err != nil {
		return err
	}
	if err := checkRawLen("binary terms", q.Binary, h.NumBinaryTerms, bSize); err != nil {
		return err
	}

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	if err := writeRawSection(w, q.Unary, compress); err != nil {
		return fmt.Errorf("unary terms: %w", err)
	}
	if err := writeRawSection(w, q.Binary, compress); err != nil {
		return fmt.Errorf("binary terms: %w", err)
	}
	return nil
}

func checkRawLen(section string, raw []byte, count uint64, size int) error {
	if size <= 0 || uint64(len(raw))%uint64(size) != 0 || uint64(len(raw))/uint64(size) != count {
		return fmt.Errorf("%w: %s: %d bytes for %d records of %d bytes", ErrLengthMismatch, section, len(raw), count, size)
	}
	return nil
}
