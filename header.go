package bkio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/internal/wire"
)

const (
	graphMagic = "BBQ"
	qpboMagic  = "BQPBO"

	// GraphHeaderSize is the size of the fixed .bbk header in bytes.
	GraphHeaderSize = len(graphMagic) + 2 + 3*8
	// QpboHeaderSize is the size of the fixed .bq header in bytes.
	QpboHeaderSize = len(qpboMagic) + 1 + 3*8
)

// GraphHeader is the fixed header of a BK graph file.
type GraphHeader struct {
	Compressed      bool
	NeighborCapType captype.Code
	TerminalCapType captype.Code
	NumNodes        uint64
	NumTerminalArcs uint64
	NumNeighborArcs uint64
}

// NumArcs returns the total number of terminal and neighbor arcs.
func (h GraphHeader) NumArcs() uint64 { return h.NumTerminalArcs + h.NumNeighborArcs }

// AppendBinary appends the encoded header to b.
func (h GraphHeader) AppendBinary(b []byte) ([]byte, error) {
	if !h.NeighborCapType.Valid() || !h.TerminalCapType.Valid() {
		return nil, fmt.Errorf("%w: neighbor=%d terminal=%d", ErrInvalidTypeCode, h.NeighborCapType, h.TerminalCapType)
	}
	b = appendMagic(b, graphMagic, h.Compressed)
	b = append(b, byte(h.NeighborCapType), byte(h.TerminalCapType))
	b = binary.LittleEndian.AppendUint64(b, h.NumNodes)
	b = binary.LittleEndian.AppendUint64(b, h.NumTerminalArcs)
	b = binary.LittleEndian.AppendUint64(b, h.NumNeighborArcs)
	return b, nil
}

// QpboHeader is the fixed header of a QPBO problem file.
type QpboHeader struct {
	Compressed     bool
	CapType        captype.Code
	NumNodes       uint64
	NumUnaryTerms  uint64
	NumBinaryTerms uint64
}

// NumTerms returns the total number of unary and binary terms.
func (h QpboHeader) NumTerms() uint64 { return h.NumUnaryTerms + h.NumBinaryTerms }

// AppendBinary appends the encoded header to b.
func (h QpboHeader) AppendBinary(b []byte) ([]byte, error) {
	if !h.CapType.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTypeCode, h.CapType)
	}
	b = appendMagic(b, qpboMagic, h.Compressed)
	b = append(b, byte(h.CapType))
	b = binary.LittleEndian.AppendUint64(b, h.NumNodes)
	b = binary.LittleEndian.AppendUint64(b, h.NumUnaryTerms)
	b = binary.LittleEndian.AppendUint64(b, h.NumBinaryTerms)
	return b, nil
}

func appendMagic(b []byte, magic string, compressed bool) []byte {
	if compressed {
		return append(b, bytes.ToLower([]byte(magic))...)
	}
	return append(b, magic...)
}

// parseMagic validates magic case-insensitively. The file is compressed
// when the magic is entirely lower case.
func parseMagic(got []byte, magic string) (compressed bool, err error) {
	if !bytes.EqualFold(got, []byte(magic)) {
		return false, fmt.Errorf("%w: bad magic %q, want %q", ErrInvalidHeader, got, magic)
	}
	return bytes.Equal(got, bytes.ToLower([]byte(magic))), nil
}

func readHeaderBytes(src wire.Source, n int) ([]byte, error) {
	b, err := src.ReadBytes(n)
	if err != nil {
		if errors.Is(err, wire.ErrShortRead) {
			return nil, fmt.Errorf("%w: truncated header: %w", ErrInvalidHeader, err)
		}
		return nil, err
	}
	return b, nil
}

func decodeGraphHeader(src wire.Source) (GraphHeader, error) {
	b, err := readHeaderBytes(src, GraphHeaderSize)
	if err != nil {
		return GraphHeader{}, err
	}

	var h GraphHeader
	if h.Compressed, err = parseMagic(b[:3], graphMagic); err != nil {
		return GraphHeader{}, err
	}
	if h.NeighborCapType, err = captype.Decode(b[3]); err != nil {
		return GraphHeader{}, fmt.Errorf("neighbor capacity: %w", err)
	}
	if h.TerminalCapType, err = captype.Decode(b[4]); err != nil {
		return GraphHeader{}, fmt.Errorf("terminal capacity: %w", err)
	}
	h.NumNodes = binary.LittleEndian.Uint64(b[5:])
	h.NumTerminalArcs = binary.LittleEndian.Uint64(b[13:])
	h.NumNeighborArcs = binary.LittleEndian.Uint64(b[21:])
	return h, nil
}

func decodeQpboHeader(src wire.Source) (QpboHeader, error) {
	b, err := readHeaderBytes(src, QpboHeaderSize)
	if err != nil {
		return QpboHeader{}, err
	}

	var h QpboHeader
	if h.Compressed, err = parseMagic(b[:5], qpboMagic); err != nil {
		return QpboHeader{}, err
	}
	if h.CapType, err = captype.Decode(b[5]); err != nil {
		return QpboHeader{}, fmt.Errorf("energy: %w", err)
	}
	h.NumNodes = binary.LittleEndian.Uint64(b[6:])
	h.NumUnaryTerms = binary.LittleEndian.Uint64(b[14:])
	h.NumBinaryTerms = binary.LittleEndian.Uint64(b[22:])
	return h, nil
}

// ReadGraphHeader reads only the fixed header of a BK graph from r.
// It fails like a full read on bad magic, a truncated header or an
// invalid type code.
func ReadGraphHeader(r io.Reader) (GraphHeader, error) {
	return decodeGraphHeader(wire.NewStreamReader(r, -1))
}

// ReadQpboHeader reads only the fixed header of a QPBO problem from r.
func ReadQpboHeader(r io.Reader) (QpboHeader, error) {
	return decodeQpboHeader(wire.NewStreamReader(r, -1))
}
