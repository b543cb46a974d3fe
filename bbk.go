package bkio

import (
	"fmt"
	"io"

	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/internal/layout"
	"github.com/hupe1980/bkio/internal/wire"
	"github.com/hupe1980/bkio/model"
)

// GraphHeaderOf returns the header WriteGraph emits for g.
// Counts are always taken from the slice lengths.
func GraphHeaderOf[C, T captype.Capacity](g model.Graph[C, T], compressed bool) GraphHeader {
	return GraphHeader{
		Compressed:      compressed,
		NeighborCapType: captype.CodeOf[C](),
		TerminalCapType: captype.CodeOf[T](),
		NumNodes:        g.NumNodes,
		NumTerminalArcs: uint64(len(g.TerminalArcs)),
		NumNeighborArcs: uint64(len(g.NeighborArcs)),
	}
}

// WriteGraph writes g in .bbk format. With compress set, each section is
// written as one length-prefixed Snappy block.
func WriteGraph[C, T captype.Capacity](w io.Writer, g model.Graph[C, T], compress bool) error {
	hdr, err := GraphHeaderOf(g, compress).AppendBinary(make([]byte, 0, GraphHeaderSize))
	if err != nil {
		return err
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	if err := writeSection(w, layout.TerminalArc[T](), g.TerminalArcs, compress); err != nil {
		return fmt.Errorf("terminal arcs: %w", err)
	}
	if err := writeSection(w, layout.NeighborArc[C](), g.NeighborArcs, compress); err != nil {
		return fmt.Errorf("neighbor arcs: %w", err)
	}
	return nil
}

// ReadGraph reads a .bbk graph whose neighbor capacities have type C and
// terminal capacities type T.
func ReadGraph[C, T captype.Capacity](r io.Reader) (model.Graph[C, T], error) {
	return decodeGraph[C, T](newSource(r))
}

// DecodeGraph decodes a .bbk graph held in memory. The result does not
// alias data.
func DecodeGraph[C, T captype.Capacity](data []byte) (model.Graph[C, T], error) {
	return decodeGraph[C, T](wire.NewSliceReader(data))
}

func decodeGraph[C, T captype.Capacity](src wire.Source) (model.Graph[C, T], error) {
	h, err := decodeGraphHeader(src)
	if err != nil {
		return model.Graph[C, T]{}, err
	}
	if err := checkType("neighbor capacity", captype.CodeOf[C](), h.NeighborCapType); err != nil {
		return model.Graph[C, T]{}, err
	}
	if err := checkType("terminal capacity", captype.CodeOf[T](), h.TerminalCapType); err != nil {
		return model.Graph[C, T]{}, err
	}

	terminal, err := readSection(src, layout.TerminalArc[T](), h.NumTerminalArcs, h.Compressed)
	if err != nil {
		return model.Graph[C, T]{}, fmt.Errorf("terminal arcs: %w", err)
	}
	neighbor, err := readSection(src, layout.NeighborArc[C](), h.NumNeighborArcs, h.Compressed)
	if err != nil {
		return model.Graph[C, T]{}, fmt.Errorf("neighbor arcs: %w", err)
	}
	if err := checkEnd(src); err != nil {
		return model.Graph[C, T]{}, err
	}
	return model.Graph[C, T]{
		NumNodes:     h.NumNodes,
		TerminalArcs: terminal,
		NeighborArcs: neighbor,
	}, nil
}
