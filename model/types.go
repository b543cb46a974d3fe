package model

import (
	"fmt"

	"github.com/hupe1980/bkio/captype"
)

// TerminalArc connects a node to the implicit source and sink.
type TerminalArc[T captype.Capacity] struct {
	Node      uint64
	SourceCap T
	SinkCap   T
}

// NeighborArc is a directed arc between two nodes. RevCap is the capacity
// of the reverse direction.
type NeighborArc[C captype.Capacity] struct {
	From   uint64
	To     uint64
	Cap    C
	RevCap C
}

// Graph is a BK graph. C is the neighbor capacity type, T the terminal
// capacity type.
type Graph[C, T captype.Capacity] struct {
	NumNodes     uint64
	TerminalArcs []TerminalArc[T]
	NeighborArcs []NeighborArc[C]
}

// NumArcs returns the total number of terminal and neighbor arcs.
func (g Graph[C, T]) NumArcs() int {
	return len(g.TerminalArcs) + len(g.NeighborArcs)
}

// String returns a short summary of the graph.
func (g Graph[C, T]) String() string {
	return fmt.Sprintf("Graph(nodes=%d terminal=%d neighbor=%d cap=%s tcap=%s)",
		g.NumNodes, len(g.TerminalArcs), len(g.NeighborArcs),
		captype.CodeOf[C](), captype.CodeOf[T]())
}

// UnaryTerm holds the energies of a single variable being 0 or 1.
type UnaryTerm[T captype.Capacity] struct {
	Node uint64
	E0   T
	E1   T
}

// BinaryTerm holds the energies of variables I and J for the four state
// combinations.
type BinaryTerm[T captype.Capacity] struct {
	I   uint64
	J   uint64
	E00 T
	E01 T
	E10 T
	E11 T
}

// Submodular reports whether E00 + E11 <= E01 + E10.
func (b BinaryTerm[T]) Submodular() bool {
	return b.E00+b.E11 <= b.E01+b.E10
}

// Qpbo is a quadratic pseudo-boolean optimisation problem.
type Qpbo[T captype.Capacity] struct {
	NumNodes    uint64
	UnaryTerms  []UnaryTerm[T]
	BinaryTerms []BinaryTerm[T]
}

// NumTerms returns the total number of unary and binary terms.
func (q Qpbo[T]) NumTerms() int {
	return len(q.UnaryTerms) + len(q.BinaryTerms)
}

// String returns a short summary of the problem.
func (q Qpbo[T]) String() string {
	return fmt.Sprintf("Qpbo(nodes=%d unary=%d binary=%d cap=%s)",
		q.NumNodes, len(q.UnaryTerms), len(q.BinaryTerms), captype.CodeOf[T]())
}
