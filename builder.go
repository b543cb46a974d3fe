package bkio

import (
	"fmt"

	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/internal/buffer"
	"github.com/hupe1980/bkio/model"
)

// BuilderOptions configures a GraphBuilder.
type BuilderOptions struct {
	// ExpectedTerminalArcs reserves room for this many terminal arcs.
	ExpectedTerminalArcs int
	// ExpectedNeighborArcs reserves room for this many neighbor arcs.
	ExpectedNeighborArcs int
	// GeometricGrowth doubles a full arc buffer instead of growing it to
	// exactly the required length. It only affects performance.
	GeometricGrowth bool
}

// GraphBuilder accumulates the arcs of one BK graph.
//
// Arcs are written in place while the reservation lasts. Past it, by
// default, every batch that does not fit reallocates to exactly the new
// length, so appending in small steps after the reservation is exhausted
// costs quadratic copying. Reserve the expected final counts up front or set
// GeometricGrowth.
//
// A GraphBuilder is not safe for concurrent use.
type GraphBuilder[C, T captype.Capacity] struct {
	numNodes uint64
	terminal *buffer.Buffer[model.TerminalArc[T]]
	neighbor *buffer.Buffer[model.NeighborArc[C]]
}

// NewGraphBuilder returns a builder for a graph with numNodes nodes.
//
// Example:
//
//	b := bkio.NewGraphBuilder[int32, int32](1024, func(o *bkio.BuilderOptions) {
//	    o.ExpectedTerminalArcs = 1024
//	    o.ExpectedNeighborArcs = 4096
//	})
func NewGraphBuilder[C, T captype.Capacity](numNodes uint64, optFns ...func(*BuilderOptions)) *GraphBuilder[C, T] {
	var opts BuilderOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	growth := buffer.ExactFit
	if opts.GeometricGrowth {
		growth = buffer.Geometric
	}
	return &GraphBuilder[C, T]{
		numNodes: numNodes,
		terminal: buffer.New[model.TerminalArc[T]](opts.ExpectedTerminalArcs, growth),
		neighbor: buffer.New[model.NeighborArc[C]](opts.ExpectedNeighborArcs, growth),
	}
}

// NumNodes returns the node count.
func (b *GraphBuilder[C, T]) NumNodes() uint64 { return b.numNodes }

// NumTerminalArcs returns the number of terminal arcs added.
func (b *GraphBuilder[C, T]) NumTerminalArcs() int { return b.terminal.Len() }

// NumNeighborArcs returns the number of neighbor arcs added.
func (b *GraphBuilder[C, T]) NumNeighborArcs() int { return b.neighbor.Len() }

// AddNode adds one node and returns its id.
func (b *GraphBuilder[C, T]) AddNode() uint64 {
	return b.AddNodes(1)
}

// AddNodes adds n nodes and returns the id of the first.
func (b *GraphBuilder[C, T]) AddNodes(n uint64) uint64 {
	first := b.numNodes
	b.numNodes += n
	return first
}

// AddTerminalEdge adds one terminal arc.
func (b *GraphBuilder[C, T]) AddTerminalEdge(node uint64, sourceCap, sinkCap T) {
	b.terminal.Push(model.TerminalArc[T]{Node: node, SourceCap: sourceCap, SinkCap: sinkCap})
}

// AddTerminalEdges adds terminal arcs from parallel slices. If the slices
// differ in length, nothing is added and ErrLengthMismatch is returned.
func (b *GraphBuilder[C, T]) AddTerminalEdges(nodes []uint64, sourceCaps, sinkCaps []T) error {
	if len(sourceCaps) != len(nodes) || len(sinkCaps) != len(nodes) {
		return fmt.Errorf("%w: %d nodes, %d source caps, %d sink caps",
			ErrLengthMismatch, len(nodes), len(sourceCaps), len(sinkCaps))
	}
	dst := b.terminal.Extend(len(nodes))
	for i := range dst {
		dst[i] = model.TerminalArc[T]{Node: nodes[i], SourceCap: sourceCaps[i], SinkCap: sinkCaps[i]}
	}
	return nil
}

// AddNeighborEdge adds one neighbor arc.
func (b *GraphBuilder[C, T]) AddNeighborEdge(from, to uint64, capacity, revCapacity C) {
	b.neighbor.Push(model.NeighborArc[C]{From: from, To: to, Cap: capacity, RevCap: revCapacity})
}

// AddNeighborEdges adds neighbor arcs from parallel slices. If the slices
// differ in length, nothing is added and ErrLengthMismatch is returned.
func (b *GraphBuilder[C, T]) AddNeighborEdges(froms, tos []uint64, caps, revCaps []C) error {
	n := len(froms)
	if len(tos) != n || len(caps) != n || len(revCaps) != n {
		return fmt.Errorf("%w: %d froms, %d tos, %d caps, %d rev caps",
			ErrLengthMismatch, n, len(tos), len(caps), len(revCaps))
	}
	dst := b.neighbor.Extend(n)
	for i := range dst {
		dst[i] = model.NeighborArc[C]{From: froms[i], To: tos[i], Cap: caps[i], RevCap: revCaps[i]}
	}
	return nil
}

// Snapshot returns the graph built so far. The slices are exact-length
// copies; later calls on the builder do not affect the snapshot.
func (b *GraphBuilder[C, T]) Snapshot() model.Graph[C, T] {
	return model.Graph[C, T]{
		NumNodes:     b.numNodes,
		TerminalArcs: b.terminal.Freeze(),
		NeighborArcs: b.neighbor.Freeze(),
	}
}

// Save writes the graph built so far to path.
func (b *GraphBuilder[C, T]) Save(path string, opts ...Option) error {
	return WriteGraphFile(path, model.Graph[C, T]{
		NumNodes:     b.numNodes,
		TerminalArcs: b.terminal.View(),
		NeighborArcs: b.neighbor.View(),
	}, opts...)
}
