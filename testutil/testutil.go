package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64n returns a pseudo-random number in [0,n). n must be positive.
func (r *RNG) Uint64n(n uint64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64() % n
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Value returns a small random value of type T: in [-100, 100] for signed
// and float types, [0, 200] for unsigned types. Floats have a fractional
// part.
func Value[T captype.Capacity](r *RNG) T {
	c := captype.CodeOf[T]()
	switch {
	case c.IsFloat():
		return T(r.Float64()*200 - 100)
	case c.IsSigned():
		return T(r.Intn(201) - 100)
	default:
		return T(r.Intn(201))
	}
}

func node(r *RNG, numNodes uint64) uint64 {
	if numNodes == 0 {
		return 0
	}
	return r.Uint64n(numNodes)
}

// RandomGraph returns a graph with random arcs between nodes in [0, numNodes).
func RandomGraph[C, T captype.Capacity](r *RNG, numNodes uint64, numTerminal, numNeighbor int) model.Graph[C, T] {
	g := model.Graph[C, T]{
		NumNodes:     numNodes,
		TerminalArcs: make([]model.TerminalArc[T], numTerminal),
		NeighborArcs: make([]model.NeighborArc[C], numNeighbor),
	}
	for i := range g.TerminalArcs {
		g.TerminalArcs[i] = model.TerminalArc[T]{
			Node:      node(r, numNodes),
			SourceCap: Value[T](r),
			SinkCap:   Value[T](r),
		}
	}
	for i := range g.NeighborArcs {
		g.NeighborArcs[i] = model.NeighborArc[C]{
			From:   node(r, numNodes),
			To:     node(r, numNodes),
			Cap:    Value[C](r),
			RevCap: Value[C](r),
		}
	}
	return g
}

// RandomQpbo returns a problem with random terms over nodes in [0, numNodes).
func RandomQpbo[T captype.Capacity](r *RNG, numNodes uint64, numUnary, numBinary int) model.Qpbo[T] {
	q := model.Qpbo[T]{
		NumNodes:    numNodes,
		UnaryTerms:  make([]model.UnaryTerm[T], numUnary),
		BinaryTerms: make([]model.BinaryTerm[T], numBinary),
	}
	for i := range q.UnaryTerms {
		q.UnaryTerms[i] = model.UnaryTerm[T]{Node: node(r, numNodes), E0: Value[T](r), E1: Value[T](r)}
	}
	for i := range q.BinaryTerms {
		q.BinaryTerms[i] = model.BinaryTerm[T]{
			I:   node(r, numNodes),
			J:   node(r, numNodes),
			E00: Value[T](r),
			E01: Value[T](r),
			E10: Value[T](r),
			E11: Value[T](r),
		}
	}
	return q
}

// GridGraph returns a 4-connected width x height grid. Every node has a
// terminal arc; the left column is tied to the source and the right column
// to the sink with capacity c. Grid arcs have capacity c both ways.
func GridGraph[C, T captype.Capacity](width, height int, c C) model.Graph[C, T] {
	n := width * height
	g := model.Graph[C, T]{
		NumNodes:     uint64(n),
		TerminalArcs: make([]model.TerminalArc[T], 0, n),
	}
	id := func(x, y int) uint64 { return uint64(y*width + x) }
	for y := range height {
		for x := range width {
			var arc model.TerminalArc[T]
			arc.Node = id(x, y)
			if x == 0 {
				arc.SourceCap = T(c)
			}
			if x == width-1 {
				arc.SinkCap = T(c)
			}
			g.TerminalArcs = append(g.TerminalArcs, arc)
			if x+1 < width {
				g.NeighborArcs = append(g.NeighborArcs, model.NeighborArc[C]{From: id(x, y), To: id(x+1, y), Cap: c, RevCap: c})
			}
			if y+1 < height {
				g.NeighborArcs = append(g.NeighborArcs, model.NeighborArc[C]{From: id(x, y), To: id(x, y+1), Cap: c, RevCap: c})
			}
		}
	}
	return g
}
