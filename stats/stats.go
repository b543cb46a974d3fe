// Package stats summarizes the node ids referenced by BK graphs and QPBO
// problems.
//
// Node ids are not validated when files are read or graphs are built. A
// Summary reports how many distinct ids are used, the largest one, and how
// many fall outside the declared node count.
package stats

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/bkio"
	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/internal/layout"
	"github.com/hupe1980/bkio/model"
)

// ErrNodeOutOfRange is returned by Summary.Check when records reference
// nodes beyond the declared node count.
var ErrNodeOutOfRange = errors.New("stats: node id out of range")

// Summary describes the node ids referenced by a graph or problem.
type Summary struct {
	NumNodes   uint64 `json:"num_nodes"`
	NumRecords uint64 `json:"num_records"`
	// Touched is the number of distinct node ids referenced.
	Touched uint64 `json:"touched_nodes"`
	// Untouched is the number of declared nodes never referenced.
	Untouched uint64 `json:"untouched_nodes"`
	// MaxNode is the largest id referenced. Zero if Touched is zero.
	MaxNode uint64 `json:"max_node"`
	// OutOfRange is the number of distinct ids >= NumNodes.
	OutOfRange uint64 `json:"out_of_range"`
	// SelfLoops counts neighbor arcs or binary terms joining a node to itself.
	SelfLoops uint64 `json:"self_loops"`
}

// Check returns ErrNodeOutOfRange if any referenced id is out of range.
func (s Summary) Check() error {
	if s.OutOfRange > 0 {
		return fmt.Errorf("%w: %d ids >= %d, max %d", ErrNodeOutOfRange, s.OutOfRange, s.NumNodes, s.MaxNode)
	}
	return nil
}

// Collector accumulates node ids. The zero value is not usable; call
// NewCollector.
type Collector struct {
	ids       *roaring64.Bitmap
	records   uint64
	selfLoops uint64
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{ids: roaring64.New()}
}

// Add records a record referencing one node.
func (c *Collector) Add(id uint64) {
	c.ids.Add(id)
	c.records++
}

// AddPair records a record joining two nodes.
func (c *Collector) AddPair(i, j uint64) {
	c.ids.Add(i)
	c.ids.Add(j)
	c.records++
	if i == j {
		c.selfLoops++
	}
}

// Contains reports whether id was referenced.
func (c *Collector) Contains(id uint64) bool {
	return c.ids.Contains(id)
}

// Summary summarizes the ids collected against a declared node count.
func (c *Collector) Summary(numNodes uint64) Summary {
	s := Summary{
		NumNodes:   numNodes,
		NumRecords: c.records,
		Touched:    c.ids.GetCardinality(),
		SelfLoops:  c.selfLoops,
	}
	if s.Touched == 0 {
		s.Untouched = numNodes
		return s
	}
	s.MaxNode = c.ids.Maximum()

	inRange := uint64(0)
	if numNodes > 0 {
		inRange = c.ids.Rank(numNodes - 1)
	}
	s.OutOfRange = s.Touched - inRange
	s.Untouched = numNodes - inRange
	return s
}

// Graph summarizes g.
func Graph[C, T captype.Capacity](g model.Graph[C, T]) Summary {
	c := NewCollector()
	for _, a := range g.TerminalArcs {
		c.Add(a.Node)
	}
	for _, a := range g.NeighborArcs {
		c.AddPair(a.From, a.To)
	}
	return c.Summary(g.NumNodes)
}

// Qpbo summarizes q.
func Qpbo[T captype.Capacity](q model.Qpbo[T]) Summary {
	c := NewCollector()
	for _, u := range q.UnaryTerms {
		c.Add(u.Node)
	}
	for _, b := range q.BinaryTerms {
		c.AddPair(b.I, b.J)
	}
	return c.Summary(q.NumNodes)
}

// RawGraph summarizes g without decoding capacities.
func RawGraph(g bkio.RawGraph) (Summary, error) {
	h := g.Header
	c := NewCollector()
	if err := eachRecord(g.Terminal, h.NumTerminalArcs, layout.TerminalArcSize(h.TerminalCapType), func(rec []byte) {
		c.Add(binary.LittleEndian.Uint64(rec))
	}); err != nil {
		return Summary{}, fmt.Errorf("terminal arcs: %w", err)
	}
	if err := eachRecord(g.Neighbor, h.NumNeighborArcs, layout.NeighborArcSize(h.NeighborCapType), func(rec []byte) {
		c.AddPair(binary.LittleEndian.Uint64(rec), binary.LittleEndian.Uint64(rec[8:]))
	}); err != nil {
		return Summary{}, fmt.Errorf("neighbor arcs: %w", err)
	}
	return c.Summary(h.NumNodes), nil
}

// RawQpbo summarizes q without decoding energies.
func RawQpbo(q bkio.RawQpbo) (Summary, error) {
	h := q.Header
	c := NewCollector()
	if err := eachRecord(q.Unary, h.NumUnaryTerms, layout.UnaryTermSize(h.CapType), func(rec []byte) {
		c.Add(binary.LittleEndian.Uint64(rec))
	}); err != nil {
		return Summary{}, fmt.Errorf("unary terms: %w", err)
	}
	if err := eachRecord(q.Binary, h.NumBinaryTerms, layout.BinaryTermSize(h.CapType), func(rec []byte) {
		c.AddPair(binary.LittleEndian.Uint64(rec), binary.LittleEndian.Uint64(rec[8:]))
	}); err != nil {
		return Summary{}, fmt.Errorf("binary terms: %w", err)
	}
	return c.Summary(q.Header.NumNodes), nil
}

func eachRecord(raw []byte, count uint64, size int, fn func([]byte)) error {
	if size <= 0 || count > uint64(len(raw)) || uint64(len(raw)) != count*uint64(size) {
		return fmt.Errorf("%w: %d bytes for %d records of %d bytes", bkio.ErrLengthMismatch, len(raw), count, size)
	}
	for off := 0; off < len(raw); off += size {
		fn(raw[off : off+size])
	}
	return nil
}
