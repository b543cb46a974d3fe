package bkio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bkio/model"
	"github.com/hupe1980/bkio/testutil"
)

func TestGraphBuilder_BatchingIsAssociative(t *testing.T) {
	rng := testutil.NewRNG(11)
	ref := testutil.RandomGraph[int32, float32](rng, 40, 25, 60)

	nodes := make([]uint64, len(ref.TerminalArcs))
	src := make([]float32, len(ref.TerminalArcs))
	snk := make([]float32, len(ref.TerminalArcs))
	for i, a := range ref.TerminalArcs {
		nodes[i], src[i], snk[i] = a.Node, a.SourceCap, a.SinkCap
	}
	froms := make([]uint64, len(ref.NeighborArcs))
	tos := make([]uint64, len(ref.NeighborArcs))
	caps := make([]int32, len(ref.NeighborArcs))
	revs := make([]int32, len(ref.NeighborArcs))
	for i, a := range ref.NeighborArcs {
		froms[i], tos[i], caps[i], revs[i] = a.From, a.To, a.Cap, a.RevCap
	}

	batch := NewGraphBuilder[int32, float32](40)
	require.NoError(t, batch.AddTerminalEdges(nodes, src, snk))
	require.NoError(t, batch.AddNeighborEdges(froms, tos, caps, revs))

	single := NewGraphBuilder[int32, float32](40)
	for i := range nodes {
		single.AddTerminalEdge(nodes[i], src[i], snk[i])
	}
	for i := range froms {
		single.AddNeighborEdge(froms[i], tos[i], caps[i], revs[i])
	}

	mixed := NewGraphBuilder[int32, float32](40)
	require.NoError(t, mixed.AddTerminalEdges(nodes[:7], src[:7], snk[:7]))
	require.NoError(t, mixed.AddTerminalEdges(nodes[7:], src[7:], snk[7:]))
	for i := 0; i < len(froms); i += 9 {
		end := min(i+9, len(froms))
		require.NoError(t, mixed.AddNeighborEdges(froms[i:end], tos[i:end], caps[i:end], revs[i:end]))
	}

	assert.Equal(t, ref, batch.Snapshot())
	assert.Equal(t, ref, single.Snapshot())
	assert.Equal(t, ref, mixed.Snapshot())
}

func TestGraphBuilder_ReservationExhaustion(t *testing.T) {
	for _, geometric := range []bool{false, true} {
		b := NewGraphBuilder[uint16, uint16](0, func(o *BuilderOptions) {
			o.ExpectedTerminalArcs = 3
			o.ExpectedNeighborArcs = 2
			o.GeometricGrowth = geometric
		})

		var want []model.TerminalArc[uint16]
		for batch := range 5 {
			n := batch + 2
			nodes := make([]uint64, n)
			caps := make([]uint16, n)
			for i := range n {
				nodes[i] = uint64(len(want) + i)
				caps[i] = uint16(batch*100 + i)
			}
			require.NoError(t, b.AddTerminalEdges(nodes, caps, caps))
			for i := range n {
				want = append(want, model.TerminalArc[uint16]{Node: nodes[i], SourceCap: caps[i], SinkCap: caps[i]})
			}
		}
		for i := range 7 {
			b.AddNeighborEdge(uint64(i), uint64(i+1), uint16(i), uint16(2*i))
		}

		g := b.Snapshot()
		assert.Equal(t, want, g.TerminalArcs)
		require.Len(t, g.NeighborArcs, 7)
		for i, a := range g.NeighborArcs {
			assert.Equal(t, model.NeighborArc[uint16]{From: uint64(i), To: uint64(i + 1), Cap: uint16(i), RevCap: uint16(2 * i)}, a)
		}
		assert.Equal(t, len(want), b.NumTerminalArcs())
		assert.Equal(t, 7, b.NumNeighborArcs())
	}
}

func TestGraphBuilder_LengthMismatchInsertsNothing(t *testing.T) {
	b := NewGraphBuilder[int32, int32](3)
	b.AddTerminalEdge(0, 1, 1)

	err := b.AddTerminalEdges([]uint64{0, 1, 2}, []int32{1, 2}, []int32{1, 2, 3})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	err = b.AddNeighborEdges([]uint64{0}, []uint64{1}, []int32{1}, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	assert.Equal(t, 1, b.NumTerminalArcs())
	assert.Zero(t, b.NumNeighborArcs())
}

func TestGraphBuilder_Nodes(t *testing.T) {
	b := NewGraphBuilder[int8, int8](2)
	assert.Equal(t, uint64(2), b.AddNode())
	assert.Equal(t, uint64(3), b.AddNodes(5))
	assert.Equal(t, uint64(8), b.NumNodes())
	assert.Equal(t, uint64(8), b.Snapshot().NumNodes)
}

func TestGraphBuilder_SnapshotIsIndependent(t *testing.T) {
	b := NewGraphBuilder[int32, int32](2, func(o *BuilderOptions) {
		o.ExpectedTerminalArcs = 8
	})
	b.AddTerminalEdge(0, 5, 3)
	first := b.Snapshot()
	assert.Equal(t, 1, cap(first.TerminalArcs))

	b.AddTerminalEdge(1, 6, 4)
	second := b.Snapshot()

	assert.Len(t, first.TerminalArcs, 1)
	assert.Len(t, second.TerminalArcs, 2)
	second.TerminalArcs[0].SourceCap = 99
	assert.Equal(t, int32(5), first.TerminalArcs[0].SourceCap)
	assert.Equal(t, int32(5), b.Snapshot().TerminalArcs[0].SourceCap)
}

func TestGraphBuilder_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "built.bbk")
	b := NewGraphBuilder[int32, int32](2)
	b.AddTerminalEdge(0, 5, 3)
	b.AddNeighborEdge(0, 1, 7, 2)
	require.NoError(t, b.Save(path, WithCompression(true)))

	g, err := ReadGraphFile[int32, int32](path)
	require.NoError(t, err)
	assert.Equal(t, smallGraph(), g)
}
