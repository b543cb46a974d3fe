package bkio

import (
	"slices"

	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/model"
)

// NormalForm rewrites the energies of a binary term so that only the
// mixed-state arcs carry weight. It returns the terminal capacity added to
// the first node (ci) and second node (cj), and the forward (cij) and
// backward (cji) arc capacities. For unsigned types arithmetic wraps.
func NormalForm[T captype.Capacity](e00, e01, e10, e11 T) (ci, cj, cij, cji T) {
	var zero T
	ci = e11 - e00
	cij = e01 - e00
	cji = e10 - e11

	switch {
	case cij < zero:
		ci -= cij
		cj = cij
		cji += cij
		cij = zero
	case cji < zero:
		ci += cji
		cj = -cji
		cij += cji
		cji = zero
	default:
		cj = zero
	}
	return ci, cj, cij, cji
}

// GraphFromQpbo reduces a QPBO problem to a BK graph on 2n nodes whose
// minimum cut solves the problem's relaxation. Node i has the dual node
// i+n.
//
// Each binary term yields a primal and a dual neighbor arc; non-submodular
// terms connect to the dual of their second node. Each unary term yields a
// primal and a dual terminal arc with the node's accumulated binary
// terminal capacity folded in. Nodes with accumulated capacity but no unary
// term get an extra terminal arc pair, in ascending node order.
func GraphFromQpbo[T captype.Capacity](q model.Qpbo[T]) model.Graph[T, T] {
	var zero T
	dual := q.NumNodes
	nb := len(q.BinaryTerms)
	nu := len(q.UnaryTerms)

	g := model.Graph[T, T]{
		NumNodes:     2 * q.NumNodes,
		TerminalArcs: make([]model.TerminalArc[T], 2*nu, 2*nu+2*nb),
		NeighborArcs: make([]model.NeighborArc[T], 2*nb),
	}

	trCaps := make(map[uint64]T)
	for k, b := range q.BinaryTerms {
		var ci, cj, cij, cji T
		if b.Submodular() {
			ci, cj, cij, cji = NormalForm(b.E00, b.E01, b.E10, b.E11)
			g.NeighborArcs[k] = model.NeighborArc[T]{From: b.I, To: b.J, Cap: cij, RevCap: cji}
			g.NeighborArcs[k+nb] = model.NeighborArc[T]{From: b.J + dual, To: b.I + dual, Cap: cij, RevCap: cji}
		} else {
			// Flip the second variable.
			ci, cj, cij, cji = NormalForm(b.E01, b.E00, b.E11, b.E10)
			g.NeighborArcs[k] = model.NeighborArc[T]{From: b.I, To: b.J + dual, Cap: cij, RevCap: cji}
			g.NeighborArcs[k+nb] = model.NeighborArc[T]{From: b.J, To: b.I + dual, Cap: cij, RevCap: cji}
		}
		trCaps[b.I] += ci
		trCaps[b.J] += cj
	}

	for k, u := range q.UnaryTerms {
		e0, e1 := u.E0, u.E1
		if c, ok := trCaps[u.Node]; ok {
			if c < zero {
				e1 += -c
			} else {
				e0 += c
			}
			delete(trCaps, u.Node)
		}
		g.TerminalArcs[k] = model.TerminalArc[T]{Node: u.Node, SourceCap: e1, SinkCap: e0}
		g.TerminalArcs[k+nu] = model.TerminalArc[T]{Node: u.Node + dual, SourceCap: e0, SinkCap: e1}
	}

	rest := make([]uint64, 0, len(trCaps))
	for node := range trCaps {
		rest = append(rest, node)
	}
	slices.Sort(rest)
	for _, node := range rest {
		c := trCaps[node]
		switch {
		case c > zero:
			g.TerminalArcs = append(g.TerminalArcs,
				model.TerminalArc[T]{Node: node, SourceCap: c},
				model.TerminalArc[T]{Node: node + dual, SinkCap: c})
		case c < zero:
			g.TerminalArcs = append(g.TerminalArcs,
				model.TerminalArc[T]{Node: node, SinkCap: -c},
				model.TerminalArc[T]{Node: node + dual, SourceCap: -c})
		}
	}
	return g
}
