package dimacs

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/model"
)

// ErrSyntax is returned for lines that do not follow the max-flow format.
var ErrSyntax = errors.New("dimacs: syntax error")

const maxLineSize = 1 << 20

// Read parses a DIMACS max-flow problem into a BK graph.
func Read[C, T captype.Capacity](r io.Reader) (model.Graph[C, T], error) {
	p := parser[C, T]{
		nbor: captype.CodeOf[C](),
		term: captype.CodeOf[T](),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Bytes()); err != nil {
			return model.Graph[C, T]{}, err
		}
	}
	if err := sc.Err(); err != nil {
		return model.Graph[C, T]{}, err
	}
	if !p.seenProblem {
		return model.Graph[C, T]{}, fmt.Errorf("%w: missing problem line", ErrSyntax)
	}
	return p.g, nil
}

type parser[C, T captype.Capacity] struct {
	g           model.Graph[C, T]
	nbor, term  captype.Code
	line        int
	seenProblem bool
	numNodes    uint64
	source      uint64
	sink        uint64
}

func (p *parser[C, T]) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, p.line, fmt.Sprintf(format, args...))
}

func (p *parser[C, T]) parseLine(line []byte) error {
	fields := bytes.Fields(line)
	if len(fields) == 0 || fields[0][0] == 'c' {
		return nil
	}
	if len(fields[0]) != 1 {
		return p.errorf("unknown descriptor %q", fields[0])
	}

	switch fields[0][0] {
	case 'p':
		return p.parseProblem(fields)
	case 'n':
		return p.parseNode(fields)
	case 'a':
		return p.parseArc(fields)
	default:
		return p.errorf("unknown descriptor %q", fields[0])
	}
}

func (p *parser[C, T]) parseProblem(fields [][]byte) error {
	if p.seenProblem {
		return p.errorf("duplicate problem line")
	}
	if len(fields) < 4 || string(fields[1]) != "max" {
		return p.errorf("expected 'p max <nodes> <arcs>'")
	}
	n, err := strconv.ParseUint(string(fields[2]), 10, 64)
	if err != nil {
		return p.errorf("node count: %v", err)
	}
	if n < 2 {
		return p.errorf("node count %d does not include source and sink", n)
	}
	// The arc count is not checked against the arc lines.
	if _, err := strconv.ParseUint(string(fields[3]), 10, 64); err != nil {
		return p.errorf("arc count: %v", err)
	}

	p.seenProblem = true
	p.numNodes = n
	p.g.NumNodes = n - 2
	return nil
}

func (p *parser[C, T]) parseNode(fields [][]byte) error {
	if !p.seenProblem {
		return p.errorf("node descriptor before problem line")
	}
	if len(fields) < 3 || len(fields[2]) != 1 {
		return p.errorf("expected 'n <id> s|t'")
	}
	id, err := p.parseID(fields[1])
	if err != nil {
		return err
	}

	switch fields[2][0] {
	case 's':
		if p.source != 0 {
			return p.errorf("duplicate source")
		}
		p.source = id
	case 't':
		if p.sink != 0 {
			return p.errorf("duplicate sink")
		}
		p.sink = id
	default:
		return p.errorf("unknown node type %q", fields[2])
	}
	if p.source != 0 && p.source == p.sink {
		return p.errorf("source and sink are the same node")
	}
	return nil
}

func (p *parser[C, T]) parseArc(fields [][]byte) error {
	if p.source == 0 || p.sink == 0 {
		return p.errorf("arc descriptor before source and sink")
	}
	if len(fields) < 4 {
		return p.errorf("expected 'a <from> <to> <cap>'")
	}
	from, err := p.parseID(fields[1])
	if err != nil {
		return err
	}
	to, err := p.parseID(fields[2])
	if err != nil {
		return err
	}
	if to == p.source || from == p.sink {
		return p.errorf("arc into source or out of sink")
	}

	switch {
	case from == p.source && to == p.sink:
		return p.errorf("arc from source to sink")
	case from == p.source:
		c, err := parseCap[T](fields[3], p.term)
		if err != nil {
			return p.errorf("capacity: %v", err)
		}
		p.g.TerminalArcs = append(p.g.TerminalArcs, model.TerminalArc[T]{Node: p.nodeID(to), SourceCap: c})
	case to == p.sink:
		c, err := parseCap[T](fields[3], p.term)
		if err != nil {
			return p.errorf("capacity: %v", err)
		}
		p.g.TerminalArcs = append(p.g.TerminalArcs, model.TerminalArc[T]{Node: p.nodeID(from), SinkCap: c})
	default:
		c, err := parseCap[C](fields[3], p.nbor)
		if err != nil {
			return p.errorf("capacity: %v", err)
		}
		p.g.NeighborArcs = append(p.g.NeighborArcs, model.NeighborArc[C]{From: p.nodeID(from), To: p.nodeID(to), Cap: c})
	}
	return nil
}

func (p *parser[C, T]) parseID(field []byte) (uint64, error) {
	id, err := strconv.ParseUint(string(field), 10, 64)
	if err != nil {
		return 0, p.errorf("node id: %v", err)
	}
	if id == 0 || id > p.numNodes {
		return 0, p.errorf("node id %d outside [1, %d]", id, p.numNodes)
	}
	return id, nil
}

// nodeID maps a 1-based DIMACS id to a 0-based BK node id.
func (p *parser[C, T]) nodeID(id uint64) uint64 {
	out := id - 1
	if id > p.source {
		out--
	}
	if id > p.sink {
		out--
	}
	return out
}

func parseCap[V captype.Capacity](field []byte, code captype.Code) (V, error) {
	bits := code.Size() * 8
	switch {
	case code.IsFloat():
		f, err := strconv.ParseFloat(string(field), bits)
		return V(f), err
	case code.IsSigned():
		i, err := strconv.ParseInt(string(field), 10, bits)
		return V(i), err
	default:
		u, err := strconv.ParseUint(string(field), 10, bits)
		return V(u), err
	}
}

// Write emits g as a DIMACS max-flow problem. The source is node 1, the sink
// node 2, and BK node i is node i+3. Every nonzero capacity becomes one arc,
// reverse capacities as arcs in the opposite direction. Arcs with no
// capacity at all are still written with capacity 0.
func Write[C, T captype.Capacity](w io.Writer, g model.Graph[C, T]) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "p max %d %d\n", g.NumNodes+2, numArcs(g))
	fmt.Fprintf(bw, "c terminal arcs: %d, neighbor_arcs: %d\n", len(g.TerminalArcs), len(g.NeighborArcs))
	fmt.Fprint(bw, "n 1 s\nn 2 t\n")

	for _, a := range g.TerminalArcs {
		node := a.Node + 3
		if a.SourceCap != 0 {
			fmt.Fprintf(bw, "a 1 %d %v\n", node, a.SourceCap)
		}
		if a.SinkCap != 0 {
			fmt.Fprintf(bw, "a %d 2 %v\n", node, a.SinkCap)
		}
		if a.SourceCap == 0 && a.SinkCap == 0 {
			fmt.Fprintf(bw, "a 1 %d 0\n", node)
		}
	}
	for _, a := range g.NeighborArcs {
		from, to := a.From+3, a.To+3
		if a.Cap != 0 {
			fmt.Fprintf(bw, "a %d %d %v\n", from, to, a.Cap)
		}
		if a.RevCap != 0 {
			fmt.Fprintf(bw, "a %d %d %v\n", to, from, a.RevCap)
		}
		if a.Cap == 0 && a.RevCap == 0 {
			fmt.Fprintf(bw, "a %d %d 0\n", from, to)
		}
	}

	fmt.Fprint(bw, "c End of file\n")
	return bw.Flush()
}

// numArcs counts the arc lines Write emits for g.
func numArcs[C, T captype.Capacity](g model.Graph[C, T]) uint64 {
	var n uint64
	for _, a := range g.TerminalArcs {
		n += arcLines(a.SourceCap != 0, a.SinkCap != 0)
	}
	for _, a := range g.NeighborArcs {
		n += arcLines(a.Cap != 0, a.RevCap != 0)
	}
	return n
}

func arcLines(first, second bool) uint64 {
	if first && second {
		return 2
	}
	return 1
}
