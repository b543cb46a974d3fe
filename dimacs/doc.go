// Package dimacs reads and writes BK graphs in the DIMACS max-flow text
// format.
//
// A DIMACS max-flow file has the following lines:
//
//	c <comment>              ignored, as are blank lines
//	p max <nodes> <arcs>     problem line, node count includes s and t
//	n <id> s                 source node descriptor
//	n <id> t                 sink node descriptor
//	a <from> <to> <cap>      arc descriptor
//
// Node ids are 1-based. Arcs leaving the source or entering the sink become
// terminal arcs; all other arcs become neighbor arcs with zero reverse
// capacity. The remaining node ids are renumbered densely from zero, skipping
// the source and sink.
//
// Files ending in .zst or .lz4 are transparently compressed by Open, Create,
// ReadFile and WriteFile.
//
// See http://lpsolve.sourceforge.net/5.5/DIMACS_maxf.htm
package dimacs
