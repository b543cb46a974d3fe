// Package bkio reads and writes binary BK graph (.bbk) and QPBO problem
// (.bq) files.
//
// A BK graph has nodes, terminal arcs carrying a source and a sink capacity
// per node, and neighbor arcs carrying a forward and a reverse capacity. A
// QPBO problem has nodes, unary energy terms and binary energy terms. Both
// are stored as a small fixed header followed by sections of packed
// little-endian records, each section optionally compressed as one Snappy
// block.
//
// # Quick Start
//
//	b := bkio.NewGraphBuilder[int32, int32](4)
//	b.AddTerminalEdge(0, 5, 0)
//	b.AddNeighborEdge(0, 1, 3, 3)
//	if err := b.Save("grid.bbk", bkio.WithCompression(true)); err != nil { ... }
//
//	g, err := bkio.ReadGraphFile[int32, int32]("grid.bbk")
//
// # Types
//
// Capacities and energies are one of ten numeric types (see package
// captype). Graph and problem types carry them as type parameters; typed
// reads fail with ErrTypeMismatch when a file was written with other types.
// Tools that do not care about the value types use the raw readers
// (ReadGraphRaw, ReadQpboRaw) or the header-only readers.
//
// # Files
//
// File writers replace their target atomically. File readers can use a
// read-only memory mapping (WithMmap) on platforms that support it.
//
// # Observability
//
// File operations log through WithLogger and report to a MetricsCollector
// set with WithMetrics. Both default to no-ops.
package bkio
