// Package model defines the record and problem types exchanged through
// binary BK and QPBO files.
//
// # Graph Types
//
//   - TerminalArc: Node with source and sink capacity
//   - NeighborArc: Directed arc with forward and reverse capacity
//   - Graph: Node count plus terminal and neighbor arcs
//
// # QPBO Types
//
//   - UnaryTerm: Energies of one boolean variable
//   - BinaryTerm: Energies of a pair of variables for all four states
//   - Qpbo: Node count plus unary and binary terms
//
// Capacity and energy values are generic over captype.Capacity. A Graph has
// two capacity types (neighbor and terminal arcs may differ); a Qpbo has one.
//
// Values of these types are treated as immutable once produced by a builder
// or a decoder.
package model
