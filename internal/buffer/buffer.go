// Package buffer provides an owned, append-only record buffer with an
// explicit growth policy.
//
// Records are written in place while reserved capacity remains. When a batch
// does not fit, the buffer reallocates either to exactly the required length
// (ExactFit, the default) or to at least twice its capacity (Geometric).
// ExactFit keeps memory tight for callers that reserve the final size up
// front, but appending in small steps past the reservation copies the whole
// buffer on every step.
package buffer

// Growth selects how a full buffer reallocates.
type Growth int

const (
	// ExactFit reallocates to exactly len+n records.
	ExactFit Growth = iota
	// Geometric reallocates to max(len+n, 2*cap) records.
	Geometric
)

// Buffer is a growable sequence of records.
// It is not safe for concurrent use.
type Buffer[E any] struct {
	data   []E
	growth Growth
	grows  int
}

// New returns an empty buffer with room for capacity records.
func New[E any](capacity int, growth Growth) *Buffer[E] {
	return &Buffer[E]{
		data:   make([]E, 0, max(0, capacity)),
		growth: growth,
	}
}

// Len returns the number of records.
func (b *Buffer[E]) Len() int { return len(b.data) }

// Cap returns the number of records the buffer holds without reallocating.
func (b *Buffer[E]) Cap() int { return cap(b.data) }

// Grows returns how many times the buffer has reallocated.
func (b *Buffer[E]) Grows() int { return b.grows }

// Reserve ensures room for n more records.
func (b *Buffer[E]) Reserve(n int) {
	need := len(b.data) + n
	if need <= cap(b.data) {
		return
	}

	newCap := need
	if b.growth == Geometric {
		newCap = max(need, 2*cap(b.data))
	}
	grown := make([]E, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
	b.grows++
}

// Extend appends n zero records and returns them for the caller to fill.
// The returned slice is only valid until the next call that may reallocate.
func (b *Buffer[E]) Extend(n int) []E {
	if n <= 0 {
		return nil
	}
	b.Reserve(n)
	start := len(b.data)
	b.data = b.data[:start+n]
	return b.data[start:]
}

// Push appends one record.
func (b *Buffer[E]) Push(e E) {
	b.Extend(1)[0] = e
}

// View returns the populated records. The view aliases the buffer.
func (b *Buffer[E]) View() []E { return b.data }

// Freeze returns a copy of the populated records with no spare capacity.
func (b *Buffer[E]) Freeze() []E {
	out := make([]E, len(b.data))
	copy(out, b.data)
	return out
}
