// Package layout defines the packed little-endian record layouts of binary
// BK and QPBO files.
//
// Record widths for a capacity width w:
//
//	terminal arc   8 + 2w   node, source cap, sink cap
//	neighbor arc  16 + 2w   from, to, cap, rev cap
//	unary term     8 + 2w   node, e0, e1
//	binary term   16 + 4w   i, j, e00, e01, e10, e11
//
// When the host is little-endian and the Go struct of a record has no padding
// (for example int32 capacities), record slices are viewed as bytes without
// copying. Otherwise records are encoded field by field.
package layout

import (
	"errors"
	"fmt"
	"io"
	"unsafe"

	"github.com/hupe1980/bkio/captype"
)

// ErrMalformed is returned when a payload length is not a whole number of records.
var ErrMalformed = errors.New("malformed payload")

const idSize = 8

// chunkBytes bounds the scratch buffer used for non-native encoding.
const chunkBytes = 256 * 1024

// TerminalArcSize returns the record width of a terminal arc with capacity type c.
func TerminalArcSize(c captype.Code) int { return recordSize(c, 1, 2) }

// NeighborArcSize returns the record width of a neighbor arc with capacity type c.
func NeighborArcSize(c captype.Code) int { return recordSize(c, 2, 2) }

// UnaryTermSize returns the record width of a unary term with energy type c.
func UnaryTermSize(c captype.Code) int { return recordSize(c, 1, 2) }

// BinaryTermSize returns the record width of a binary term with energy type c.
func BinaryTermSize(c captype.Code) int { return recordSize(c, 2, 4) }

func recordSize(c captype.Code, ids, values int) int {
	if !c.Valid() {
		return 0
	}
	return ids*idSize + values*c.Size()
}

// Layout encodes and decodes records of type R.
// The zero value is not usable; use the record constructors.
type Layout[R any] struct {
	size   int
	native bool
	put    func(dst []byte, r *R)
	get    func(src []byte, r *R)
}

func newLayout[R any](size int, put func([]byte, *R), get func([]byte, *R)) Layout[R] {
	var zero R
	return Layout[R]{
		size:   size,
		native: littleEndian && int(unsafe.Sizeof(zero)) == size,
		put:    put,
		get:    get,
	}
}

// Size returns the record width in bytes.
func (l Layout[R]) Size() int { return l.size }

// Native reports whether records can be viewed as bytes without encoding.
func (l Layout[R]) Native() bool { return l.native }

// View returns the bytes backing recs when the layout is native.
// The view aliases recs.
func (l Layout[R]) View(recs []R) ([]byte, bool) {
	if !l.native {
		return nil, false
	}
	if len(recs) == 0 {
		return []byte{}, true
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(recs))), len(recs)*l.size), true //nolint:gosec // layout verified in newLayout
}

// Encode writes recs into dst, which must hold len(recs)*Size() bytes.
func (l Layout[R]) Encode(dst []byte, recs []R) {
	for i := range recs {
		l.put(dst[i*l.size:], &recs[i])
	}
}

// Bytes returns the encoded form of recs. For native layouts the result
// aliases recs.
func (l Layout[R]) Bytes(recs []R) []byte {
	if b, ok := l.View(recs); ok {
		return b
	}
	b := make([]byte, len(recs)*l.size)
	l.Encode(b, recs)
	return b
}

// Count returns the number of records in n payload bytes.
func (l Layout[R]) Count(n int) (int, error) {
	if n%l.size != 0 {
		return 0, fmt.Errorf("%w: %d bytes is not a multiple of record size %d", ErrMalformed, n, l.size)
	}
	return n / l.size, nil
}

// DecodeInto decodes len(dst) records from src.
func (l Layout[R]) DecodeInto(dst []R, src []byte) {
	if view, ok := l.View(dst); ok {
		copy(view, src)
		return
	}
	for i := range dst {
		l.get(src[i*l.size:], &dst[i])
	}
}

// Decode decodes all records in src.
func (l Layout[R]) Decode(src []byte) ([]R, error) {
	n, err := l.Count(len(src))
	if err != nil {
		return nil, err
	}
	out := make([]R, n)
	l.DecodeInto(out, src)
	return out, nil
}

// ChunkRecords returns how many records fit in one scratch chunk.
func (l Layout[R]) ChunkRecords() int {
	return max(1, chunkBytes/l.size)
}

// WriteTo writes the encoded records to w.
func (l Layout[R]) WriteTo(w io.Writer, recs []R) (int64, error) {
	if view, ok := l.View(recs); ok {
		n, err := w.Write(view)
		return int64(n), err
	}

	per := l.ChunkRecords()
	buf := make([]byte, min(per, len(recs))*l.size)
	var written int64
	for start := 0; start < len(recs); start += per {
		end := min(start+per, len(recs))
		chunk := buf[:(end-start)*l.size]
		l.Encode(chunk, recs[start:end])
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
