package layout

import (
	"encoding/binary"
	"math"

	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/model"
)

// value encodes a single capacity value in little-endian order.
type value[T captype.Capacity] struct {
	size int
	put  func([]byte, T)
	get  func([]byte) T
}

func valueOf[T captype.Capacity]() value[T] {
	var zero T
	var put, get any
	switch any(zero).(type) {
	case uint8:
		put = func(b []byte, v uint8) { b[0] = v }
		get = func(b []byte) uint8 { return b[0] }
	case int8:
		put = func(b []byte, v int8) { b[0] = byte(v) }
		get = func(b []byte) int8 { return int8(b[0]) }
	case uint16:
		put = func(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
		get = func(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
	case int16:
		put = func(b []byte, v int16) { binary.LittleEndian.PutUint16(b, uint16(v)) }
		get = func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }
	case uint32:
		put = func(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
		get = func(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
	case int32:
		put = func(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) }
		get = func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) }
	case uint64:
		put = func(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }
		get = func(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
	case int64:
		put = func(b []byte, v int64) { binary.LittleEndian.PutUint64(b, uint64(v)) }
		get = func(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) }
	case float32:
		put = func(b []byte, v float32) { binary.LittleEndian.PutUint32(b, math.Float32bits(v)) }
		get = func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }
	case float64:
		put = func(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) }
		get = func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }
	}
	return value[T]{
		size: captype.CodeOf[T]().Size(),
		put:  put.(func([]byte, T)),
		get:  get.(func([]byte) T),
	}
}

// TerminalArc returns the layout of terminal arcs with capacity type T.
func TerminalArc[T captype.Capacity]() Layout[model.TerminalArc[T]] {
	v := valueOf[T]()
	w := v.size
	return newLayout(idSize+2*w,
		func(b []byte, r *model.TerminalArc[T]) {
			binary.LittleEndian.PutUint64(b, r.Node)
			v.put(b[idSize:], r.SourceCap)
			v.put(b[idSize+w:], r.SinkCap)
		},
		func(b []byte, r *model.TerminalArc[T]) {
			r.Node = binary.LittleEndian.Uint64(b)
			r.SourceCap = v.get(b[idSize:])
			r.SinkCap = v.get(b[idSize+w:])
		},
	)
}

// NeighborArc returns the layout of neighbor arcs with capacity type C.
func NeighborArc[C captype.Capacity]() Layout[model.NeighborArc[C]] {
	v := valueOf[C]()
	w := v.size
	return newLayout(2*idSize+2*w,
		func(b []byte, r *model.NeighborArc[C]) {
			binary.LittleEndian.PutUint64(b, r.From)
			binary.LittleEndian.PutUint64(b[idSize:], r.To)
			v.put(b[2*idSize:], r.Cap)
			v.put(b[2*idSize+w:], r.RevCap)
		},
		func(b []byte, r *model.NeighborArc[C]) {
			r.From = binary.LittleEndian.Uint64(b)
			r.To = binary.LittleEndian.Uint64(b[idSize:])
			r.Cap = v.get(b[2*idSize:])
			r.RevCap = v.get(b[2*idSize+w:])
		},
	)
}

// UnaryTerm returns the layout of unary terms with energy type T.
func UnaryTerm[T captype.Capacity]() Layout[model.UnaryTerm[T]] {
	v := valueOf[T]()
	w := v.size
	return newLayout(idSize+2*w,
		func(b []byte, r *model.UnaryTerm[T]) {
			binary.LittleEndian.PutUint64(b, r.Node)
			v.put(b[idSize:], r.E0)
			v.put(b[idSize+w:], r.E1)
		},
		func(b []byte, r *model.UnaryTerm[T]) {
			r.Node = binary.LittleEndian.Uint64(b)
			r.E0 = v.get(b[idSize:])
			r.E1 = v.get(b[idSize+w:])
		},
	)
}

// BinaryTerm returns the layout of binary terms with energy type T.
func BinaryTerm[T captype.Capacity]() Layout[model.BinaryTerm[T]] {
	v := valueOf[T]()
	w := v.size
	return newLayout(2*idSize+4*w,
		func(b []byte, r *model.BinaryTerm[T]) {
			binary.LittleEndian.PutUint64(b, r.I)
			binary.LittleEndian.PutUint64(b[idSize:], r.J)
			v.put(b[2*idSize:], r.E00)
			v.put(b[2*idSize+w:], r.E01)
			v.put(b[2*idSize+2*w:], r.E10)
			v.put(b[2*idSize+3*w:], r.E11)
		},
		func(b []byte, r *model.BinaryTerm[T]) {
			r.I = binary.LittleEndian.Uint64(b)
			r.J = binary.LittleEndian.Uint64(b[idSize:])
			r.E00 = v.get(b[2*idSize:])
			r.E01 = v.get(b[2*idSize+w:])
			r.E10 = v.get(b[2*idSize+2*w:])
			r.E11 = v.get(b[2*idSize+3*w:])
		},
	)
}
