// Package captype maps the ten capacity value types of binary BK and QPBO
// files to the 1-byte type codes stored in their headers.
//
// The set of value types is closed. Go code names it through the Capacity
// constraint, and the on-wire discriminant is the Code.
package captype

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTypeCode is returned when a type code is outside 0-9.
	ErrInvalidTypeCode = errors.New("invalid type code")
	// ErrUnsupportedType is returned when a value type is not one of the ten capacity types.
	ErrUnsupportedType = errors.New("unsupported capacity type")
)

// Capacity is the closed set of capacity and energy value types.
type Capacity interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64 | float32 | float64
}

// Code is the 1-byte type code of a capacity value type.
type Code uint8

// Type codes in wire order.
const (
	Uint8 Code = iota
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Uint64
	Int64
	Float32
	Float64

	// Invalid marks an unknown type. It is never written to a file.
	Invalid Code = 0xFF
)

// NumCodes is the number of valid type codes.
const NumCodes = 10

var names = [NumCodes]string{
	"uint8", "int8", "uint16", "int16", "uint32", "int32", "uint64", "int64", "float32", "float64",
}

var sizes = [NumCodes]int{1, 1, 2, 2, 4, 4, 8, 8, 4, 8}

// CodeOf returns the type code of T.
func CodeOf[T Capacity]() Code {
	var zero T
	c, _ := Of(zero)
	return c
}

// Of returns the type code for the dynamic type of v.
func Of(v any) (Code, error) {
	switch v.(type) {
	case uint8:
		return Uint8, nil
	case int8:
		return Int8, nil
	case uint16:
		return Uint16, nil
	case int16:
		return Int16, nil
	case uint32:
		return Uint32, nil
	case int32:
		return Int32, nil
	case uint64:
		return Uint64, nil
	case int64:
		return Int64, nil
	case float32:
		return Float32, nil
	case float64:
		return Float64, nil
	default:
		return Invalid, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// Decode validates a type code read from a file.
func Decode(b byte) (Code, error) {
	c := Code(b)
	if !c.Valid() {
		return Invalid, fmt.Errorf("%w: %d", ErrInvalidTypeCode, b)
	}
	return c, nil
}

// Parse returns the code for a canonical type name such as "int32".
func Parse(name string) (Code, error) {
	for i, n := range names {
		if n == name {
			return Code(i), nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

// Valid reports whether c is one of the ten type codes.
func (c Code) Valid() bool { return c < NumCodes }

// Size returns the width in bytes of a value of type c, or 0 if c is invalid.
func (c Code) Size() int {
	if !c.Valid() {
		return 0
	}
	return sizes[c]
}

// IsFloat reports whether c is a floating-point type.
func (c Code) IsFloat() bool { return c == Float32 || c == Float64 }

// IsSigned reports whether c can hold negative values.
func (c Code) IsSigned() bool {
	switch c {
	case Int8, Int16, Int32, Int64, Float32, Float64:
		return true
	default:
		return false
	}
}

// String returns the canonical type name.
func (c Code) String() string {
	if !c.Valid() {
		return fmt.Sprintf("invalid(%d)", uint8(c))
	}
	return names[c]
}
