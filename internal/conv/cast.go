package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d cannot be converted to int (too large)", ErrOverflow, v)
	}
	return int(v), nil
}

// Uint64ToUint16 converts uint64 to uint16 safely.
func Uint64ToUint16(v uint64) (uint16, error) {
	if v > math.MaxUint16 {
		return 0, fmt.Errorf("%w: %d cannot be converted to uint16 (too large)", ErrOverflow, v)
	}
	return uint16(v), nil
}

// ByteLen returns count*size as an int, failing if the product does not fit.
// count typically comes from an untrusted file header.
func ByteLen(count uint64, size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: invalid record size %d", ErrOverflow, size)
	}
	n, err := Uint64ToInt(count)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt/size {
		return 0, fmt.Errorf("%w: %d records of %d bytes", ErrOverflow, count, size)
	}
	return n * size, nil
}
