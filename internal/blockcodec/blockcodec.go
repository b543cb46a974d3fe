// Package blockcodec compresses file sections as single Snappy blocks.
//
// Blocks are produced with the Snappy-compatible encoder of
// github.com/klauspost/compress/s2, so files interoperate with any Snappy
// implementation. A Snappy block holds at most 4 GiB - 1 of input.
package blockcodec

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/s2"
)

var (
	// ErrTooLarge is returned when a section exceeds the block size limit.
	ErrTooLarge = errors.New("block too large")
	// ErrCorrupt is returned when a block fails to decode.
	ErrCorrupt = errors.New("corrupt block")
)

// MaxBlockSize is the largest input accepted by Encode.
const MaxBlockSize = 1<<32 - 1

// maxBlockSize is a variable so tests can exercise the limit without
// allocating gigabytes.
var maxBlockSize int64 = MaxBlockSize

// SetMaxBlockSize lowers the block limit and returns a func restoring it.
// It exists for tests.
func SetMaxBlockSize(n int64) (restore func()) {
	old := maxBlockSize
	maxBlockSize = n
	return func() { maxBlockSize = old }
}

// Encode compresses src into a Snappy block, reusing dst when large enough.
func Encode(dst, src []byte) ([]byte, error) {
	if int64(len(src)) > maxBlockSize || s2.MaxEncodedLen(len(src)) < 0 {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, len(src), maxBlockSize)
	}
	return s2.EncodeSnappy(dst, src), nil
}

// DecodedLen returns the uncompressed length stored in a block.
func DecodedLen(block []byte) (int, error) {
	n, err := s2.DecodedLen(block)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return n, nil
}

// DecodeInto decompresses block into dst. The block must decode to exactly
// len(dst) bytes.
func DecodeInto(dst, block []byte) error {
	n, err := DecodedLen(block)
	if err != nil {
		return err
	}
	if n != len(dst) {
		return fmt.Errorf("%w: decoded length %d, expected %d", ErrCorrupt, n, len(dst))
	}
	if n == 0 {
		return nil
	}
	out, err := s2.Decode(dst, block)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if len(out) != len(dst) {
		return fmt.Errorf("%w: decoded length %d, expected %d", ErrCorrupt, len(out), len(dst))
	}
	if &out[0] != &dst[0] {
		copy(dst, out)
	}
	return nil
}

// Decode decompresses block into a new slice.
func Decode(block []byte) ([]byte, error) {
	n, err := DecodedLen(block)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, n)
	if err := DecodeInto(dst, block); err != nil {
		return nil, err
	}
	return dst, nil
}
