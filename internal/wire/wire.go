// Package wire provides bounds-checked little-endian byte sources.
//
// A Source is either a SliceReader over bytes already in memory (a mapped
// file or a test buffer) or a StreamReader over an io.Reader. Decoders are
// written once against Source and work on both.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrShortRead is returned when a source ends before the requested bytes.
var ErrShortRead = errors.New("short read")

// growThreshold is the request size above which a stream of unknown length
// is read incrementally.
const growThreshold = 1 << 20

// Source is a sequential byte source.
type Source interface {
	// ReadBytes returns the next n bytes. The result may alias internal
	// storage and is only valid until the next call.
	ReadBytes(n int) ([]byte, error)
	// ReadFull fills p with the next len(p) bytes.
	ReadFull(p []byte) error
	// Remaining returns the number of unread bytes, or -1 if unknown.
	Remaining() int64
}

// ReadUint8 reads one byte.
func ReadUint8(s Source) (uint8, error) {
	b, err := s.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a little-endian uint16.
func ReadUint16(s Source) (uint16, error) {
	b, err := s.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint64 reads a little-endian uint64.
func ReadUint64(s Source) (uint64, error) {
	b, err := s.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// SliceReader provides bounds-checked reads from a byte slice.
// Returned slices alias the underlying bytes.
type SliceReader struct {
	b   []byte
	off int
}

// NewSliceReader returns a reader positioned at the start of b.
func NewSliceReader(b []byte) *SliceReader {
	return &SliceReader{b: b}
}

// Offset returns the number of bytes consumed.
func (r *SliceReader) Offset() int {
	if r == nil {
		return 0
	}
	return r.off
}

func (r *SliceReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > len(r.b)-r.off {
		return nil, fmt.Errorf("%w: %d bytes at %d, len=%d", ErrShortRead, n, r.off, len(r.b))
	}
	out := r.b[r.off : r.off+n : r.off+n]
	r.off += n
	return out, nil
}

func (r *SliceReader) ReadFull(p []byte) error {
	b, err := r.ReadBytes(len(p))
	if err != nil {
		return err
	}
	copy(p, b)
	return nil
}

func (r *SliceReader) Remaining() int64 {
	return int64(len(r.b) - r.off)
}

// StreamReader adapts an io.Reader to Source.
type StreamReader struct {
	r       io.Reader
	scratch []byte
	remain  int64
	read    int64
}

// NewStreamReader wraps r. size is the total stream length if known, or -1.
func NewStreamReader(r io.Reader, size int64) *StreamReader {
	return &StreamReader{r: r, remain: size}
}

// Offset returns the number of bytes consumed.
func (s *StreamReader) Offset() int64 { return s.read }

func (s *StreamReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrShortRead, n)
	}
	if s.remain >= 0 && int64(n) > s.remain {
		return nil, fmt.Errorf("%w: %d bytes requested, %d remaining", ErrShortRead, n, s.remain)
	}
	if s.remain < 0 && n > growThreshold {
		return s.readGrowing(n)
	}
	if cap(s.scratch) < n {
		s.scratch = make([]byte, n)
	}
	b := s.scratch[:n]
	if err := s.ReadFull(b); err != nil {
		return nil, err
	}
	return b, nil
}

// readGrowing reads n bytes of unknown availability into a buffer that grows
// with the data actually read, so a bogus length on a short stream fails
// without allocating n bytes up front.
func (s *StreamReader) readGrowing(n int) ([]byte, error) {
	var buf bytes.Buffer
	m, err := buf.ReadFrom(io.LimitReader(s.r, int64(n)))
	s.read += m
	if err != nil {
		return nil, err
	}
	if m < int64(n) {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, m, n)
	}
	return buf.Bytes(), nil
}

func (s *StreamReader) ReadFull(p []byte) error {
	if s.remain >= 0 && int64(len(p)) > s.remain {
		return fmt.Errorf("%w: %d bytes requested, %d remaining", ErrShortRead, len(p), s.remain)
	}
	n, err := io.ReadFull(s.r, p)
	s.read += int64(n)
	if s.remain >= 0 {
		s.remain -= int64(n)
	}
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, n, len(p))
		}
		return err
	}
	return nil
}

func (s *StreamReader) Remaining() int64 { return s.remain }
