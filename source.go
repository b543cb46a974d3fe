package bkio

import (
	"io"

	"github.com/hupe1980/bkio/internal/wire"
)

// newSource wraps r, using the bytes left in r as a bound when r can report
// them. A Size is only trusted together with the current Seek offset.
func newSource(r io.Reader) wire.Source {
	return wire.NewStreamReader(r, remainingLen(r))
}

// remainingLen returns the number of unread bytes in r, or -1 if unknown.
func remainingLen(r io.Reader) int64 {
	switch v := r.(type) {
	case interface{ Len() int }:
		return int64(v.Len())
	case interface {
		Size() int64
		io.Seeker
	}:
		off, err := v.Seek(0, io.SeekCurrent)
		if err != nil || off > v.Size() {
			return -1
		}
		return v.Size() - off
	}
	return -1
}
