package bkio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/bkio/internal/blockcodec"
	"github.com/hupe1980/bkio/internal/conv"
	"github.com/hupe1980/bkio/internal/layout"
	"github.com/hupe1980/bkio/internal/wire"
)

// writeSection writes records either as packed bytes or as one
// length-prefixed Snappy block.
func writeSection[R any](w io.Writer, l layout.Layout[R], recs []R, compress bool) error {
	if !compress {
		_, err := l.WriteTo(w, recs)
		return err
	}
	return writeBlock(w, l.Bytes(recs))
}

// writeRawSection writes already packed records.
func writeRawSection(w io.Writer, raw []byte, compress bool) error {
	if !compress {
		_, err := w.Write(raw)
		return err
	}
	return writeBlock(w, raw)
}

func writeBlock(w io.Writer, raw []byte) error {
	block, err := blockcodec.Encode(nil, raw)
	if err != nil {
		return translateError(err)
	}
	var prefix [8]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(len(block)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err = w.Write(block)
	return err
}

// sectionLen validates count against the record size and against the bytes
// left in src, so a bogus header fails before any large allocation.
func sectionLen(src wire.Source, count uint64, size int) (int, error) {
	n, err := conv.ByteLen(count, size)
	if err != nil {
		return 0, translateError(err)
	}
	if rem := src.Remaining(); rem >= 0 && int64(n) > rem {
		return 0, fmt.Errorf("%w: %d records of %d bytes declared, %d bytes left", ErrMalformedPayload, count, size, rem)
	}
	return n, nil
}

// checkEnd fails if src still holds bytes after the last section.
// Sources of unknown length are not checked.
func checkEnd(src wire.Source) error {
	if rem := src.Remaining(); rem > 0 {
		return fmt.Errorf("%w: %d trailing bytes after last section", ErrMalformedPayload, rem)
	}
	return nil
}

// readBlock reads one length-prefixed compressed block and checks that it
// decodes to exactly want bytes.
func readBlock(src wire.Source, want int) ([]byte, error) {
	blockLen, err := wire.ReadUint64(src)
	if err != nil {
		return nil, translateError(err)
	}
	n, err := sectionLen(src, blockLen, 1)
	if err != nil {
		return nil, err
	}
	block, err := src.ReadBytes(n)
	if err != nil {
		return nil, translateError(err)
	}
	got, err := blockcodec.DecodedLen(block)
	if err != nil {
		return nil, translateError(err)
	}
	if got != want {
		return nil, fmt.Errorf("%w: block decodes to %d bytes, %d expected", ErrCorruptPayload, got, want)
	}
	return block, nil
}

// readSection decodes count records.
func readSection[R any](src wire.Source, l layout.Layout[R], count uint64, compressed bool) ([]R, error) {
	if compressed {
		byteLen, err := conv.ByteLen(count, l.Size())
		if err != nil {
			return nil, translateError(err)
		}
		block, err := readBlock(src, byteLen)
		if err != nil {
			return nil, err
		}
		out := make([]R, byteLen/l.Size())
		if view, ok := l.View(out); ok {
			if err := blockcodec.DecodeInto(view, block); err != nil {
				return nil, translateError(err)
			}
			return out, nil
		}
		raw := make([]byte, byteLen)
		if err := blockcodec.DecodeInto(raw, block); err != nil {
			return nil, translateError(err)
		}
		l.DecodeInto(out, raw)
		return out, nil
	}

	byteLen, err := sectionLen(src, count, l.Size())
	if err != nil {
		return nil, err
	}
	if src.Remaining() < 0 {
		// Unknown length: read the bytes before allocating records.
		raw, err := src.ReadBytes(byteLen)
		if err != nil {
			return nil, translateError(err)
		}
		out := make([]R, byteLen/l.Size())
		l.DecodeInto(out, raw)
		return out, nil
	}
	out := make([]R, byteLen/l.Size())
	if view, ok := l.View(out); ok {
		if err := src.ReadFull(view); err != nil {
			return nil, translateError(err)
		}
		return out, nil
	}
	per := l.ChunkRecords()
	for start := 0; start < len(out); start += per {
		end := min(start+per, len(out))
		b, err := src.ReadBytes((end - start) * l.Size())
		if err != nil {
			return nil, translateError(err)
		}
		l.DecodeInto(out[start:end], b)
	}
	return out, nil
}

// readRawSection returns count packed records of the given size as an owned
// byte slice, decompressing if needed.
func readRawSection(src wire.Source, count uint64, size int, compressed bool) ([]byte, error) {
	if compressed {
		byteLen, err := conv.ByteLen(count, size)
		if err != nil {
			return nil, translateError(err)
		}
		block, err := readBlock(src, byteLen)
		if err != nil {
			return nil, err
		}
		raw := make([]byte, byteLen)
		if err := blockcodec.DecodeInto(raw, block); err != nil {
			return nil, translateError(err)
		}
		return raw, nil
	}

	byteLen, err := sectionLen(src, count, size)
	if err != nil {
		return nil, err
	}
	if src.Remaining() < 0 {
		b, err := src.ReadBytes(byteLen)
		if err != nil {
			return nil, translateError(err)
		}
		return bytes.Clone(b), nil
	}
	raw := make([]byte, byteLen)
	if err := src.ReadFull(raw); err != nil {
		return nil, translateError(err)
	}
	return raw, nil
}
