// Package blocks reads and writes .blk node partition files.
//
// A .blk file assigns every node of a graph to a block:
//
//	num_nodes   uint64
//	num_blocks  uint16
//	node_blocks num_nodes x uint16
//
// All integers are little-endian.
package blocks

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/bkio/internal/conv"
	"github.com/hupe1980/bkio/internal/fs"
	"github.com/hupe1980/bkio/internal/wire"
)

// Ext is the file extension of block files, without the dot.
const Ext = "blk"

// HeaderSize is the size of the fixed .blk header.
const HeaderSize = 8 + 2

// ErrMalformed is returned for truncated or inconsistent block files.
var ErrMalformed = errors.New("blocks: malformed block file")

// Partition maps every node to a block.
type Partition struct {
	NumBlocks  uint16
	NodeBlocks []uint16
}

// NumNodes returns the number of nodes in the partition.
func (p Partition) NumNodes() int { return len(p.NodeBlocks) }

// Read decodes a partition from r.
func Read(r io.Reader) (Partition, error) {
	return decode(wire.NewStreamReader(r, -1))
}

func decode(src wire.Source) (Partition, error) {
	numNodes, err := wire.ReadUint64(src)
	if err != nil {
		return Partition{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	numBlocks, err := wire.ReadUint16(src)
	if err != nil {
		return Partition{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	n, err := conv.ByteLen(numNodes, 2)
	if err != nil {
		return Partition{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if rem := src.Remaining(); rem >= 0 && int64(n) > rem {
		return Partition{}, fmt.Errorf("%w: %d nodes declared, %d bytes remaining", ErrMalformed, numNodes, rem)
	}

	raw, err := src.ReadBytes(n)
	if err != nil {
		return Partition{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	p := Partition{
		NumBlocks:  numBlocks,
		NodeBlocks: make([]uint16, numNodes),
	}
	for i := range p.NodeBlocks {
		p.NodeBlocks[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return p, nil
}

// Write encodes p to w.
func Write(w io.Writer, p Partition) error {
	buf := make([]byte, HeaderSize, HeaderSize+2*len(p.NodeBlocks))
	binary.LittleEndian.PutUint64(buf, uint64(len(p.NodeBlocks)))
	binary.LittleEndian.PutUint16(buf[8:], p.NumBlocks)
	for _, b := range p.NodeBlocks {
		buf = binary.LittleEndian.AppendUint16(buf, b)
	}
	_, err := w.Write(buf)
	return err
}

// WriteText writes p as text: the block count on the first line and the
// block of every node, space separated, on the second.
func WriteText(w io.Writer, p Partition) error {
	bw := bufio.NewWriter(w)
	var num [8]byte
	bw.Write(strconv.AppendUint(num[:0], uint64(p.NumBlocks), 10))
	bw.WriteByte('\n')
	for _, b := range p.NodeBlocks {
		bw.Write(strconv.AppendUint(num[:0], uint64(b), 10))
		bw.WriteByte(' ')
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// ReadFile reads the block file at path.
func ReadFile(path string) (Partition, error) {
	f, err := fs.Open(fs.Default, path)
	if err != nil {
		return Partition{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Partition{}, err
	}
	p, err := decode(wire.NewStreamReader(bufio.NewReader(f), info.Size()))
	if err != nil {
		return Partition{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// WriteFile writes p to path, replacing it atomically.
func WriteFile(path string, p Partition) error {
	return writeFile(fs.Default, path, p)
}

func writeFile(fsys fs.FileSystem, path string, p Partition) error {
	err := fs.WriteFileAtomic(fsys, path, 0o644, func(w io.Writer) error {
		return Write(w, p)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
