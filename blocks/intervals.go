package blocks

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bkio/internal/conv"
)

// ErrInvalidGrid is returned for grid or block dimensions that cannot be
// partitioned.
var ErrInvalidGrid = errors.New("blocks: invalid grid")

// Interval is a run of consecutive nodes in the same block.
type Interval struct {
	Length uint64
	Block  uint16
}

// SplitIntervals splits node blocks into runs of equal block index.
func SplitIntervals(nodeBlocks []uint16) []Interval {
	var out []Interval
	for _, b := range nodeBlocks {
		if n := len(out); n > 0 && out[n-1].Block == b {
			out[n-1].Length++
			continue
		}
		out = append(out, Interval{Length: 1, Block: b})
	}
	return out
}

// Expand is the inverse of SplitIntervals.
func Expand(intervals []Interval) []uint16 {
	var n uint64
	for _, itv := range intervals {
		n += itv.Length
	}
	out := make([]uint16, 0, n)
	for _, itv := range intervals {
		for range itv.Length {
			out = append(out, itv.Block)
		}
	}
	return out
}

// GridIntervals returns the intervals of a gridH x gridW x gridD grid,
// stored with the first dimension fastest, cut into boxes of at most
// blockH x blockW x blockD nodes. Block (bi, bj, bk) has index
// bi + bj*nh + bk*nh*nw where nh and nw are the block counts along the first
// two dimensions. It also returns the largest block index used.
func GridIntervals(gridH, gridW, gridD, blockH, blockW, blockD uint64) ([]Interval, uint16, error) {
	if blockH == 0 || blockW == 0 || blockD == 0 {
		return nil, 0, fmt.Errorf("%w: block size %dx%dx%d", ErrInvalidGrid, blockH, blockW, blockD)
	}
	nh := ceilDiv(gridH, blockH)
	nw := ceilDiv(gridW, blockW)
	nd := ceilDiv(gridD, blockD)
	if nh > 0 && nw > 0 && nd > 0 {
		if _, err := conv.Uint64ToUint16(nh*nw*nd - 1); err != nil {
			return nil, 0, fmt.Errorf("%w: %d blocks: %w", ErrInvalidGrid, nh*nw*nd, err)
		}
	}

	var (
		out      []Interval
		maxBlock uint16
	)
	for k := range gridD {
		for j := range gridW {
			for bi := range nh {
				block := uint16(bi + (j/blockW)*nh + (k/blockD)*nh*nw)
				length := min(gridH, (bi+1)*blockH) - bi*blockH
				if n := len(out); n > 0 && out[n-1].Block == block {
					out[n-1].Length += length
				} else {
					out = append(out, Interval{Length: length, Block: block})
				}
				maxBlock = max(maxBlock, block)
			}
		}
	}
	return out, maxBlock, nil
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}
