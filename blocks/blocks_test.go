package blocks

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bkio/internal/fs"
)

func TestReadWrite(t *testing.T) {
	p := Partition{NumBlocks: 3, NodeBlocks: []uint16{0, 0, 1, 2, 2, 2, 1}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))
	assert.Equal(t, []byte{
		7, 0, 0, 0, 0, 0, 0, 0,
		3, 0,
		0, 0, 0, 0, 1, 0, 2, 0, 2, 0, 2, 0, 1, 0,
	}, buf.Bytes())

	back, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, p, back)
	assert.Equal(t, 7, back.NumNodes())
}

func TestRead_Malformed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Partition{NumBlocks: 1, NodeBlocks: []uint16{0, 0, 0}}))
	full := buf.Bytes()

	for _, n := range []int{0, 5, HeaderSize - 1, HeaderSize, len(full) - 1} {
		_, err := Read(bytes.NewReader(full[:n]))
		assert.ErrorIs(t, err, ErrMalformed, "length %d", n)
	}

	huge := append([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f, 1, 0}, 0, 0)
	_, err := Read(bytes.NewReader(huge))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.blk")
	p := Partition{NumBlocks: 2, NodeBlocks: []uint16{1, 1, 0, 0, 1}}
	require.NoError(t, WriteFile(path, p))

	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, p, back)

	require.NoError(t, os.Truncate(path, HeaderSize+3))
	_, err = ReadFile(path)
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), path)
}

func TestWriteFile_FailureLeavesNoTarget(t *testing.T) {
	dir := t.TempDir()
	faulty := fs.NewFaultyFS(nil)
	faulty.AddRule("g.blk", fs.Fault{FailAfterBytes: -1, FailOnSync: true})

	err := writeFile(faulty, filepath.Join(dir, "g.blk"), Partition{NumBlocks: 1, NodeBlocks: []uint16{0}})
	require.ErrorIs(t, err, fs.ErrInjected)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Partition{NumBlocks: 12, NodeBlocks: []uint16{0, 11, 3}}))
	assert.Equal(t, "12\n0 11 3 \n", buf.String())
}

func TestSplitIntervals(t *testing.T) {
	tests := []struct {
		name   string
		blocks []uint16
		want   []Interval
	}{
		{"empty", nil, nil},
		{"single", []uint16{4}, []Interval{{1, 4}}},
		{"runs", []uint16{0, 0, 1, 1, 1, 0, 2}, []Interval{{2, 0}, {3, 1}, {1, 0}, {1, 2}}},
		{"leading nonzero", []uint16{5, 5, 0}, []Interval{{2, 5}, {1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitIntervals(tt.blocks)
			assert.Equal(t, tt.want, got)
			if len(tt.blocks) > 0 {
				assert.Equal(t, tt.blocks, Expand(got))
			}
		})
	}
}

func TestGridIntervals(t *testing.T) {
	got, maxBlock, err := GridIntervals(3, 2, 1, 2, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []Interval{{2, 0}, {1, 1}, {2, 2}, {1, 3}}, got)
	assert.Equal(t, uint16(3), maxBlock)

	got, maxBlock, err = GridIntervals(256, 256, 119, 256, 256, 8)
	require.NoError(t, err)
	assert.Len(t, got, 15)
	assert.Equal(t, uint16(14), maxBlock)
	assert.Equal(t, Interval{Length: 256 * 256 * 8, Block: 0}, got[0])
	assert.Equal(t, Interval{Length: 256 * 256 * 7, Block: 14}, got[14])
}

func TestGridIntervals_MatchesPerNodeBlocks(t *testing.T) {
	dims := [][6]uint64{
		{5, 4, 3, 2, 2, 2},
		{7, 3, 5, 3, 1, 4},
		{4, 4, 4, 4, 4, 4},
		{6, 1, 2, 1, 1, 1},
	}
	for _, d := range dims {
		h, w, depth, bh, bw, bd := d[0], d[1], d[2], d[3], d[4], d[5]
		nh, nw := ceilDiv(h, bh), ceilDiv(w, bw)

		var want []uint16
		for k := range depth {
			for j := range w {
				for i := range h {
					want = append(want, uint16(i/bh+(j/bw)*nh+(k/bd)*nh*nw))
				}
			}
		}

		got, maxBlock, err := GridIntervals(h, w, depth, bh, bw, bd)
		require.NoError(t, err)
		assert.Equal(t, want, Expand(got), "dims %v", d)
		assert.Equal(t, SplitIntervals(want), got, "dims %v", d)
		assert.Equal(t, uint16(nh*nw*ceilDiv(depth, bd)-1), maxBlock, "dims %v", d)
	}
}

func TestGridIntervals_Invalid(t *testing.T) {
	_, _, err := GridIntervals(4, 4, 4, 0, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidGrid)

	_, _, err = GridIntervals(1<<10, 1<<10, 1, 1, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidGrid)
}
