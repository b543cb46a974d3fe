package blockcodec

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := map[string][]byte{
		"empty":      {},
		"short":      []byte("abc"),
		"repetitive": bytes.Repeat([]byte("0123456789"), 10_000),
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			block, err := Encode(nil, src)
			require.NoError(t, err)

			n, err := DecodedLen(block)
			require.NoError(t, err)
			assert.Equal(t, len(src), n)

			got, err := Decode(block)
			require.NoError(t, err)
			assert.Equal(t, src, got)
		})
	}
}

func TestBlocksAreSnappyCompatible(t *testing.T) {
	src := bytes.Repeat([]byte("graph"), 4096)
	block, err := Encode(nil, src)
	require.NoError(t, err)
	assert.Less(t, len(block), len(src))

	got, err := snappy.Decode(nil, block)
	require.NoError(t, err)
	assert.Equal(t, src, got)

	// And the other way round.
	fromSnappy := snappy.Encode(nil, src)
	back, err := Decode(fromSnappy)
	require.NoError(t, err)
	assert.Equal(t, src, back)
}

func TestDecodeIntoExactLength(t *testing.T) {
	src := []byte("exactly-sized")
	block, err := Encode(nil, src)
	require.NoError(t, err)

	dst := make([]byte, len(src))
	require.NoError(t, DecodeInto(dst, block))
	assert.Equal(t, src, dst)

	err = DecodeInto(make([]byte, len(src)+1), block)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := Decode([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	assert.ErrorIs(t, err, ErrCorrupt)

	block, err := Encode(nil, bytes.Repeat([]byte("x"), 1000))
	require.NoError(t, err)
	_, err = Decode(block[:len(block)-1])
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestEncodeTooLarge(t *testing.T) {
	t.Cleanup(SetMaxBlockSize(16))

	_, err := Encode(nil, make([]byte, 17))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Encode(nil, make([]byte, 16))
	assert.NoError(t, err)
}

func TestSetMaxBlockSize(t *testing.T) {
	restore := SetMaxBlockSize(4)
	_, err := Encode(nil, make([]byte, 5))
	assert.ErrorIs(t, err, ErrTooLarge)
	restore()
	assert.Equal(t, int64(MaxBlockSize), maxBlockSize)
}
