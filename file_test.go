package bkio

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bkio/internal/fs"
	"github.com/hupe1980/bkio/testutil"
)

func TestGraphFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := testutil.RandomGraph[int32, uint8](testutil.NewRNG(21), 100, 60, 300)

	for _, compress := range []bool{false, true} {
		for _, mapped := range []bool{false, true} {
			path := filepath.Join(dir, "g.bbk")
			require.NoError(t, WriteGraphFile(path, g, WithCompression(compress)))

			got, err := ReadGraphFile[int32, uint8](path, WithMmap(mapped))
			require.NoError(t, err)
			assert.Equal(t, g, got)

			h, err := ReadGraphHeaderFile(path)
			require.NoError(t, err)
			assert.Equal(t, compress, h.Compressed)

			nodes, arcs, err := GraphSizes(path)
			require.NoError(t, err)
			assert.Equal(t, uint64(102), nodes)
			assert.Equal(t, uint64(360), arcs)
		}
	}
}

func TestQpboFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.bq")
	q := testutil.RandomQpbo[float32](testutil.NewRNG(22), 50, 30, 70)

	require.NoError(t, WriteQpboFile(path, q, WithCompression(true)))
	got, err := ReadQpboFile[float32](path, WithMmap(true))
	require.NoError(t, err)
	assert.Equal(t, q, got)

	nodes, arcs, err := QpboSizes(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(102), nodes)
	assert.Equal(t, uint64(200), arcs)

	h, err := ReadQpboHeaderFile(path)
	require.NoError(t, err)
	assert.Equal(t, QpboHeaderOf(q, true), h)
}

func TestReadFileErrorsIncludePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bbk")
	require.NoError(t, os.WriteFile(path, []byte("not a graph file at all, no sir"), 0o644))

	_, err := ReadGraphFile[int32, int32](path)
	assert.ErrorIs(t, err, ErrInvalidHeader)
	assert.Contains(t, err.Error(), path)

	_, _, err = GraphSizes(path)
	assert.ErrorIs(t, err, ErrInvalidHeader)

	_, err = ReadGraphFile[int32, int32](filepath.Join(t.TempDir(), "missing.bbk"), WithMmap(true))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileFaultLeavesNoTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bbk")
	g := testutil.RandomGraph[int64, int64](testutil.NewRNG(23), 1000, 5000, 20000)

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("out.bbk", fs.Fault{FailAfterBytes: 1024})

	err := WriteGraphFile(path, g, withFileSystem(ffs))
	assert.ErrorIs(t, err, fs.ErrInjected)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecompress(t *testing.T) {
	dir := t.TempDir()
	rng := testutil.NewRNG(24)
	g := testutil.RandomGraph[uint32, int16](rng, 80, 40, 200)
	q := testutil.RandomQpbo[int32](rng, 40, 20, 60)

	plainG := filepath.Join(dir, "g.bbk")
	plainQ := filepath.Join(dir, "q.bq")
	require.NoError(t, WriteGraphFile(plainG, g))
	require.NoError(t, WriteQpboFile(plainQ, q))

	for _, path := range []string{plainG, plainQ} {
		packed := path + ".z"
		back := path + ".back"

		kind, err := Recompress(path, packed, true)
		require.NoError(t, err)
		assert.NotEqual(t, KindUnknown, kind)

		_, err = Recompress(packed, back, false, WithMmap(true))
		require.NoError(t, err)

		want, err := os.ReadFile(path)
		require.NoError(t, err)
		got, err := os.ReadFile(back)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := ReadGraphFile[uint32, int16](plainG + ".z")
	require.NoError(t, err)
	assert.Equal(t, g, got)

	junk := filepath.Join(dir, "junk")
	require.NoError(t, os.WriteFile(junk, []byte("hello"), 0o644))
	kind, err := Recompress(junk, junk+".out", true)
	assert.Equal(t, KindUnknown, kind)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestDetectKind(t *testing.T) {
	dir := t.TempDir()
	g := filepath.Join(dir, "g.bbk")
	q := filepath.Join(dir, "q.bq")
	short := filepath.Join(dir, "short")
	require.NoError(t, WriteGraphFile(g, smallGraph(), WithCompression(true)))
	require.NoError(t, WriteQpboFile(q, testutil.RandomQpbo[int8](testutil.NewRNG(1), 2, 1, 1)))
	require.NoError(t, os.WriteFile(short, []byte("bb"), 0o644))

	for path, want := range map[string]Kind{g: KindGraph, q: KindQpbo, short: KindUnknown} {
		got, err := DetectKind(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
	assert.Equal(t, "graph", KindGraph.String())
}

func TestFileLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, slog.LevelDebug)
	path := filepath.Join(t.TempDir(), "logged.bbk")

	require.NoError(t, WriteGraphFile(path, smallGraph(), WithLogger(logger)))
	_, err := ReadGraphFile[int32, int32](path, WithLogger(logger))
	require.NoError(t, err)
	_, err = ReadGraphFile[int8, int8](path, WithLogger(logger))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"write completed"`)
	assert.Contains(t, out, `"msg":"read completed"`)
	assert.Contains(t, out, `"msg":"read failed"`)
	assert.Contains(t, out, `"kind":"graph"`)
}

func TestDescriptor(t *testing.T) {
	d := Describe("/data/grid.bbk")
	assert.Equal(t, BenchmarkDescriptor{
		FileName:    "/data/grid.bbk",
		FileType:    "bbk",
		NborCapType: "int32",
		TermCapType: "int32",
	}, d)
	assert.Equal(t, "noext", Describe("noext").FileType)

	assert.True(t, IsBenchmarkFile("a/b.bq"))
	assert.True(t, IsBenchmarkFile("a/b.bbk"))
	assert.False(t, IsBenchmarkFile("a/b.bk"))
	assert.False(t, IsBenchmarkFile("a/b.bq.zst"))

	path := filepath.Join(t.TempDir(), "typed.bbk")
	require.NoError(t, WriteGraphFile(path, testutil.RandomGraph[uint16, float64](testutil.NewRNG(2), 3, 1, 1)))
	fd, err := DescribeFile(path)
	require.NoError(t, err)
	assert.Equal(t, "uint16", fd.NborCapType)
	assert.Equal(t, "float64", fd.TermCapType)
}

func TestReadFileMmapUsesFileSystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapped.bbk")
	require.NoError(t, WriteGraphFile(path, smallGraph()))

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, slog.LevelDebug)
	_, err := ReadGraphFile[int32, int32](path, WithMmap(true), WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"mmap":true`)

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("mapped.bbk", fs.Fault{FailAfterBytes: -1, FailOnRead: true})
	_, err = ReadGraphFile[int32, int32](path, WithMmap(true), withFileSystem(ffs))
	assert.ErrorIs(t, err, fs.ErrInjected)
	_, err = ReadGraphRawFile(path, WithMmap(true), withFileSystem(ffs))
	assert.ErrorIs(t, err, fs.ErrInjected)

	buf.Reset()
	got, err := ReadGraphFile[int32, int32](path, WithMmap(true), withFileSystem(fs.NewFaultyFS(nil)), WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, smallGraph(), got)
	assert.Contains(t, buf.String(), `"msg":"mmap unavailable, using buffered read"`)
	assert.Contains(t, buf.String(), `"mmap":false`)
}

func TestReadFileTrailingBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tail.bbk")
	data := append(encodeGraph(t, smallGraph(), false), 0, 0, 0, 0)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	for _, mapped := range []bool{false, true} {
		_, err := ReadGraphFile[int32, int32](path, WithMmap(mapped))
		assert.ErrorIs(t, err, ErrMalformedPayload, "mmap=%v", mapped)
		_, err = ReadGraphRawFile(path, WithMmap(mapped))
		assert.ErrorIs(t, err, ErrMalformedPayload, "mmap=%v", mapped)
	}

	_, err := ReadGraphHeaderFile(path)
	assert.NoError(t, err)
}
