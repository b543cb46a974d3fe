package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bkio"
	"github.com/hupe1980/bkio/blocks"
	"github.com/hupe1980/bkio/model"
	"github.com/hupe1980/bkio/stats"
	"github.com/hupe1980/bkio/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func writeGrid(t *testing.T, path string, compress bool) model.Graph[int32, int32] {
	t.Helper()
	g := testutil.GridGraph[int32, int32](3, 3, 4)
	require.NoError(t, bkio.WriteGraphFile(path, g, bkio.WithCompression(compress)))
	return g
}

func writeQpbo(t *testing.T, path string) model.Qpbo[int32] {
	t.Helper()
	q := testutil.RandomQpbo[int32](testutil.NewRNG(1), 5, 3, 4)
	require.NoError(t, bkio.WriteQpboFile(path, q))
	return q
}

func TestSizes(t *testing.T) {
	dir := t.TempDir()
	writeGrid(t, filepath.Join(dir, "a.bbk"), true)
	writeQpbo(t, filepath.Join(dir, "b.bq"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	out, err := run(t, "sizes", dir, "--workers", "2")
	require.NoError(t, err)
	assert.Equal(t, "file_name,num_nodes,num_edges\na.bbk,11,21\nb.bq,12,14\n", out)
}

func TestSizes_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.bbk"), []byte("BBQ"), 0o600))

	_, err := run(t, "sizes", dir)
	require.ErrorIs(t, err, bkio.ErrInvalidHeader)
	assert.Contains(t, err.Error(), "broken.bbk")
}

func TestAssemble(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"x.bbk", "y.bq", "z.blk"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	out, err := run(t, "assemble", filepath.Join(dir, "*"))
	require.NoError(t, err)
	var entries []bkio.BenchmarkDescriptor
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Equal(t, []bkio.BenchmarkDescriptor{
		bkio.Describe(filepath.Join(dir, "x.bbk")),
		bkio.Describe(filepath.Join(dir, "y.bq")),
	}, entries)

	base := filepath.Join(dir, "base.json")
	require.NoError(t, os.WriteFile(base, []byte(`{"name": "bench", "repeats": 3, "data_sets": [1]}`), 0o600))
	out, err = run(t, "assemble", filepath.Join(dir, "*.bq"), "--base-file", base, "--json-codec", "json")
	require.NoError(t, err)

	var doc struct {
		Name     string                     `json:"name"`
		Repeats  int                        `json:"repeats"`
		DataSets []bkio.BenchmarkDescriptor `json:"data_sets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "bench", doc.Name)
	assert.Equal(t, 3, doc.Repeats)
	assert.Equal(t, []bkio.BenchmarkDescriptor{bkio.Describe(filepath.Join(dir, "y.bq"))}, doc.DataSets)
}

func TestAssemble_NoMatches(t *testing.T) {
	out, err := run(t, "assemble", filepath.Join(t.TempDir(), "*"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestHeader(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "g.bbk")
	qpboPath := filepath.Join(dir, "q.bq")
	writeGrid(t, graphPath, false)
	writeQpbo(t, qpboPath)

	out, err := run(t, "header", graphPath, qpboPath)
	require.NoError(t, err)

	var infos []headerInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.Equal(t, []headerInfo{
		{File: graphPath, Kind: "graph", NborCapType: "int32", TermCapType: "int32", NumNodes: 9, NumTermArcs: 9, NumNborArcs: 12},
		{File: qpboPath, Kind: "qpbo", CapType: "int32", NumNodes: 5, NumUnaryTerms: 3, NumBinaryTerms: 4},
	}, infos)

	_, err = run(t, "header", filepath.Join(dir, "missing.bbk"))
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.bbk")
	g := writeGrid(t, path, true)

	out, err := run(t, "stats", "--strict", path)
	require.NoError(t, err)
	var infos []statsInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, stats.Graph(g), infos[0].Summary)

	g.NumNodes = 4
	require.NoError(t, bkio.WriteGraphFile(path, g))
	_, err = run(t, "stats", path)
	require.NoError(t, err)
	_, err = run(t, "stats", "--strict", path)
	assert.ErrorIs(t, err, stats.ErrNodeOutOfRange)
}

func TestCompressDecompress(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "g.bbk")
	writeGrid(t, src, false)
	orig, err := os.ReadFile(src)
	require.NoError(t, err)

	packed := filepath.Join(dir, "g.bbkc")
	out, err := run(t, "compress", src, "-o", packed)
	require.NoError(t, err)
	assert.Contains(t, out, "SUCCESS")
	h, err := bkio.ReadGraphHeaderFile(packed)
	require.NoError(t, err)
	assert.True(t, h.Compressed)

	_, err = run(t, "decompress", packed)
	require.NoError(t, err)
	back, err := os.ReadFile(packed)
	require.NoError(t, err)
	assert.Equal(t, orig, back)
}

func TestRecompress_Qpbo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.bq")
	q := writeQpbo(t, path)

	_, err := run(t, "compress", path)
	require.NoError(t, err)
	back, err := bkio.ReadQpboFile[int32](path)
	require.NoError(t, err)
	assert.Equal(t, q, back)
}

const dimacsText = `c small
p max 5 5
n 1 s
n 5 t
a 1 2 3
a 2 3 2
a 3 4 1
a 4 5 6
a 2 5 1
`

func TestDimacsToBbkAndBack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.max")
	require.NoError(t, os.WriteFile(src, []byte(dimacsText), 0o600))

	out, err := run(t, "dimacs-to-bbk", src)
	require.NoError(t, err)
	assert.Contains(t, out, "SUCCESS: graphs are equal")

	g, err := bkio.ReadGraphFile[int32, int32](src + ".bbk")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), g.NumNodes)
	assert.Len(t, g.TerminalArcs, 3)
	assert.Len(t, g.NeighborArcs, 2)

	zst := filepath.Join(dir, "again.max.zst")
	out, err = run(t, "bbk-to-dimacs", src+".bbk", "-o", zst)
	require.NoError(t, err)
	assert.Contains(t, out, "SUCCESS")

	out, err = run(t, "dimacs-to-bbk", zst, "-o", filepath.Join(dir, "again.bbk"), "--compress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "SUCCESS: graphs are equal")
	h, err := bkio.ReadGraphHeaderFile(filepath.Join(dir, "again.bbk"))
	require.NoError(t, err)
	assert.False(t, h.Compressed)
}

func TestBqConversions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q.bq")
	q := writeQpbo(t, path)

	_, err := run(t, "bq-to-bbk", path)
	require.NoError(t, err)
	g, err := bkio.ReadGraphFile[int32, int32](path + ".bbk")
	require.NoError(t, err)
	assert.Equal(t, bkio.GraphFromQpbo(q), g)

	out, err := run(t, "bq-to-dimacs", path)
	require.NoError(t, err)
	assert.Contains(t, out, "SUCCESS")
	text, err := os.ReadFile(path + ".max")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(text), "p max 12 "))
}

func TestBlkToTxt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.blk")
	require.NoError(t, blocks.WriteFile(path, blocks.Partition{NumBlocks: 2, NodeBlocks: []uint16{0, 1, 1}}))

	_, err := run(t, "blk-to-txt", path)
	require.NoError(t, err)
	text, err := os.ReadFile(path + ".txt")
	require.NoError(t, err)
	assert.Equal(t, "2\n0 1 1 \n", string(text))
}

func TestConvert_MissingInput(t *testing.T) {
	_, err := run(t, "dimacs-to-bbk", filepath.Join(t.TempDir(), "nope.max"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
