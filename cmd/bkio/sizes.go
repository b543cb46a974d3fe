package main

import (
	"encoding/csv"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/bkio"
	"github.com/hupe1980/bkio/internal/fs"
)

type sizeRow struct {
	name  string
	nodes uint64
	arcs  uint64
}

func newSizesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sizes [dir]",
		Short: "Print node and edge counts of the .bbk and .bq files in dir",
		Long: `Print a CSV table with the node count (including source and sink) and
the edge count of every .bbk and .bq file in dir, read from the file headers.
QPBO problems report the size of the graph they reduce to.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			rows, err := a.scanSizes(dir)
			if err != nil {
				return err
			}

			w := csv.NewWriter(cmd.OutOrStdout())
			_ = w.Write([]string{"file_name", "num_nodes", "num_edges"})
			for _, r := range rows {
				_ = w.Write([]string{r.name, strconv.FormatUint(r.nodes, 10), strconv.FormatUint(r.arcs, 10)})
			}
			w.Flush()
			return w.Error()
		},
	}
}

// scanSizes reads the headers of the benchmark files in dir in parallel.
// Rows are in directory order.
func (a *app) scanSizes(dir string) ([]sizeRow, error) {
	entries, err := fs.Default.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var rows []sizeRow
	for _, e := range entries {
		if e.Type().IsRegular() && bkio.IsBenchmarkFile(e.Name()) {
			rows = append(rows, sizeRow{name: e.Name()})
		}
	}

	var g errgroup.Group
	g.SetLimit(a.cfg.Workers)
	for i := range rows {
		g.Go(func() error {
			path := filepath.Join(dir, rows[i].name)
			sizes := bkio.GraphSizes
			if strings.HasSuffix(path, "."+bkio.ExtQpbo) {
				sizes = bkio.QpboSizes
			}
			var err error
			rows[i].nodes, rows[i].arcs, err = sizes(path, a.fileOptions()...)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	a.logger.Info("sizes scanned", "dir", dir, "files", len(rows))
	return rows, nil
}
