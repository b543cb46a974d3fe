package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hupe1980/bkio"
	"github.com/hupe1980/bkio/blocks"
	"github.com/hupe1980/bkio/dimacs"
	"github.com/hupe1980/bkio/model"
)

// Conversions work on int32 capacities, the type of the benchmark data sets.
type graph = model.Graph[int32, int32]

// convertCmd builds a command converting one input file. The default output
// name appends suffix to the input name.
func convertCmd(use, short, suffix string, run func(cmd *cobra.Command, src, dst string) error) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   use + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst := output
			if dst == "" {
				dst = args[0] + suffix
			}
			return run(cmd, args[0], dst)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", fmt.Sprintf("output file (default: <file>%s)", suffix))
	return cmd
}

func newDimacsToBbkCmd(a *app) *cobra.Command {
	return convertCmd("dimacs-to-bbk", "Convert a DIMACS max-flow file (.zst/.lz4 allowed) to .bbk", ".bbk",
		func(cmd *cobra.Command, src, dst string) error {
			var g graph
			if err := step(cmd, "reading dimacs", func() (err error) {
				g, err = dimacs.ReadFile[int32, int32](src)
				return err
			}); err != nil {
				return err
			}
			if err := step(cmd, "writing bbk", func() error {
				return bkio.WriteGraphFile(dst, g, a.fileOptions()...)
			}); err != nil {
				return err
			}

			var back graph
			if err := step(cmd, "reading bbk", func() (err error) {
				back, err = bkio.ReadGraphFile[int32, int32](dst, a.fileOptions()...)
				return err
			}); err != nil {
				return err
			}
			return checkGraphsEqual(cmd, g, back)
		})
}

func newBbkToDimacsCmd(a *app) *cobra.Command {
	return convertCmd("bbk-to-dimacs", "Convert a .bbk graph to a DIMACS max-flow file", ".max",
		func(cmd *cobra.Command, src, dst string) error {
			var g graph
			if err := step(cmd, "reading bbk", func() (err error) {
				g, err = bkio.ReadGraphFile[int32, int32](src, a.fileOptions()...)
				return err
			}); err != nil {
				return err
			}
			return writeDimacs(cmd, dst, g)
		})
}

func newBqToDimacsCmd(a *app) *cobra.Command {
	return convertCmd("bq-to-dimacs", "Reduce a .bq problem to a graph and write it as DIMACS", ".max",
		func(cmd *cobra.Command, src, dst string) error {
			var g graph
			if err := step(cmd, "reading bq", func() error {
				q, err := bkio.ReadQpboFile[int32](src, a.fileOptions()...)
				g = bkio.GraphFromQpbo(q)
				return err
			}); err != nil {
				return err
			}
			return writeDimacs(cmd, dst, g)
		})
}

func newBqToBbkCmd(a *app) *cobra.Command {
	return convertCmd("bq-to-bbk", "Reduce a .bq problem to a .bbk graph", ".bbk",
		func(cmd *cobra.Command, src, dst string) error {
			var q model.Qpbo[int32]
			if err := step(cmd, "reading bq", func() (err error) {
				q, err = bkio.ReadQpboFile[int32](src, a.fileOptions()...)
				return err
			}); err != nil {
				return err
			}
			var g graph
			_ = step(cmd, "qpbo to bbk", func() error {
				g = bkio.GraphFromQpbo(q)
				return nil
			})
			return step(cmd, "writing bbk", func() error {
				return bkio.WriteGraphFile(dst, g, a.fileOptions()...)
			})
		})
}

func newBlkToTxtCmd(a *app) *cobra.Command {
	return convertCmd("blk-to-txt", "Convert a .blk block file to text", ".txt",
		func(cmd *cobra.Command, src, dst string) error {
			var p blocks.Partition
			if err := step(cmd, "reading blk", func() (err error) {
				p, err = blocks.ReadFile(src)
				return err
			}); err != nil {
				return err
			}
			a.logger.Debug("blocks read", "path", src, "nodes", p.NumNodes(), "blocks", p.NumBlocks)
			return step(cmd, "writing txt", func() error {
				f, err := os.Create(dst) //nolint:gosec // caller-supplied path
				if err != nil {
					return err
				}
				if err := blocks.WriteText(f, p); err != nil {
					_ = f.Close()
					return err
				}
				return f.Close()
			})
		})
}

func writeDimacs(cmd *cobra.Command, dst string, g graph) error {
	if err := step(cmd, "writing dimacs ("+dst+")", func() error {
		return dimacs.WriteFile(dst, g)
	}); err != nil {
		return err
	}

	var back graph
	if err := step(cmd, "reading dimacs", func() (err error) {
		back, err = dimacs.ReadFile[int32, int32](dst)
		return err
	}); err != nil {
		return err
	}
	if back.NumNodes != g.NumNodes {
		return fmt.Errorf("%s: %w: %d nodes written, %d read", dst, errVerify, g.NumNodes, back.NumNodes)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "SUCCESS: dimacs file is readable")
	return nil
}

func checkGraphsEqual(cmd *cobra.Command, a, b graph) error {
	if a.NumNodes != b.NumNodes || !slices.Equal(a.TerminalArcs, b.TerminalArcs) || !slices.Equal(a.NeighborArcs, b.NeighborArcs) {
		return fmt.Errorf("%w: graphs are not equal (%s vs %s)", errVerify, a, b)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "SUCCESS: graphs are equal")
	return nil
}
