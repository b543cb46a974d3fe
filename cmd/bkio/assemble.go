package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hupe1980/bkio"
)

func newAssembleCmd(a *app) *cobra.Command {
	var baseFile string

	cmd := &cobra.Command{
		Use:   "assemble [glob]",
		Short: "Build the 'data_sets' entry of a benchmark configuration",
		Long: `Describe every .bbk and .bq file matching glob (default "*") by its
absolute path. Without --base-file the list is printed; with it, the list
replaces the "data_sets" key of the JSON document in that file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}
			entries, err := describeGlob(pattern)
			if err != nil {
				return err
			}
			a.logger.Info("data sets assembled", "glob", pattern, "files", len(entries))

			if baseFile == "" {
				return encodeJSON(a, cmd, entries)
			}
			data, err := os.ReadFile(baseFile) //nolint:gosec // caller-supplied path
			if err != nil {
				return err
			}
			var doc map[string]any
			if err := a.codec.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("%s: %w", baseFile, err)
			}
			if doc == nil {
				return fmt.Errorf("%s: not a JSON object", baseFile)
			}
			doc["data_sets"] = entries
			return encodeJSON(a, cmd, doc)
		},
	}
	cmd.Flags().StringVar(&baseFile, "base-file", "", "JSON file to insert the data sets into")
	return cmd
}

// describeGlob describes the benchmark files matching pattern, in lexical
// order.
func describeGlob(pattern string) ([]bkio.BenchmarkDescriptor, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	entries := []bkio.BenchmarkDescriptor{}
	for _, m := range matches {
		if !bkio.IsBenchmarkFile(m) {
			continue
		}
		abs, err := filepath.Abs(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, bkio.Describe(abs))
	}
	return entries, nil
}
