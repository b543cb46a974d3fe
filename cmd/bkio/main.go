// Command bkio inspects and converts binary BK graph (.bbk) and QPBO (.bq)
// files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/bkio"
	"github.com/hupe1980/bkio/codec"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	configPath string
	flags      Config
	cfg        Config
	logger     *bkio.Logger
	codec      codec.Codec
	metrics    bkio.BasicMetricsCollector
}

// fileOptions returns the options for bkio file operations.
func (a *app) fileOptions() []bkio.Option {
	return []bkio.Option{
		bkio.WithCompression(a.cfg.Compress),
		bkio.WithLogger(a.logger),
		bkio.WithMetrics(&a.metrics),
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "bkio",
		Short:         "Inspect and convert binary BK graph and QPBO files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.logMetrics()
		},
	}

	defaults := DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "TOML config file")
	pf.BoolVar(&a.flags.Compress, "compress", defaults.Compress, "compress written .bbk/.bq sections")
	pf.IntVar(&a.flags.Workers, "workers", defaults.Workers, "parallel file reads")
	pf.StringVar(&a.flags.LogLevel, "log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.LogFormat, "log-format", defaults.LogFormat, "log format (text, json)")
	pf.StringVar(&a.flags.JSONCodec, "json-codec", defaults.JSONCodec, "JSON encoder (json, go-json)")

	rootCmd.AddCommand(newSizesCmd(a))
	rootCmd.AddCommand(newAssembleCmd(a))
	rootCmd.AddCommand(newHeaderCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))
	rootCmd.AddCommand(newRecompressCmd(a, "compress", true))
	rootCmd.AddCommand(newRecompressCmd(a, "decompress", false))
	rootCmd.AddCommand(newDimacsToBbkCmd(a))
	rootCmd.AddCommand(newBbkToDimacsCmd(a))
	rootCmd.AddCommand(newBqToDimacsCmd(a))
	rootCmd.AddCommand(newBqToBbkCmd(a))
	rootCmd.AddCommand(newBlkToTxtCmd(a))
	return rootCmd
}

// init resolves the configuration: defaults, then the config file, then
// explicitly set flags.
func (a *app) init(cmd *cobra.Command) error {
	cfg := DefaultConfig()
	if a.configPath != "" {
		var err error
		if cfg, err = LoadConfig(a.configPath); err != nil {
			return err
		}
	}
	cfg = cfg.Merge(a.flags, cmd.Flags().Changed)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger
	a.codec, _ = codec.ByName(cfg.JSONCodec)
	a.logger.Debug("config resolved", "config", a.configPath, "compress", cfg.Compress, "workers", cfg.Workers)
	return nil
}

// logMetrics logs the file operations of the finished command.
func (a *app) logMetrics() {
	s := a.metrics.GetStats()
	a.logger.Info("file io",
		"reads", s.ReadCount,
		"read_errors", s.ReadErrors,
		"records_read", s.RecordsRead,
		"headers", s.HeaderCount,
		"writes", s.WriteCount,
		"write_errors", s.WriteErrors,
		"bytes_written", s.BytesWritten,
	)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
