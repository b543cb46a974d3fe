package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/bkio/codec"
)

func encodeJSON(a *app, cmd *cobra.Command, v any) error {
	return codec.Encode(a.codec, cmd.OutOrStdout(), v)
}

// step runs fn and prints its label and duration.
func step(cmd *cobra.Command, label string, fn func() error) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%s... ", label)
	start := time.Now()
	if err := fn(); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "failed")
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%.3f seconds\n", time.Since(start).Seconds())
	return nil
}
