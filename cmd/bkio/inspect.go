package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/bkio"
	"github.com/hupe1980/bkio/stats"
)

// headerInfo is the JSON shape of a file header.
type headerInfo struct {
	File           string `json:"file"`
	Kind           string `json:"kind"`
	Compressed     bool   `json:"compressed"`
	NborCapType    string `json:"nbor_cap_type,omitempty"`
	TermCapType    string `json:"term_cap_type,omitempty"`
	CapType        string `json:"cap_type,omitempty"`
	NumNodes       uint64 `json:"num_nodes"`
	NumTermArcs    uint64 `json:"num_term_arcs,omitempty"`
	NumNborArcs    uint64 `json:"num_nbor_arcs,omitempty"`
	NumUnaryTerms  uint64 `json:"num_unary_terms,omitempty"`
	NumBinaryTerms uint64 `json:"num_binary_terms,omitempty"`
}

func (a *app) readHeader(path string) (headerInfo, error) {
	opts := a.fileOptions()
	kind, err := bkio.DetectKind(path, opts...)
	if err != nil {
		return headerInfo{}, err
	}
	info := headerInfo{File: path, Kind: kind.String()}

	switch kind {
	case bkio.KindGraph:
		h, err := bkio.ReadGraphHeaderFile(path, opts...)
		if err != nil {
			return headerInfo{}, err
		}
		info.Compressed = h.Compressed
		info.NborCapType = h.NeighborCapType.String()
		info.TermCapType = h.TerminalCapType.String()
		info.NumNodes = h.NumNodes
		info.NumTermArcs = h.NumTerminalArcs
		info.NumNborArcs = h.NumNeighborArcs
	case bkio.KindQpbo:
		h, err := bkio.ReadQpboHeaderFile(path, opts...)
		if err != nil {
			return headerInfo{}, err
		}
		info.Compressed = h.Compressed
		info.CapType = h.CapType.String()
		info.NumNodes = h.NumNodes
		info.NumUnaryTerms = h.NumUnaryTerms
		info.NumBinaryTerms = h.NumBinaryTerms
	default:
		return headerInfo{}, fmt.Errorf("%s: %w: not a graph or QPBO file", path, bkio.ErrInvalidHeader)
	}
	return info, nil
}

func newHeaderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "header <file>...",
		Short: "Print the headers of .bbk and .bq files as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := make([]headerInfo, 0, len(args))
			for _, path := range args {
				info, err := a.readHeader(path)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}
			return encodeJSON(a, cmd, infos)
		},
	}
}

// statsInfo is the JSON shape of a node id summary.
type statsInfo struct {
	File string `json:"file"`
	Kind string `json:"kind"`
	stats.Summary
}

func (a *app) readStats(path string) (statsInfo, error) {
	opts := append(a.fileOptions(), bkio.WithMmap(true))
	kind, err := bkio.DetectKind(path, opts...)
	if err != nil {
		return statsInfo{}, err
	}

	var s stats.Summary
	switch kind {
	case bkio.KindGraph:
		g, err := bkio.ReadGraphRawFile(path, opts...)
		if err != nil {
			return statsInfo{}, err
		}
		s, err = stats.RawGraph(g)
		if err != nil {
			return statsInfo{}, fmt.Errorf("%s: %w", path, err)
		}
	case bkio.KindQpbo:
		q, err := bkio.ReadQpboRawFile(path, opts...)
		if err != nil {
			return statsInfo{}, err
		}
		s, err = stats.RawQpbo(q)
		if err != nil {
			return statsInfo{}, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return statsInfo{}, fmt.Errorf("%s: %w: not a graph or QPBO file", path, bkio.ErrInvalidHeader)
	}
	return statsInfo{File: path, Kind: kind.String(), Summary: s}, nil
}

func newStatsCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "stats <file>...",
		Short: "Summarize the node ids referenced by .bbk and .bq files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := make([]statsInfo, 0, len(args))
			for _, path := range args {
				info, err := a.readStats(path)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}
			if err := encodeJSON(a, cmd, infos); err != nil {
				return err
			}
			if strict {
				for _, info := range infos {
					if err := info.Check(); err != nil {
						return fmt.Errorf("%s: %w", info.File, err)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail if any node id is out of range")
	return cmd
}
