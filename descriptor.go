package bkio

import (
	"strings"

	"github.com/hupe1980/bkio/captype"
)

// Benchmark file extensions.
const (
	ExtGraph = "bbk"
	ExtQpbo  = "bq"
)

// BenchmarkDescriptor describes one data set of a benchmark configuration.
type BenchmarkDescriptor struct {
	FileName    string `json:"file_name"`
	FileType    string `json:"file_type"`
	NborCapType string `json:"nbor_cap_type"`
	TermCapType string `json:"term_cap_type"`
}

// Describe returns the descriptor of path with the declared int32 capacity
// types. The file is not opened. FileType is the text after the last dot.
func Describe(path string) BenchmarkDescriptor {
	ext := path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		ext = path[i+1:]
	}
	return BenchmarkDescriptor{
		FileName:    path,
		FileType:    ext,
		NborCapType: captype.Int32.String(),
		TermCapType: captype.Int32.String(),
	}
}

// DescribeFile is like Describe but takes the capacity types from the file
// header. QPBO problems report their energy type for both.
func DescribeFile(path string, opts ...Option) (BenchmarkDescriptor, error) {
	d := Describe(path)
	kind, err := DetectKind(path, opts...)
	if err != nil {
		return d, err
	}
	switch kind {
	case KindGraph:
		h, err := ReadGraphHeaderFile(path, opts...)
		if err != nil {
			return d, err
		}
		d.NborCapType, d.TermCapType = h.NeighborCapType.String(), h.TerminalCapType.String()
	case KindQpbo:
		h, err := ReadQpboHeaderFile(path, opts...)
		if err != nil {
			return d, err
		}
		d.NborCapType, d.TermCapType = h.CapType.String(), h.CapType.String()
	default:
		return d, ErrInvalidHeader
	}
	return d, nil
}

// IsBenchmarkFile reports whether path has a .bbk or .bq extension.
func IsBenchmarkFile(path string) bool {
	return strings.HasSuffix(path, "."+ExtGraph) || strings.HasSuffix(path, "."+ExtQpbo)
}
