package bkio

import (
	"github.com/hupe1980/bkio/internal/fs"
)

type options struct {
	compress bool
	mmap     bool
	logger   *Logger
	metrics  MetricsCollector
	fs       fs.FileSystem
}

// Option configures file-level reads and writes.
type Option func(*options)

func applyOptions(opts []Option) options {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
		fs:      fs.Default,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithCompression selects whether written sections are Snappy compressed.
// Readers detect compression from the file and ignore this option.
func WithCompression(compress bool) Option {
	return func(o *options) {
		o.compress = compress
	}
}

// WithMmap reads files through a read-only memory mapping instead of
// buffered reads. Platforms without mmap fall back to buffered reads.
// Decoded records never alias the mapping.
func WithMmap(enabled bool) Option {
	return func(o *options) {
		o.mmap = enabled
	}
}

// WithLogger configures the logger for file operations.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics configures the collector for file operations.
//
// If nil is passed, metrics are disabled.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// withFileSystem swaps the file system, for fault injection in tests.
func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}
