package bkio

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives file-level read and write events.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    bytesWritten prometheus.Counter
//	    readSeconds  prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordWrite(kind string, size int64, d time.Duration, err error) {
//	    p.bytesWritten.Add(float64(size))
//	}
type MetricsCollector interface {
	// RecordWrite is called after each file write. size is the number of
	// bytes written, err is nil if successful.
	RecordWrite(kind string, size int64, duration time.Duration, err error)

	// RecordRead is called after each full file read. records is the number
	// of arcs or terms decoded.
	RecordRead(kind string, records uint64, duration time.Duration, err error)

	// RecordHeader is called after each header-only read.
	RecordHeader(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordWrite(string, int64, time.Duration, error)  {}
func (NoopMetricsCollector) RecordRead(string, uint64, time.Duration, error) {}
func (NoopMetricsCollector) RecordHeader(error)                              {}

// BasicMetricsCollector counts events in memory. It is safe for concurrent
// use.
type BasicMetricsCollector struct {
	WriteCount      atomic.Int64
	WriteErrors     atomic.Int64
	BytesWritten    atomic.Int64
	WriteTotalNanos atomic.Int64
	ReadCount       atomic.Int64
	ReadErrors      atomic.Int64
	RecordsRead     atomic.Uint64
	ReadTotalNanos  atomic.Int64
	HeaderCount     atomic.Int64
	HeaderErrors    atomic.Int64
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(_ string, size int64, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
		return
	}
	b.BytesWritten.Add(size)
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(_ string, records uint64, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
		return
	}
	b.RecordsRead.Add(records)
}

// RecordHeader implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHeader(err error) {
	b.HeaderCount.Add(1)
	if err != nil {
		b.HeaderErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		WriteCount:    b.WriteCount.Load(),
		WriteErrors:   b.WriteErrors.Load(),
		BytesWritten:  b.BytesWritten.Load(),
		WriteAvgNanos: avgNanos(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
		ReadCount:     b.ReadCount.Load(),
		ReadErrors:    b.ReadErrors.Load(),
		RecordsRead:   b.RecordsRead.Load(),
		ReadAvgNanos:  avgNanos(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		HeaderCount:   b.HeaderCount.Load(),
		HeaderErrors:  b.HeaderErrors.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	WriteCount    int64
	WriteErrors   int64
	BytesWritten  int64
	WriteAvgNanos int64
	ReadCount     int64
	ReadErrors    int64
	RecordsRead   uint64
	ReadAvgNanos  int64
	HeaderCount   int64
	HeaderErrors  int64
}
