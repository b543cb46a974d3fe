// Package mmap provides read-only memory-mapped file access.
//
//	f, err := os.Open("graph.bbk")
//	if err != nil { ... }
//	defer f.Close()
//
//	m, err := mmap.Map(f)
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix uses mmap(2) with madvise(2) hints. Windows uses
// CreateFileMapping/MapViewOfFile and ignores hints. Other platforms return
// ErrUnsupported so callers can fall back to regular reads.
//
// Bytes must not be used after Close.
package mmap
