package fs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// WriteBufferSize is the buffer placed in front of files written by WriteFileAtomic.
const WriteBufferSize = 256 * 1024

var tmpSeq atomic.Uint64

// WriteFileAtomic writes name by calling write with a buffered writer on a
// temporary file in the same directory, syncing it and renaming it over
// name. On any failure the temporary file is removed and name is untouched.
func WriteFileAtomic(fsys FileSystem, name string, perm os.FileMode, write func(io.Writer) error) error {
	if fsys == nil {
		fsys = Default
	}
	dir := filepath.Dir(name)
	tmpName := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(name), time.Now().UnixNano(), tmpSeq.Add(1)))

	tmp, err := fsys.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if !closed {
			_ = tmp.Close()
		}
		if tmpName != "" {
			_ = fsys.Remove(tmpName)
		}
	}()

	buf := bufio.NewWriterSize(tmp, WriteBufferSize)
	if err := write(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := fsys.Rename(tmpName, name); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil { //nolint:gosec // directory of caller-supplied path
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}
