// Package fs provides the file system seam used by file-level reads and
// writes.
//
//   - [FileSystem] abstracts the handful of operations the codec needs.
//   - [LocalFS] is the production implementation backed by package os.
//   - [FaultyFS] wraps another FileSystem and injects write, sync, close
//     and rename failures for tests.
//   - [WriteFileAtomic] writes through a temporary file and renames it over
//     the target, so a failed write never leaves a partial file behind.
//
// Filesystem operations take no context.Context: local I/O is not
// interruptible at the syscall level.
package fs
