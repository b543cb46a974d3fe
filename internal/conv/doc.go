// Package conv provides safe integer conversions for values read from disk.
//
// Counts in file headers are untrusted u64 values; they are converted to
// int and multiplied by record sizes only through these checks. For
// conversions that are provably safe (loop indices, lengths of slices in
// memory), use direct casts.
package conv
