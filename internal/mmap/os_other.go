//go:build !unix && !windows

package mmap

import "os"

func osMap(*os.File, int) ([]byte, func([]byte) error, error) {
	return nil, nil, ErrUnsupported
}

func osAdvise([]byte, AccessPattern) error { return nil }
