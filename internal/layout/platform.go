package layout

import "unsafe"

// littleEndian is true when the host stores integers least significant byte first.
// Zero-copy views are only used on such hosts.
var littleEndian = isLittleEndian()

func isLittleEndian() bool {
	var one uint16 = 0x0001
	return *(*byte)(unsafe.Pointer(&one)) == 1 //nolint:gosec // first byte of a local
}
