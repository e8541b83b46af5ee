package elfdoc

// This file contains the low-level integer decoding used by every layout.

import (
	"encoding/binary"
	"fmt"
)

// Interprets data as an unsigned integer using the given byte order. The
// length of data selects the width, and must be 1, 2, 4, or 8. Any other
// length is a bug in the caller rather than bad input, so this panics.
func readUint(data []byte, order binary.ByteOrder) uint64 {
	switch len(data) {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(order.Uint16(data))
	case 4:
		return uint64(order.Uint32(data))
	case 8:
		return order.Uint64(data)
	}
	panic(fmt.Sprintf("readUint: unsupported width %d", len(data)))
}

// Returns the byte order indicated by the EI_DATA identification byte. Only
// 2 means big-endian; everything else is read little-endian.
func byteOrderFor(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
