package elfdoc

import (
	"encoding/binary"
	"fmt"
)

// The size of the smallest (32-bit) ELF header.
const MinimumHeaderSize = 0x34

// Decodes the ELF file header at the start of raw. The class and data bytes
// select the 32- or 64-bit layout and the byte order used for every field
// after the identification bytes. Doesn't check the magic number; use
// ELFHeader.IsValid for that.
func DecodeHeader(raw []byte) (ELFHeader, error) {
	var h ELFHeader
	if len(raw) < MinimumHeaderSize {
		return h, fmt.Errorf("%w: ELF header needs %d bytes, file is %d bytes",
			ErrTruncatedInput, MinimumHeaderSize, len(raw))
	}
	// The signature is a byte sequence, not an integer, so it's always read
	// low byte first regardless of the file's byte order.
	h.MagicNumber = uint32(readUint(raw[0:4], binary.LittleEndian))
	h.Is64Bit = raw[4] == ELFClass64
	h.IsBigEndian = raw[5] == ELFDataBigEndian
	copy(h.Padding[:], raw[0x09:0x10])
	layout := &header32Layout
	if h.Is64Bit {
		layout = &header64Layout
	}
	e := layout.unpack(raw, byteOrderFor(h.IsBigEndian), &h)
	if e != nil {
		return h, e
	}
	return h, nil
}

// Returns the byte order used by the file's multi-byte fields.
func (h *ELFHeader) ByteOrder() binary.ByteOrder {
	return byteOrderFor(h.IsBigEndian)
}
