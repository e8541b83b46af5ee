package elfdoc

// This file contains code for reading the program header and section header
// tables, and for copying section content out of the file.

import (
	"fmt"
)

// Returns an error wrapping ErrTruncatedInput if the given number of bytes
// starting at start doesn't fit in a buffer of the given size.
func checkRange(what string, start, length uint64, available int) error {
	end := start + length
	if (end < start) || (end > uint64(available)) {
		return fmt.Errorf("%w: %s at offset 0x%x (%d bytes) runs past the "+
			"end of the %d-byte file", ErrTruncatedInput, what, start, length,
			available)
	}
	return nil
}

// Reads count entries of entrySize bytes each, starting at the given file
// offset. Only the first layout.size bytes of each entry are decoded; any
// extra bytes are skipped.
func decodeTable[T any](raw []byte, h *ELFHeader, layout *recordLayout[T],
	start uint64, count, entrySize uint16) ([]T, error) {
	entries := make([]T, count)
	if count == 0 {
		return entries, nil
	}
	if int(entrySize) < layout.size {
		return nil, fmt.Errorf("%w: %s entry size is %d, expected at "+
			"least %d", ErrMalformedHeader, layout.name, entrySize,
			layout.size)
	}
	tableSize := uint64(count) * uint64(entrySize)
	e := checkRange(layout.name+" table", start, tableSize, len(raw))
	if e != nil {
		return nil, e
	}
	order := h.ByteOrder()
	for i := range entries {
		offset := start + uint64(i)*uint64(entrySize)
		e = layout.unpack(raw[offset:offset+uint64(entrySize)], order,
			&entries[i])
		if e != nil {
			return nil, fmt.Errorf("Failed reading %s %d: %w", layout.name, i,
				e)
		}
	}
	return entries, nil
}

// Decodes the program header table described by the file header, in table
// order.
func DecodeProgramHeaders(raw []byte, h *ELFHeader) ([]ELFProgramHeader,
	error) {
	layout := &program32Layout
	if h.Is64Bit {
		layout = &program64Layout
	}
	return decodeTable(raw, h, layout, h.ProgramHeaderStart,
		h.ProgramHeaderEntryCount, h.ProgramHeaderEntrySize)
}

// Decodes the section header table described by the file header, in table
// order. Names are left unresolved; see ResolveSectionNames.
func DecodeSectionHeaders(raw []byte, h *ELFHeader) ([]ELFSectionHeader,
	error) {
	layout := &section32Layout
	if h.Is64Bit {
		layout = &section64Layout
	}
	return decodeTable(raw, h, layout, h.SectionHeaderStart,
		h.SectionHeaderEntryCount, h.SectionHeaderEntrySize)
}

// Returns a copy of the file content of every section, in the same order as
// the given headers. Uninitialized sections get an empty payload.
func CopySectionPayloads(raw []byte, headers []ELFSectionHeader) ([][]byte,
	error) {
	payloads := make([][]byte, len(headers))
	for i := range headers {
		header := &(headers[i])
		if !header.HasFileContent() {
			payloads[i] = []byte{}
			continue
		}
		e := checkRange(fmt.Sprintf("section %d content", i), header.Offset,
			header.Size, len(raw))
		if e != nil {
			return nil, e
		}
		payload := make([]byte, header.Size)
		copy(payload, raw[header.Offset:header.Offset+header.Size])
		payloads[i] = payload
	}
	return payloads, nil
}
