package elfdoc

// This file contains the declarative descriptions of every fixed-size ELF
// record this package decodes. Each layout lists its fields by offset and
// width, and a single routine, unpack, turns raw bytes into a record.

import (
	"encoding/binary"
	"fmt"
)

// A single integer field within a fixed-size record.
type fieldLayout[T any] struct {
	name   string
	offset int
	width  int
	set    func(dst *T, v uint64)
}

// Describes a fixed-size record of type T.
type recordLayout[T any] struct {
	name   string
	size   int
	fields []fieldLayout[T]
}

// Decodes every field of the layout from data into dst. Returns an error
// wrapping ErrTruncatedInput if data is shorter than the layout.
func (l *recordLayout[T]) unpack(data []byte, order binary.ByteOrder,
	dst *T) error {
	if len(data) < l.size {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrTruncatedInput,
			l.name, l.size, len(data))
	}
	for _, f := range l.fields {
		f.set(dst, readUint(data[f.offset:f.offset+f.width], order))
	}
	return nil
}

// The identification bytes and every header field past them. The magic
// number and padding are handled separately in DecodeHeader, since they
// don't depend on the file's byte order.
var header32Layout = recordLayout[ELFHeader]{
	name: "32-bit ELF header",
	size: 0x34,
	fields: []fieldLayout[ELFHeader]{
		{"version", 0x06, 1, func(h *ELFHeader, v uint64) { h.Version = uint8(v) }},
		{"abi", 0x07, 1, func(h *ELFHeader, v uint64) { h.ABI = uint8(v) }},
		{"abi_version", 0x08, 1, func(h *ELFHeader, v uint64) { h.ABIVersion = uint8(v) }},
		{"elf_type", 0x10, 2, func(h *ELFHeader, v uint64) { h.Type = ELFFileType(v) }},
		{"machine", 0x12, 2, func(h *ELFHeader, v uint64) { h.Machine = MachineType(v) }},
		{"elf_version", 0x14, 4, func(h *ELFHeader, v uint64) { h.ELFVersion = uint32(v) }},
		{"entry_pc", 0x18, 4, func(h *ELFHeader, v uint64) { h.EntryPC = v }},
		{"program_header_start", 0x1c, 4, func(h *ELFHeader, v uint64) { h.ProgramHeaderStart = v }},
		{"section_header_start", 0x20, 4, func(h *ELFHeader, v uint64) { h.SectionHeaderStart = v }},
		{"flags", 0x24, 4, func(h *ELFHeader, v uint64) { h.Flags = uint32(v) }},
		{"this_size", 0x28, 2, func(h *ELFHeader, v uint64) { h.ThisSize = uint16(v) }},
		{"program_header_entry_size", 0x2a, 2, func(h *ELFHeader, v uint64) { h.ProgramHeaderEntrySize = uint16(v) }},
		{"program_header_entry_count", 0x2c, 2, func(h *ELFHeader, v uint64) { h.ProgramHeaderEntryCount = uint16(v) }},
		{"section_header_entry_size", 0x2e, 2, func(h *ELFHeader, v uint64) { h.SectionHeaderEntrySize = uint16(v) }},
		{"section_header_entry_count", 0x30, 2, func(h *ELFHeader, v uint64) { h.SectionHeaderEntryCount = uint16(v) }},
		{"shstrtab_index", 0x32, 2, func(h *ELFHeader, v uint64) { h.SectionNamesIndex = uint16(v) }},
	},
}

// Same as header32Layout, but the entry point and both table offsets are 8
// bytes wide, shifting everything after them.
var header64Layout = recordLayout[ELFHeader]{
	name: "64-bit ELF header",
	size: 0x40,
	fields: []fieldLayout[ELFHeader]{
		{"version", 0x06, 1, func(h *ELFHeader, v uint64) { h.Version = uint8(v) }},
		{"abi", 0x07, 1, func(h *ELFHeader, v uint64) { h.ABI = uint8(v) }},
		{"abi_version", 0x08, 1, func(h *ELFHeader, v uint64) { h.ABIVersion = uint8(v) }},
		{"elf_type", 0x10, 2, func(h *ELFHeader, v uint64) { h.Type = ELFFileType(v) }},
		{"machine", 0x12, 2, func(h *ELFHeader, v uint64) { h.Machine = MachineType(v) }},
		{"elf_version", 0x14, 4, func(h *ELFHeader, v uint64) { h.ELFVersion = uint32(v) }},
		{"entry_pc", 0x18, 8, func(h *ELFHeader, v uint64) { h.EntryPC = v }},
		{"program_header_start", 0x20, 8, func(h *ELFHeader, v uint64) { h.ProgramHeaderStart = v }},
		{"section_header_start", 0x28, 8, func(h *ELFHeader, v uint64) { h.SectionHeaderStart = v }},
		{"flags", 0x30, 4, func(h *ELFHeader, v uint64) { h.Flags = uint32(v) }},
		{"this_size", 0x34, 2, func(h *ELFHeader, v uint64) { h.ThisSize = uint16(v) }},
		{"program_header_entry_size", 0x36, 2, func(h *ELFHeader, v uint64) { h.ProgramHeaderEntrySize = uint16(v) }},
		{"program_header_entry_count", 0x38, 2, func(h *ELFHeader, v uint64) { h.ProgramHeaderEntryCount = uint16(v) }},
		{"section_header_entry_size", 0x3a, 2, func(h *ELFHeader, v uint64) { h.SectionHeaderEntrySize = uint16(v) }},
		{"section_header_entry_count", 0x3c, 2, func(h *ELFHeader, v uint64) { h.SectionHeaderEntryCount = uint16(v) }},
		{"shstrtab_index", 0x3e, 2, func(h *ELFHeader, v uint64) { h.SectionNamesIndex = uint16(v) }},
	},
}

var program32Layout = recordLayout[ELFProgramHeader]{
	name: "32-bit program header",
	size: 0x20,
	fields: []fieldLayout[ELFProgramHeader]{
		{"header_type", 0x00, 4, func(p *ELFProgramHeader, v uint64) { p.Type = ProgramHeaderType(v) }},
		{"offset", 0x04, 4, func(p *ELFProgramHeader, v uint64) { p.Offset = v }},
		{"virtual_address", 0x08, 4, func(p *ELFProgramHeader, v uint64) { p.VirtualAddress = v }},
		{"physical_address", 0x0c, 4, func(p *ELFProgramHeader, v uint64) { p.PhysicalAddress = v }},
		{"file_image_size", 0x10, 4, func(p *ELFProgramHeader, v uint64) { p.FileImageSize = v }},
		{"memory_size", 0x14, 4, func(p *ELFProgramHeader, v uint64) { p.MemorySize = v }},
		{"flags", 0x18, 4, func(p *ELFProgramHeader, v uint64) { p.Flags = ProgramHeaderFlags(v) }},
		{"alignment", 0x1c, 4, func(p *ELFProgramHeader, v uint64) { p.Alignment = v }},
	},
}

// In 64-bit files the flags move up next to the type, keeping the 8-byte
// fields aligned.
var program64Layout = recordLayout[ELFProgramHeader]{
	name: "64-bit program header",
	size: 0x38,
	fields: []fieldLayout[ELFProgramHeader]{
		{"header_type", 0x00, 4, func(p *ELFProgramHeader, v uint64) { p.Type = ProgramHeaderType(v) }},
		{"flags", 0x04, 4, func(p *ELFProgramHeader, v uint64) { p.Flags = ProgramHeaderFlags(v) }},
		{"offset", 0x08, 8, func(p *ELFProgramHeader, v uint64) { p.Offset = v }},
		{"virtual_address", 0x10, 8, func(p *ELFProgramHeader, v uint64) { p.VirtualAddress = v }},
		{"physical_address", 0x18, 8, func(p *ELFProgramHeader, v uint64) { p.PhysicalAddress = v }},
		{"file_image_size", 0x20, 8, func(p *ELFProgramHeader, v uint64) { p.FileImageSize = v }},
		{"memory_size", 0x28, 8, func(p *ELFProgramHeader, v uint64) { p.MemorySize = v }},
		{"alignment", 0x30, 8, func(p *ELFProgramHeader, v uint64) { p.Alignment = v }},
	},
}

var section32Layout = recordLayout[ELFSectionHeader]{
	name: "32-bit section header",
	size: 0x28,
	fields: []fieldLayout[ELFSectionHeader]{
		{"name_offset", 0x00, 4, func(s *ELFSectionHeader, v uint64) { s.NameOffset = uint32(v) }},
		{"section_header_type", 0x04, 4, func(s *ELFSectionHeader, v uint64) { s.Type = SectionHeaderType(v) }},
		{"flags", 0x08, 4, func(s *ELFSectionHeader, v uint64) { s.Flags = SectionHeaderFlags(v) }},
		{"addr", 0x0c, 4, func(s *ELFSectionHeader, v uint64) { s.Address = v }},
		{"offset", 0x10, 4, func(s *ELFSectionHeader, v uint64) { s.Offset = v }},
		{"size", 0x14, 4, func(s *ELFSectionHeader, v uint64) { s.Size = v }},
		{"link", 0x18, 4, func(s *ELFSectionHeader, v uint64) { s.Link = uint32(v) }},
		{"info", 0x1c, 4, func(s *ELFSectionHeader, v uint64) { s.Info = uint32(v) }},
		{"address_align", 0x20, 4, func(s *ELFSectionHeader, v uint64) { s.AddressAlign = v }},
		{"entry_size", 0x24, 4, func(s *ELFSectionHeader, v uint64) { s.EntrySize = v }},
	},
}

var section64Layout = recordLayout[ELFSectionHeader]{
	name: "64-bit section header",
	size: 0x40,
	fields: []fieldLayout[ELFSectionHeader]{
		{"name_offset", 0x00, 4, func(s *ELFSectionHeader, v uint64) { s.NameOffset = uint32(v) }},
		{"section_header_type", 0x04, 4, func(s *ELFSectionHeader, v uint64) { s.Type = SectionHeaderType(v) }},
		{"flags", 0x08, 8, func(s *ELFSectionHeader, v uint64) { s.Flags = SectionHeaderFlags(v) }},
		{"addr", 0x10, 8, func(s *ELFSectionHeader, v uint64) { s.Address = v }},
		{"offset", 0x18, 8, func(s *ELFSectionHeader, v uint64) { s.Offset = v }},
		{"size", 0x20, 8, func(s *ELFSectionHeader, v uint64) { s.Size = v }},
		{"link", 0x28, 4, func(s *ELFSectionHeader, v uint64) { s.Link = uint32(v) }},
		{"info", 0x2c, 4, func(s *ELFSectionHeader, v uint64) { s.Info = uint32(v) }},
		{"address_align", 0x30, 8, func(s *ELFSectionHeader, v uint64) { s.AddressAlign = v }},
		{"entry_size", 0x38, 8, func(s *ELFSectionHeader, v uint64) { s.EntrySize = v }},
	},
}
