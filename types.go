// Package elfdoc decodes ELF object files, executables, and shared libraries
// into an ELFDocument: the file header, the program (segment) headers, and
// every section with its name and content.
package elfdoc

import (
	"fmt"
)

const (
	ELFMagic                   = 0x464c457f
	ELFClass32                 = 1
	ELFClass64                 = 2
	ELFDataLittleEndian        = 1
	ELFDataBigEndian           = 2
	ELFTypeRelocatable         = 1
	ELFTypeExecutable          = 2
	ELFTypeShared              = 3
	ELFTypeCore                = 4
	MachineTypeSPARC           = 0x02
	MachineTypeX86             = 0x03
	MachineTypeMIPS            = 0x08
	MachineTypePowerPC         = 0x14
	MachineTypeARM             = 0x28
	MachineTypeXtensa          = 0x5e
	MachineTypeAMD64           = 0x3e
	MachineTypeARM64           = 0xb7
	MachineTypeRISCV           = 0xf3
	NullSegment                = 0
	LoadableSegment            = 1
	DynamicLinkingSegment      = 2
	InterpreterSegment         = 3
	NoteSegment                = 4
	ReservedSegment            = 5
	ProgramHeaderSegment       = 6
	NullSection                = 0
	BitsSection                = 1
	SymbolTableSection         = 2
	StringTableSection         = 3
	RelaSection                = 4
	HashSection                = 5
	DynamicLinkingTableSection = 6
	NoteSection                = 7
	UninitializedSection       = 8
	RelSection                 = 9
	ReservedSection            = 10
	DynamicLoaderSymbolSection = 11
	// Section index values with special meaning in the header's section
	// names table index.
	UndefinedSectionIndex = 0
	ExtendedSectionIndex  = 0xffff
)

type ELFFileType uint16

func (t ELFFileType) String() string {
	switch t {
	case 0:
		return "no file type"
	case ELFTypeRelocatable:
		return "relocatable file"
	case ELFTypeExecutable:
		return "executable file"
	case ELFTypeShared:
		return "shared file"
	case ELFTypeCore:
		return "core file"
	}
	return fmt.Sprintf("unknown ELF type: %d", uint16(t))
}

type MachineType uint16

func (t MachineType) String() string {
	switch t {
	case 0:
		return "unspecified machine type"
	case MachineTypeSPARC:
		return "SPARC"
	case MachineTypeX86:
		return "x86"
	case MachineTypeMIPS:
		return "MIPS"
	case MachineTypePowerPC:
		return "PowerPC"
	case MachineTypeARM:
		return "ARM"
	case MachineTypeXtensa:
		return "Xtensa"
	case MachineTypeAMD64:
		return "AMD64"
	case MachineTypeARM64:
		return "ARM64"
	case MachineTypeRISCV:
		return "RISC-V"
	}
	return fmt.Sprintf("unknown machine type: 0x%02x", uint16(t))
}

type ProgramHeaderType uint32

func (ht ProgramHeaderType) String() string {
	// Avoid printf recursion by explicitly casting this to a uint32
	t := uint32(ht)
	switch t {
	case NullSegment:
		return "unused segment"
	case LoadableSegment:
		return "loadable segment"
	case DynamicLinkingSegment:
		return "dynamic linking tables"
	case InterpreterSegment:
		return "interpreter path name segment"
	case NoteSegment:
		return "note segment"
	case ReservedSegment:
		return "reserved segment type"
	case ProgramHeaderSegment:
		return "program header table"
	}
	if t >= 0x80000000 {
		return fmt.Sprintf("invalid segment type: 0x%x", t)
	}
	if t >= 0x70000000 {
		return fmt.Sprintf("processor-specific segment: 0x%x", t)
	}
	if t >= 0x60000000 {
		return fmt.Sprintf("OS-specific segment: 0x%x", t)
	}
	return fmt.Sprintf("invalid segment type 0x%x", t)
}

type ProgramHeaderFlags uint32

func (t ProgramHeaderFlags) String() string {
	var readStatus, writeStatus, execStatus string
	if (t & 1) == 0 {
		execStatus = "not "
	}
	if (t & 2) == 0 {
		writeStatus = "not "
	}
	if (t & 4) == 0 {
		readStatus = "not "
	}
	return fmt.Sprintf("%sreadable, %swritable, %sexecutable", readStatus,
		writeStatus, execStatus)
}

type SectionHeaderType uint32

func (ht SectionHeaderType) String() string {
	// Like ProgramHeaderType, prevent printf recursion.
	t := uint32(ht)
	switch t {
	case NullSection:
		return "unused section"
	case BitsSection:
		return "bits section"
	case SymbolTableSection:
		return "symbol table"
	case StringTableSection:
		return "string table"
	case RelaSection:
		return "relocation entries with addends"
	case HashSection:
		return "symbol hash table"
	case DynamicLinkingTableSection:
		return "dynamic linking table"
	case NoteSection:
		return "note section"
	case UninitializedSection:
		return "uninitialized memory"
	case RelSection:
		return "relocation entries"
	case ReservedSection:
		return "reserved section"
	case DynamicLoaderSymbolSection:
		return "dynamic loader symbol table"
	}
	if t >= 0x80000000 {
		return fmt.Sprintf("invalid section type: 0x%x", t)
	}
	if t >= 0x70000000 {
		return fmt.Sprintf("processor-specific section type: 0x%x", t)
	}
	if t >= 0x60000000 {
		return fmt.Sprintf("OS-specific section type: 0x%x", t)
	}
	return fmt.Sprintf("invalid section type: 0x%x", t)
}

// Holds section flags for either class. 32-bit files only use the low half.
type SectionHeaderFlags uint64

func (f SectionHeaderFlags) Writable() bool {
	return (f & 1) != 0
}

func (f SectionHeaderFlags) Allocated() bool {
	return (f & 2) != 0
}

func (f SectionHeaderFlags) Executable() bool {
	return (f & 4) != 0
}

func (f SectionHeaderFlags) String() string {
	var writeStatus, allocStatus, execStatus string
	if !f.Writable() {
		writeStatus = "not "
	}
	if !f.Allocated() {
		allocStatus = "not "
	}
	if !f.Executable() {
		execStatus = "not "
	}
	return fmt.Sprintf("%swritable, %sallocated, %sexecutable", writeStatus,
		allocStatus, execStatus)
}

// The ELF file header. Addresses and offsets are widened to 64 bits so that
// one type covers both classes; in 32-bit files the upper halves are zero.
type ELFHeader struct {
	MagicNumber             uint32
	Is64Bit                 bool
	IsBigEndian             bool
	Version                 uint8
	ABI                     uint8
	ABIVersion              uint8
	Padding                 [7]uint8
	Type                    ELFFileType
	Machine                 MachineType
	ELFVersion              uint32
	EntryPC                 uint64
	ProgramHeaderStart      uint64
	SectionHeaderStart      uint64
	Flags                   uint32
	ThisSize                uint16
	ProgramHeaderEntrySize  uint16
	ProgramHeaderEntryCount uint16
	SectionHeaderEntrySize  uint16
	SectionHeaderEntryCount uint16
	// The index of the section containing section names (e_shstrndx).
	SectionNamesIndex uint16
}

// Returns true if the header starts with the "\x7fELF" signature. This is the
// only validity check; Parse doesn't enforce it.
func (h *ELFHeader) IsValid() bool {
	return h.MagicNumber == ELFMagic
}

func (h *ELFHeader) String() string {
	bits := 32
	if h.Is64Bit {
		bits = 64
	}
	endianness := "little-endian"
	if h.IsBigEndian {
		endianness = "big-endian"
	}
	return fmt.Sprintf("%d-bit %s %s for %s", bits, endianness, h.Type,
		h.Machine)
}

// A single program (segment) header.
type ELFProgramHeader struct {
	Type            ProgramHeaderType
	Offset          uint64
	VirtualAddress  uint64
	PhysicalAddress uint64
	FileImageSize   uint64
	MemorySize      uint64
	Flags           ProgramHeaderFlags
	Alignment       uint64
}

func (h *ELFProgramHeader) String() string {
	return fmt.Sprintf("%s at address 0x%x (offset 0x%x in file). "+
		"%d bytes in memory, %d in the file. %s", h.Type, h.VirtualAddress,
		h.Offset, h.MemorySize, h.FileImageSize, h.Flags)
}

// A single section header as it appears in the section table. The name is
// only an offset into the section names table; see ELFSection.Name.
type ELFSectionHeader struct {
	NameOffset   uint32
	Type         SectionHeaderType
	Flags        SectionHeaderFlags
	Address      uint64
	Offset       uint64
	Size         uint64
	Link         uint32
	Info         uint32
	AddressAlign uint64
	EntrySize    uint64
}

// Returns true if the section takes up space in the file. Uninitialized
// (NOBITS) sections like .bss have a size but no content.
func (h *ELFSectionHeader) HasFileContent() bool {
	return h.Type != UninitializedSection
}

func (h *ELFSectionHeader) String() string {
	return fmt.Sprintf("%s at address 0x%x (offset 0x%x in file). "+
		"%d bytes. %s", h.Type, h.Address, h.Offset, h.Size, h.Flags)
}

// A section header together with its resolved name and a copy of its
// content.
type ELFSection struct {
	Name    string
	Header  ELFSectionHeader
	Payload []byte
	// Set if the name couldn't be read from the section names table, in
	// which case Name is PlaceholderName. Wraps ErrMalformedStringTable.
	NameError error
}

func (s *ELFSection) String() string {
	return fmt.Sprintf("%s: %s", s.Name, &s.Header)
}
