package elfdoc

import (
	"debug/elf"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantsMatchDebugELF(t *testing.T) {
	assert.EqualValues(t, elf.ELFCLASS64, ELFClass64)
	assert.EqualValues(t, elf.ELFDATA2MSB, ELFDataBigEndian)
	assert.EqualValues(t, elf.ET_DYN, ELFTypeShared)
	assert.EqualValues(t, elf.EM_XTENSA, MachineTypeXtensa)
	assert.EqualValues(t, elf.EM_RISCV, MachineTypeRISCV)
	assert.EqualValues(t, elf.PT_PHDR, ProgramHeaderSegment)
	assert.EqualValues(t, elf.SHT_STRTAB, StringTableSection)
	assert.EqualValues(t, elf.SHT_NOBITS, UninitializedSection)
	assert.EqualValues(t, elf.SHN_XINDEX, ExtendedSectionIndex)
}

func TestTypeStrings(t *testing.T) {
	assert.Equal(t, "shared file", ELFFileType(ELFTypeShared).String())
	assert.Equal(t, "unknown ELF type: 9", ELFFileType(9).String())
	assert.Equal(t, "unknown machine type: 0x99", MachineType(0x99).String())
	assert.Equal(t, "OS-specific segment: 0x6474e550",
		ProgramHeaderType(0x6474e550).String())
	assert.Equal(t, "readable, not writable, executable",
		ProgramHeaderFlags(5).String())
	assert.Equal(t, "processor-specific section type: 0x70000003",
		SectionHeaderType(0x70000003).String())
	flags := SectionHeaderFlags(6)
	assert.True(t, flags.Allocated())
	assert.True(t, flags.Executable())
	assert.False(t, flags.Writable())
	assert.Equal(t, "not writable, allocated, executable", flags.String())
	s := ELFSection{Name: ".text", Header: ELFSectionHeader{Type: BitsSection,
		Address: 0x10, Offset: 0x20, Size: 4, Flags: flags}}
	assert.Equal(t, ".text: bits section at address 0x10 (offset 0x20 in "+
		"file). 4 bytes. not writable, allocated, executable", s.String())
}
