// Package elftest builds small synthetic ELF images for tests. It writes just
// enough structure for a reader to walk: the file header, a program header
// table, section content, a section names table, and a section header table.
package elftest

import (
	"bytes"
	"encoding/binary"
)

// Outputs the toWrite structure, as binary, at the given offset in the
// destination buffer. May append more data at the end of the destination
// buffer, so this should be used like append(...). Ex:
//     data = []byte("Hi there")
//     toWrite = []byte("!!!")
//     data, e := WriteAtOffset(data, uint64(len(data)), binary.LittleEndian,
//         toWrite)
//
// If the write fails, the original buffer will be returned along with a
// non-nil error.
func WriteAtOffset(destination []byte, offset uint64,
	endianness binary.ByteOrder, toWrite interface{}) ([]byte, error) {
	var b bytes.Buffer
	e := binary.Write(&b, endianness, toWrite)
	if e != nil {
		return destination, e
	}
	neededLength := offset + uint64(b.Len())
	if neededLength > uint64(len(destination)) {
		toAppend := neededLength - uint64(len(destination))
		destination = append(destination, make([]byte, toAppend)...)
	}
	copy(destination[offset:], b.Bytes())
	return destination, nil
}

// A program header to write. Only the fields are written; no segment content
// is generated.
type Program struct {
	Type            uint32
	Flags           uint32
	Offset          uint64
	VirtualAddress  uint64
	PhysicalAddress uint64
	FileSize        uint64
	MemorySize      uint64
	Align           uint64
}

// A section to write. Data is placed in the file and the header's offset and
// size point at it, unless Type is 8 (NOBITS), in which case Size is used and
// nothing is written.
type Section struct {
	Name  string
	Type  uint32
	Flags uint64
	Addr  uint64
	Link  uint32
	Info  uint32
	Data  []byte
	Size  uint64
	// If set, NameOffset is written instead of the offset of Name in the
	// generated section names table.
	UseNameOffset bool
	NameOffset    uint32
}

// Describes the file to build. A null section is always written first and a
// ".shstrtab" section last, unless NoNamesTable is set.
type Image struct {
	Class64      bool
	BigEndian    bool
	BadMagic     bool
	Type         uint16
	Machine      uint16
	Entry        uint64
	Flags        uint32
	Programs     []Program
	Sections     []Section
	NoNamesTable bool
	// If set, written as the section names table index instead of the index
	// of the generated ".shstrtab".
	UseNamesIndex bool
	NamesIndex    uint16
}

// Offsets of the structures written by Build, for tests that patch the image
// afterwards.
type Layout struct {
	HeaderSize         uint64
	ProgramHeaderStart uint64
	ProgramEntrySize   uint64
	SectionHeaderStart uint64
	SectionEntrySize   uint64
	// Includes the null section and ".shstrtab".
	SectionCount int
	NamesIndex   int
}

// Byte order for the image.
func (img Image) Order() binary.ByteOrder {
	if img.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

type writer struct {
	buf   []byte
	order binary.ByteOrder
}

func (w *writer) put(offset uint64, v interface{}) {
	var e error
	w.buf, e = WriteAtOffset(w.buf, offset, w.order, v)
	if e != nil {
		panic(e)
	}
}

// Writes an address-sized value: 4 bytes for 32-bit images, 8 for 64-bit.
func (w *writer) putAddr(offset uint64, v uint64, class64 bool) {
	if class64 {
		w.put(offset, v)
		return
	}
	w.put(offset, uint32(v))
}

// Encodes the image.
func (img Image) Build() ([]byte, Layout) {
	w := &writer{order: img.Order()}
	var l Layout
	l.HeaderSize, l.ProgramEntrySize, l.SectionEntrySize = 0x34, 0x20, 0x28
	if img.Class64 {
		l.HeaderSize, l.ProgramEntrySize, l.SectionEntrySize = 0x40, 0x38, 0x40
	}

	sections := append([]Section{{}}, img.Sections...)
	if !img.NoNamesTable {
		sections = append(sections, Section{Name: ".shstrtab", Type: 3})
	}
	names := []byte{0}
	nameOffsets := make([]uint32, len(sections))
	for i := 1; i < len(sections); i++ {
		nameOffsets[i] = uint32(len(names))
		names = append(names, sections[i].Name...)
		names = append(names, 0)
	}
	l.SectionCount = len(sections)
	if !img.NoNamesTable {
		l.NamesIndex = len(sections) - 1
		sections[l.NamesIndex].Data = names
	}

	if len(img.Programs) > 0 {
		l.ProgramHeaderStart = l.HeaderSize
	}
	cursor := l.HeaderSize + uint64(len(img.Programs))*l.ProgramEntrySize
	offsets := make([]uint64, len(sections))
	sizes := make([]uint64, len(sections))
	for i := 1; i < len(sections); i++ {
		offsets[i] = cursor
		if sections[i].Type == 8 {
			sizes[i] = sections[i].Size
			continue
		}
		sizes[i] = uint64(len(sections[i].Data))
		if sizes[i] != 0 {
			w.put(cursor, sections[i].Data)
		}
		cursor += sizes[i]
	}
	for (cursor % 8) != 0 {
		cursor++
	}
	l.SectionHeaderStart = cursor

	magic := []byte{0x7f, 'E', 'L', 'F'}
	if img.BadMagic {
		magic = []byte{0x7f, 'E', 'L', 'X'}
	}
	class, data := byte(1), byte(1)
	if img.Class64 {
		class = 2
	}
	if img.BigEndian {
		data = 2
	}
	w.put(0, magic)
	w.put(4, []byte{class, data, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	w.put(0x10, img.Type)
	w.put(0x12, img.Machine)
	w.put(0x14, uint32(1))
	namesIndex := uint16(l.NamesIndex)
	if img.UseNamesIndex {
		namesIndex = img.NamesIndex
	}
	if img.Class64 {
		w.put(0x18, img.Entry)
		w.put(0x20, l.ProgramHeaderStart)
		w.put(0x28, l.SectionHeaderStart)
		w.put(0x30, img.Flags)
		w.put(0x34, []uint16{uint16(l.HeaderSize), uint16(l.ProgramEntrySize),
			uint16(len(img.Programs)), uint16(l.SectionEntrySize),
			uint16(len(sections)), namesIndex})
	} else {
		w.put(0x18, []uint32{uint32(img.Entry), uint32(l.ProgramHeaderStart),
			uint32(l.SectionHeaderStart), img.Flags})
		w.put(0x28, []uint16{uint16(l.HeaderSize), uint16(l.ProgramEntrySize),
			uint16(len(img.Programs)), uint16(l.SectionEntrySize),
			uint16(len(sections)), namesIndex})
	}

	for i, p := range img.Programs {
		base := l.ProgramHeaderStart + uint64(i)*l.ProgramEntrySize
		if img.Class64 {
			w.put(base, []uint32{p.Type, p.Flags})
			w.put(base+8, []uint64{p.Offset, p.VirtualAddress,
				p.PhysicalAddress, p.FileSize, p.MemorySize, p.Align})
			continue
		}
		w.put(base, []uint32{p.Type, uint32(p.Offset),
			uint32(p.VirtualAddress), uint32(p.PhysicalAddress),
			uint32(p.FileSize), uint32(p.MemorySize), p.Flags,
			uint32(p.Align)})
	}

	for i, s := range sections {
		base := l.SectionHeaderStart + uint64(i)*l.SectionEntrySize
		nameOffset := nameOffsets[i]
		if s.UseNameOffset {
			nameOffset = s.NameOffset
		}
		w.put(base, []uint32{nameOffset, s.Type})
		c := img.Class64
		step := uint64(4)
		if c {
			step = 8
		}
		w.putAddr(base+8, s.Flags, c)
		w.putAddr(base+8+step, s.Addr, c)
		w.putAddr(base+8+2*step, offsets[i], c)
		w.putAddr(base+8+3*step, sizes[i], c)
		w.put(base+8+4*step, []uint32{s.Link, s.Info})
		w.putAddr(base+16+4*step, 1, c)
		w.putAddr(base+16+5*step, 0, c)
	}
	return w.buf, l
}
