package elfdoc

// This file contains code for reading string tables and resolving section
// names.

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// The name given to sections whose name is empty or can't be read.
const PlaceholderName = "NULL"

// Returns the string starting at the offset in data, up to but not including
// the next null byte. A string running to the end of data without a null
// terminator is returned as-is. Returns an error if the offset is past the
// end of data. This can be used to extract strings from string table content.
func ReadStringAtOffset(offset uint32, data []byte) ([]byte, error) {
	if uint64(offset) >= uint64(len(data)) {
		return nil, fmt.Errorf("Invalid string offset: %d (table is %d bytes)",
			offset, len(data))
	}
	s := data[offset:]
	end := bytes.IndexByte(s, 0)
	if end < 0 {
		return s, nil
	}
	return s[:end], nil
}

// Returns the index of the section containing section names, or -1 if the
// file doesn't have one. An index past the end of the section table is an
// error wrapping ErrMalformedHeader.
func findSectionNamesTable(h *ELFHeader, headers []ELFSectionHeader,
	payloads [][]byte) (int, error) {
	index := int(h.SectionNamesIndex)
	if (len(headers) == 0) && (index == UndefinedSectionIndex) {
		return -1, nil
	}
	if (len(headers) > 0) && (index == ExtendedSectionIndex) {
		// With very large section tables the real index lives in the first
		// section header's link field.
		index = int(headers[0].Link)
	}
	if index == UndefinedSectionIndex {
		return scanForSectionNamesTable(headers, payloads), nil
	}
	if index >= len(headers) {
		return -1, fmt.Errorf("%w: section names table index %d, but only %d "+
			"sections", ErrMalformedHeader, index, len(headers))
	}
	return index, nil
}

// Used when the header doesn't name a section names table. Prefers a string
// table that names itself ".shstrtab", falling back to the first string
// table. Returns -1 if there are no string tables.
func scanForSectionNamesTable(headers []ELFSectionHeader,
	payloads [][]byte) int {
	first := -1
	for i := range headers {
		if headers[i].Type != StringTableSection {
			continue
		}
		if first < 0 {
			first = i
		}
		name, e := ReadStringAtOffset(headers[i].NameOffset, payloads[i])
		if (e == nil) && (string(name) == ".shstrtab") {
			return i
		}
	}
	return first
}

// Looks up a single section name in the section names table content.
func resolveName(offset uint32, table []byte) (string, error) {
	name, e := ReadStringAtOffset(offset, table)
	if e != nil {
		return PlaceholderName, e
	}
	if !utf8.Valid(name) {
		return PlaceholderName, fmt.Errorf("Name at offset %d isn't valid "+
			"UTF-8", offset)
	}
	if len(name) == 0 {
		return PlaceholderName, nil
	}
	return string(name), nil
}

// Pairs each section header with its payload and its name from the section
// names table, returning the sections in table order. A name that can't be
// read doesn't stop the others from resolving: that section gets
// PlaceholderName and a NameError wrapping ErrMalformedStringTable. The only
// error returned is for a section names table index that is out of range.
func ResolveSectionNames(h *ELFHeader, headers []ELFSectionHeader,
	payloads [][]byte) ([]ELFSection, error) {
	if len(payloads) != len(headers) {
		return nil, fmt.Errorf("Got %d section payloads for %d section headers",
			len(payloads), len(headers))
	}
	tableIndex, e := findSectionNamesTable(h, headers, payloads)
	if e != nil {
		return nil, e
	}
	sections := make([]ELFSection, len(headers))
	for i := range headers {
		sections[i].Header = headers[i]
		sections[i].Payload = payloads[i]
		if tableIndex < 0 {
			sections[i].Name = PlaceholderName
			sections[i].NameError = fmt.Errorf("%w: section %d: the file has "+
				"no section names table", ErrMalformedStringTable, i)
			continue
		}
		name, e := resolveName(headers[i].NameOffset, payloads[tableIndex])
		sections[i].Name = name
		if e != nil {
			sections[i].NameError = fmt.Errorf("%w: section %d: %s",
				ErrMalformedStringTable, i, e)
		}
	}
	return sections, nil
}
