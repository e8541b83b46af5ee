package elfdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadStringAtOffset(t *testing.T) {
	buffer := []byte("\x00Hi there!\x00ASDFASDF")
	s, e := ReadStringAtOffset(0, buffer)
	if e != nil {
		t.Logf("Failed reading empty string: %s\n", e)
		t.FailNow()
	}
	if string(s) != "" {
		t.Logf("Read wrong string, expected \"\", got \"%s\"\n", string(s))
		t.FailNow()
	}
	s, e = ReadStringAtOffset(999, buffer)
	if e == nil {
		t.Logf("Didn't get expected error for reading invalid offset.\n")
		t.FailNow()
	}
	t.Logf("Got expected error for reading invalid offset: %s\n", e)
	s, e = ReadStringAtOffset(15, buffer)
	if e != nil {
		t.Logf("Failed reading unterminated string: %s\n", e)
		t.FailNow()
	}
	if string(s) != "ASDF" {
		t.Logf("Read incorrect unterminated string: \"%s\"\n", string(s))
		t.FailNow()
	}
	s, e = ReadStringAtOffset(1, buffer)
	if e != nil {
		t.Logf("Failed reading valid string: %s\n", e)
		t.FailNow()
	}
	if string(s) != "Hi there!" {
		t.Logf("Read incorrect valid string: \"%s\"\n", string(s))
		t.FailNow()
	}
}

// Returns section headers using the given name offsets, with the names table
// at index 1.
func namedSections(offsets ...uint32) ([]ELFSectionHeader, [][]byte) {
	table := []byte("\x00.text\x00.data\x00")
	headers := []ELFSectionHeader{
		{NameOffset: 0},
		{NameOffset: 0, Type: StringTableSection},
	}
	payloads := [][]byte{{}, table}
	for _, offset := range offsets {
		headers = append(headers, ELFSectionHeader{NameOffset: offset,
			Type: BitsSection})
		payloads = append(payloads, []byte{})
	}
	return headers, payloads
}

func TestResolveSectionNames(t *testing.T) {
	headers, payloads := namedSections(1, 7, 12, 6, 13, 0xffffffff)
	h := ELFHeader{SectionNamesIndex: 1}
	sections, e := ResolveSectionNames(&h, headers, payloads)
	require.NoError(t, e)
	require.Len(t, sections, 8)
	tests := []struct {
		index   int
		name    string
		nameErr bool
	}{
		{0, PlaceholderName, false},
		{1, PlaceholderName, false},
		{2, ".text", false},
		{3, ".data", false},
		// Offsets pointing at a terminator are empty names.
		{4, PlaceholderName, false},
		{5, PlaceholderName, false},
		// Offsets past the end of the table.
		{6, PlaceholderName, true},
		{7, PlaceholderName, true},
	}
	for _, tt := range tests {
		s := sections[tt.index]
		assert.Equal(t, tt.name, s.Name, "section %d", tt.index)
		assert.Equal(t, headers[tt.index], s.Header)
		if tt.nameErr {
			assert.ErrorIs(t, s.NameError, ErrMalformedStringTable)
			t.Logf("Got expected name error: %s\n", s.NameError)
		} else {
			assert.NoError(t, s.NameError, "section %d", tt.index)
		}
	}
}

func TestResolveSectionNamesInvalidText(t *testing.T) {
	headers := []ELFSectionHeader{
		{NameOffset: 1, Type: StringTableSection},
		{NameOffset: 5},
	}
	payloads := [][]byte{[]byte("\x00ok\x00\xff\xfe\x00"), {}}
	h := ELFHeader{SectionNamesIndex: 0}
	sections, e := ResolveSectionNames(&h, headers, payloads)
	require.NoError(t, e)
	assert.Equal(t, "ok", sections[0].Name)
	assert.Equal(t, PlaceholderName, sections[1].Name)
	assert.ErrorIs(t, sections[1].NameError, ErrMalformedStringTable)
}

func TestResolveSectionNamesBadIndex(t *testing.T) {
	headers, payloads := namedSections(1)
	h := ELFHeader{SectionNamesIndex: 3}
	_, e := ResolveSectionNames(&h, headers, payloads)
	assert.ErrorIs(t, e, ErrMalformedHeader)

	// No sections, but a names table index anyway.
	_, e = ResolveSectionNames(&h, nil, nil)
	assert.ErrorIs(t, e, ErrMalformedHeader)

	h.SectionNamesIndex = UndefinedSectionIndex
	sections, e := ResolveSectionNames(&h, nil, nil)
	require.NoError(t, e)
	assert.Empty(t, sections)

	_, e = ResolveSectionNames(&h, headers, payloads[:1])
	assert.Error(t, e)
}

func TestResolveSectionNamesExtendedIndex(t *testing.T) {
	headers, payloads := namedSections(1, 7)
	headers[0].Link = 1
	h := ELFHeader{SectionNamesIndex: ExtendedSectionIndex}
	sections, e := ResolveSectionNames(&h, headers, payloads)
	require.NoError(t, e)
	assert.Equal(t, ".text", sections[2].Name)
	assert.Equal(t, ".data", sections[3].Name)

	headers[0].Link = 40
	_, e = ResolveSectionNames(&h, headers, payloads)
	assert.ErrorIs(t, e, ErrMalformedHeader)
}

func TestResolveSectionNamesScan(t *testing.T) {
	names := []byte("\x00.strtab\x00.shstrtab\x00")
	headers := []ELFSectionHeader{
		{},
		{NameOffset: 1, Type: StringTableSection},
		{NameOffset: 9, Type: StringTableSection},
	}
	// The first string table doesn't name itself .shstrtab, so the scan
	// should pick the second.
	payloads := [][]byte{{}, []byte("\x00foo\x00"), names}
	h := ELFHeader{SectionNamesIndex: UndefinedSectionIndex}
	sections, e := ResolveSectionNames(&h, headers, payloads)
	require.NoError(t, e)
	assert.Equal(t, PlaceholderName, sections[0].Name)
	assert.Equal(t, ".strtab", sections[1].Name)
	assert.Equal(t, ".shstrtab", sections[2].Name)

	// Without any string tables every name is a placeholder.
	headers = []ELFSectionHeader{{}, {NameOffset: 1, Type: BitsSection}}
	sections, e = ResolveSectionNames(&h, headers, [][]byte{{}, {}})
	require.NoError(t, e)
	for _, s := range sections {
		assert.Equal(t, PlaceholderName, s.Name)
		assert.ErrorIs(t, s.NameError, ErrMalformedStringTable)
	}
}
