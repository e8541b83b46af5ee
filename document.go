package elfdoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// A fully decoded ELF file. Every section name has been resolved and every
// section's content copied by the time Parse returns, and nothing changes
// afterwards, so a document can be shared freely between goroutines.
type ELFDocument struct {
	header   ELFHeader
	programs []ELFProgramHeader
	sections []ELFSection
	raw      []byte
}

type parseOptions struct {
	logger logrus.FieldLogger
}

// Customizes the behavior of Parse.
type ParseOption func(*parseOptions)

// Causes Parse to log its progress and any section names it couldn't resolve
// to the given logger. By default nothing is logged.
func WithLogger(logger logrus.FieldLogger) ParseOption {
	return func(o *parseOptions) {
		o.logger = logger
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Parses a complete ELF file held in raw. An invalid magic number is not an
// error; check IsValid on the result. Returns an error wrapping
// ErrTruncatedInput or ErrMalformedHeader if any table or section lies
// outside of raw or the header is inconsistent. The returned document keeps
// a reference to raw, but section payloads are independent copies.
func Parse(raw []byte, options ...ParseOption) (*ELFDocument, error) {
	o := parseOptions{}
	for _, option := range options {
		option(&o)
	}
	if o.logger == nil {
		o.logger = discardLogger()
	}
	header, e := DecodeHeader(raw)
	if e != nil {
		return nil, fmt.Errorf("Failed reading ELF header: %w", e)
	}
	log := o.logger.WithFields(logrus.Fields{
		"class_64":   header.Is64Bit,
		"big_endian": header.IsBigEndian,
		"machine":    header.Machine.String(),
	})
	if !header.IsValid() {
		log.Debugf("Bad ELF signature: 0x%08x", header.MagicNumber)
	}
	programs, e := DecodeProgramHeaders(raw, &header)
	if e != nil {
		return nil, fmt.Errorf("Failed reading program header table: %w", e)
	}
	sectionHeaders, e := DecodeSectionHeaders(raw, &header)
	if e != nil {
		return nil, fmt.Errorf("Failed reading section header table: %w", e)
	}
	payloads, e := CopySectionPayloads(raw, sectionHeaders)
	if e != nil {
		return nil, fmt.Errorf("Failed reading section content: %w", e)
	}
	sections, e := ResolveSectionNames(&header, sectionHeaders, payloads)
	if e != nil {
		return nil, fmt.Errorf("Failed resolving section names: %w", e)
	}
	for i := range sections {
		if sections[i].NameError != nil {
			log.WithField("section", i).Warn(sections[i].NameError)
		}
	}
	log.Debugf("Parsed %d program headers and %d sections", len(programs),
		len(sections))
	return &ELFDocument{
		header:   header,
		programs: programs,
		sections: sections,
		raw:      raw,
	}, nil
}

func (d *ELFDocument) Header() ELFHeader {
	return d.header
}

// Returns true if the file starts with the ELF signature.
func (d *ELFDocument) IsValid() bool {
	return d.header.IsValid()
}

// Returns the program headers in table order.
func (d *ELFDocument) Programs() []ELFProgramHeader {
	return append([]ELFProgramHeader(nil), d.programs...)
}

// Returns the sections in table order. The slice is a copy, but payloads are
// shared with the document and must not be modified.
func (d *ELFDocument) Sections() []ELFSection {
	return append([]ELFSection(nil), d.sections...)
}

// Returns the buffer the document was parsed from.
func (d *ELFDocument) Raw() []byte {
	return d.raw
}

func (d *ELFDocument) SectionCount() int {
	return len(d.sections)
}

func (d *ELFDocument) SegmentCount() int {
	return len(d.programs)
}

// Returns the section at the given index in the section table.
func (d *ELFDocument) Section(index int) (*ELFSection, error) {
	if (index < 0) || (index >= len(d.sections)) {
		return nil, fmt.Errorf("Invalid section index: %d", index)
	}
	s := d.sections[index]
	return &s, nil
}

// Returns the index of the first section with the given name, or -1 if there
// isn't one.
func (d *ELFDocument) SectionByName(name string) int {
	for i := range d.sections {
		if d.sections[i].Name == name {
			return i
		}
	}
	return -1
}

// Returns the name errors of every section whose name couldn't be resolved,
// in table order.
func (d *ELFDocument) NameErrors() []error {
	var toReturn []error
	for i := range d.sections {
		if d.sections[i].NameError != nil {
			toReturn = append(toReturn, d.sections[i].NameError)
		}
	}
	return toReturn
}

// Returns true if the section at the given index is a string table.
func (d *ELFDocument) IsStringTable(index int) bool {
	if (index < 0) || (index >= len(d.sections)) {
		return false
	}
	return d.sections[index].Header.Type == StringTableSection
}

// Returns a slice of strings contained in the string table at the given index.
// This *includes* the first zero-length string.
func (d *ELFDocument) StringTable(index int) ([]string, error) {
	if !d.IsStringTable(index) {
		return nil, fmt.Errorf("Section %d is not a string table", index)
	}
	content := d.sections[index].Payload
	if len(content) == 0 {
		return []string{}, nil
	}
	if content[len(content)-1] != 0 {
		return nil, fmt.Errorf("%w: string table %d wasn't null-terminated",
			ErrMalformedStringTable, index)
	}
	// Trim the last null byte from the table to avoid having an extra empty
	// string in the slice we return.
	return strings.Split(string(content[:len(content)-1]), "\x00"), nil
}

// Returns the number of program headers followed by the name of every
// section in table order, one per line.
func (d *ELFDocument) Summarize() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Programs: %d\n", len(d.programs))
	for i := range d.sections {
		b.WriteString(d.sections[i].Name)
		b.WriteByte('\n')
	}
	return b.String()
}
