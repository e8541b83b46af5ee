package elfdoc

import (
	"errors"
)

// Parse and its helpers wrap these with fmt.Errorf, so callers should test
// for them using errors.Is.
var (
	// The buffer is shorter than a structure being decoded, or a table or
	// payload range computed from the header runs past the end of the buffer.
	ErrTruncatedInput = errors.New("truncated input")
	// Header values are present but inconsistent with each other, e.g. a
	// section name table index past the end of the section table.
	ErrMalformedHeader = errors.New("malformed header")
	// A section name couldn't be read from the section name table. Parse
	// never returns this; it's attached to the affected ELFSection instead.
	ErrMalformedStringTable = errors.New("malformed string table")
)
