package parser

import (
	"errors"
	"fmt"
)

// Error kinds carried by FormatError. Use errors.Is to tell them apart.
var (
	// ErrNotNITF indicates the file does not start with a NITF/NSIF identifier.
	ErrNotNITF = errors.New("not a NITF file")

	// ErrTruncated indicates a field or segment extends past the available bytes.
	ErrTruncated = errors.New("truncated data")

	// ErrLength indicates a declared length disagrees with the bytes actually present.
	ErrLength = errors.New("inconsistent length")

	// ErrUnsupported indicates a valid but unsupported version, segment type or encoding.
	ErrUnsupported = errors.New("unsupported")

	// ErrInvalidField indicates a field value that violates the format rules.
	ErrInvalidField = errors.New("invalid field")
)

// FormatError reports a malformed or unsupported NITF container.
//
// Offset is the absolute byte offset of the offending field within the file,
// or -1 when the problem is not tied to a single field.
type FormatError struct {
	Field  string
	Offset int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	kind := "invalid NITF"
	if e.Err != nil {
		kind = e.Err.Error()
	}
	switch {
	case e.Field != "" && e.Offset >= 0:
		return fmt.Sprintf("nitf: %s: field %s at byte %d: %s", kind, e.Field, e.Offset, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("nitf: %s: field %s: %s", kind, e.Field, e.Reason)
	default:
		return fmt.Sprintf("nitf: %s: %s", kind, e.Reason)
	}
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// newFormatError builds a FormatError not tied to a byte offset.
func newFormatError(kind error, field, format string, args ...any) *FormatError {
	return &FormatError{
		Field:  field,
		Offset: -1,
		Reason: fmt.Sprintf(format, args...),
		Err:    kind,
	}
}

// ErrSegment wraps an error with the segment it was found in.
type ErrSegment struct {
	Kind  string // "image", "data extension"
	Index int
	Err   error
}

func (e *ErrSegment) Error() string {
	return fmt.Sprintf("%s segment %d: %v", e.Kind, e.Index, e.Err)
}

func (e *ErrSegment) Unwrap() error {
	return e.Err
}
