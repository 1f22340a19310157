package parser

import (
	"strconv"
	"strings"
)

// fieldReader walks a run of fixed-width NITF fields.
//
// NITF headers are sequences of fixed-length ASCII fields (BCS-A for text,
// BCS-N for numbers) whose presence can depend on earlier values, so they
// are read front to back with a running offset.
//
// base is the absolute file offset of data[0]; it is only used for error
// reporting.
type fieldReader struct {
	data   []byte
	offset int
	base   int
}

func newFieldReader(data []byte, base int) *fieldReader {
	return &fieldReader{data: data, base: base}
}

// pos returns the absolute file offset of the next unread byte.
func (r *fieldReader) pos() int {
	return r.base + r.offset
}

// remaining returns the number of unread bytes.
func (r *fieldReader) remaining() int {
	return len(r.data) - r.offset
}

// bytes returns the next n bytes without copying.
func (r *fieldReader) bytes(field string, n int) ([]byte, error) {
	if n < 0 || r.offset+n > len(r.data) {
		return nil, &FormatError{
			Field:  field,
			Offset: r.pos(),
			Reason: "field extends past end of header (" + strconv.Itoa(n) + " bytes wanted, " + strconv.Itoa(r.remaining()) + " left)",
			Err:    ErrTruncated,
		}
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// str reads an n-byte BCS-A field with trailing padding removed.
func (r *fieldReader) str(field string, n int) (string, error) {
	b, err := r.bytes(field, n)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), " \x00"), nil
}

// int reads an n-byte BCS-N field. Blank or non-numeric values are errors.
func (r *fieldReader) int(field string, n int) (int, error) {
	start := r.pos()
	s, err := r.str(field, n)
	if err != nil {
		return 0, err
	}
	v, convErr := strconv.Atoi(strings.TrimSpace(s))
	if convErr != nil {
		return 0, &FormatError{
			Field:  field,
			Offset: start,
			Reason: "expected a number, got " + strconv.Quote(s),
			Err:    ErrInvalidField,
		}
	}
	if v < 0 {
		return 0, &FormatError{
			Field:  field,
			Offset: start,
			Reason: "negative value " + s,
			Err:    ErrInvalidField,
		}
	}
	return v, nil
}

// optionalInt reads an n-byte BCS-N field where an all-blank value means zero.
func (r *fieldReader) optionalInt(field string, n int) (int, error) {
	start := r.pos()
	b, err := r.bytes(field, n)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return 0, nil
	}
	v, convErr := strconv.Atoi(s)
	if convErr != nil || v < 0 {
		return 0, r.invalid(field, start, ErrInvalidField, "expected a number, got "+strconv.Quote(string(b)))
	}
	return v, nil
}

// skip advances past n bytes.
func (r *fieldReader) skip(field string, n int) error {
	_, err := r.bytes(field, n)
	return err
}

// invalid reports a bad value for a field that started at the given absolute offset.
func (r *fieldReader) invalid(field string, at int, kind error, reason string) error {
	return &FormatError{Field: field, Offset: at, Reason: reason, Err: kind}
}

// securityGroupLength is the size of the NITF 2.1 security field group
// (CLAS through CTLN) shared by the file header and every subheader.
//
// Reference: MIL-STD-2500C Table A-1, FSCLAS..FSCTLN.
const securityGroupLength = 167

// readSecurity reads a security group and returns its classification code.
func (r *fieldReader) readSecurity(prefix string) (string, error) {
	group, err := r.bytes(prefix+"CLAS", securityGroupLength)
	if err != nil {
		return "", err
	}
	class := string(group[0])
	switch class {
	case "U", "R", "C", "S", "T":
		return class, nil
	default:
		return "", r.invalid(prefix+"CLAS", r.pos()-securityGroupLength, ErrInvalidField,
			"unknown classification "+strconv.Quote(class))
	}
}
