package sicd

import "fmt"

// MetadataError reports a SICD descriptor that is present but unusable:
// malformed XML, a root element other than SICD, or a missing or
// degenerate required field.
type MetadataError struct {
	Field  string // element path, e.g. "Grid/Row/UVectECF"; empty for XML syntax errors
	Reason string
	Err    error
}

func (e *MetadataError) Error() string {
	msg := "invalid SICD metadata"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

func missing(field string) *MetadataError {
	return &MetadataError{Field: field, Reason: "required element is missing"}
}

func invalid(field, format string, args ...any) *MetadataError {
	return &MetadataError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
