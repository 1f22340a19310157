package assemble

import "fmt"

// AssemblyError reports complex segments that cannot form one image plane:
// none present, mixed encodings, or locations that leave a gap, overlap, or
// fall outside the declared extent.
type AssemblyError struct {
	Reason string
}

func (e *AssemblyError) Error() string {
	return "cannot assemble complex image: " + e.Reason
}

func assemblyError(format string, args ...any) *AssemblyError {
	return &AssemblyError{Reason: fmt.Sprintf(format, args...)}
}

// DecodeError reports sample data in one image segment that cannot be decoded.
type DecodeError struct {
	Segment int // image segment index in the file
	Reason  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("image segment %d: cannot decode samples: %s", e.Segment, e.Reason)
}

func decodeError(segment int, format string, args ...any) *DecodeError {
	return &DecodeError{Segment: segment, Reason: fmt.Sprintf(format, args...)}
}
