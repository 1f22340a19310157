package nitfviz

import (
	"github.com/holmesv3/nitf-viz/internal/assemble"
	"github.com/holmesv3/nitf-viz/internal/parser"
	"github.com/holmesv3/nitf-viz/internal/projection"
	"github.com/holmesv3/nitf-viz/internal/sicd"
)

// Error types returned by this package, one per pipeline stage.
type (
	// FormatError reports a malformed or unsupported NITF container.
	FormatError = parser.FormatError

	// SegmentError names the segment a FormatError was found in.
	SegmentError = parser.ErrSegment

	// MetadataError reports a SICD descriptor that is present but unusable.
	MetadataError = sicd.MetadataError

	// AssemblyError reports complex segments that do not tile the image.
	AssemblyError = assemble.AssemblyError

	// DecodeError reports segment sample data that cannot be decoded.
	DecodeError = assemble.DecodeError

	// ProjectionError reports degenerate sensor geometry.
	ProjectionError = projection.ProjectionError
)

// FormatError kinds, for use with errors.Is.
var (
	ErrNotNITF      = parser.ErrNotNITF
	ErrTruncated    = parser.ErrTruncated
	ErrLength       = parser.ErrLength
	ErrUnsupported  = parser.ErrUnsupported
	ErrInvalidField = parser.ErrInvalidField
)
