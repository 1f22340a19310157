package parser

import (
	"fmt"
)

// ValidateSegmentData checks that an image segment's declared dimensions fit
// the bytes it was given.
//
// blocks × pixels per block × bands × bytes per sample must not exceed the
// segment's declared data length (LI), nor the bytes remaining in the file
// from the segment's data offset. This runs before any sample is touched,
// so a file declaring an implausibly large image is rejected before anything
// is allocated for it.
func ValidateSegmentData(seg *ImageSegment, declared int, remaining int) error {
	need, ok := seg.ExpectedDataLength()
	if !ok {
		return newFormatError(ErrLength, "NROWS",
			"%dx%d image with %d band(s) of %d bits overflows", seg.Rows, seg.Cols, len(seg.Bands), seg.BitsPerPixel)
	}
	if need > uint64(remaining) {
		return newFormatError(ErrTruncated, "LI",
			"image needs %d bytes but only %d remain in the file", need, remaining)
	}
	if need > uint64(declared) {
		return newFormatError(ErrLength, "LI",
			"image needs %d bytes but its data length is %d", need, declared)
	}
	return nil
}

// ValidateSegment checks the sample encoding against the segment's pixel format.
func ValidateSegment(seg *ImageSegment) error {
	if seg == nil {
		return fmt.Errorf("segment is nil")
	}
	switch seg.Format {
	case PixelFormatMono, PixelFormatRGB:
		switch {
		case seg.ValueType == PixelValueInt && seg.BitsPerPixel <= 32:
		case seg.ValueType == PixelValueSigned && seg.BitsPerPixel <= 32:
		case seg.ValueType == PixelValueReal && (seg.BitsPerPixel == 32 || seg.BitsPerPixel == 64):
		default:
			return newFormatError(ErrUnsupported, "PVTYPE",
				"%s samples of type %s with %d bits", seg.Format, seg.ValueType, seg.BitsPerPixel)
		}
	case PixelFormatRGBLUT:
		if seg.BitsPerPixel != 8 {
			return newFormatError(ErrUnsupported, "NBPP", "%d-bit lookup table indices", seg.BitsPerPixel)
		}
	case PixelFormatComplex:
		switch {
		case seg.ValueType == PixelValueReal && seg.BitsPerPixel == 32:
		case seg.ValueType == PixelValueSigned && seg.BitsPerPixel == 16:
		case seg.ValueType == PixelValueInt && seg.BitsPerPixel == 8:
		default:
			return newFormatError(ErrUnsupported, "PVTYPE",
				"complex samples of type %s with %d bits", seg.ValueType, seg.BitsPerPixel)
		}
	default:
		return newFormatError(ErrUnsupported, "IREP", "pixel format %s", seg.Format)
	}
	return nil
}
