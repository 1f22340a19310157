// Package passthrough renders individual image segments directly, without
// SICD metadata: mono, RGB and colour-indexed segments are decoded to
// display bytes and thumbnailed, and complex segments go through the PEDF
// remap on their own.
package passthrough

import (
	"fmt"

	"github.com/holmesv3/nitf-viz/internal/assemble"
	"github.com/holmesv3/nitf-viz/internal/parser"
	"github.com/holmesv3/nitf-viz/internal/raster"
	"github.com/holmesv3/nitf-viz/internal/remap"
	"github.com/holmesv3/nitf-viz/internal/sicd"
)

// Render returns the display raster of one image segment.
//
// Mono, RGB and RGB/LUT segments are thumbnailed to roughly p.Size² pixels
// keeping their aspect ratio, then brightness and contrast are applied.
// Complex segments are remapped to exactly p.Size × p.Size.
func Render(seg *parser.ImageSegment, p remap.Params) (*raster.Raster, error) {
	if seg == nil {
		return nil, fmt.Errorf("image segment is nil")
	}
	if p.Size <= 0 {
		return nil, fmt.Errorf("output size %d must be positive", p.Size)
	}

	var full *raster.Raster
	var err error
	switch seg.Format {
	case parser.PixelFormatMono:
		full, err = decodeMono(seg)
	case parser.PixelFormatRGB:
		full, err = decodeRGB(seg)
	case parser.PixelFormatRGBLUT:
		full, err = decodeLUT(seg)
	case parser.PixelFormatComplex:
		return renderComplex(seg, p)
	default:
		return nil, &assemble.DecodeError{Segment: seg.Index, Reason: "pixel format " + seg.Format.String() + " cannot be displayed"}
	}
	if err != nil {
		return nil, err
	}

	out := Thumbnail(full, p.Size)
	remap.Adjust(out, p.Brightness, p.Contrast)
	return out, nil
}

func renderComplex(seg *parser.ImageSegment, p remap.Params) (*raster.Raster, error) {
	pt := assemble.InferPixelType(seg)
	if pt == "" {
		return nil, &assemble.DecodeError{Segment: seg.Index,
			Reason: fmt.Sprintf("%d-bit %s band pair is not a complex pixel type", seg.BitsPerPixel, seg.ValueType)}
	}
	samples, err := assemble.DecodeSegment(seg, &sicd.Metadata{PixelType: pt})
	if err != nil {
		return nil, err
	}
	return remap.Remap(&assemble.Image{Rows: seg.Rows, Cols: seg.Cols, Data: samples}, p)
}
