package assemble

import (
	"cmp"
	"slices"

	"github.com/holmesv3/nitf-viz/internal/parallel"
	"github.com/holmesv3/nitf-viz/internal/parser"
	"github.com/holmesv3/nitf-viz/internal/sicd"
)

// Assemble builds the complex image described by md from the complex
// segments among segments.
//
// All contributing segments must share one sample encoding matching
// md.PixelType, and their locations must tile md.NumRows × md.NumCols with
// no gap or overlap. The plane is allocated only after the layout checks
// pass; segments are then decoded concurrently, each into its own
// sub-rectangle.
func Assemble(segments []*parser.ImageSegment, md *sicd.Metadata) (*Image, error) {
	if md == nil {
		return nil, assemblyError("no SICD metadata")
	}

	var complexSegs []*parser.ImageSegment
	for _, seg := range segments {
		if seg.Format == parser.PixelFormatComplex {
			complexSegs = append(complexSegs, seg)
		}
	}
	if len(complexSegs) == 0 {
		return nil, assemblyError("no complex image segments")
	}

	first := complexSegs[0]
	for _, seg := range complexSegs {
		if err := sameEncoding(first, seg); err != nil {
			return nil, err
		}
	}
	if pt := InferPixelType(first); pt != md.PixelType {
		return nil, assemblyError("segments hold %d-bit %s %s/%s samples but metadata declares %s",
			first.BitsPerPixel, first.ValueType, first.Bands[0].Subcategory, first.Bands[1].Subcategory, md.PixelType)
	}

	slices.SortStableFunc(complexSegs, func(a, b *parser.ImageSegment) int {
		return cmp.Or(cmp.Compare(a.Location.Row, b.Location.Row), cmp.Compare(a.Location.Col, b.Location.Col))
	})

	tiles, err := layout(complexSegs, md.NumRows, md.NumCols)
	if err != nil {
		return nil, err
	}

	img := NewImage(md.NumRows, md.NumCols)
	err = parallel.Each(len(tiles), func(i int) error {
		t := tiles[i]
		dst := img.Data[t.rect.Min.Y*img.Cols+t.rect.Min.X:]
		return decodeInto(dst, img.Cols, t.seg, md)
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// sameEncoding checks that two complex segments store samples identically.
func sameEncoding(a, b *parser.ImageSegment) error {
	switch {
	case a.ValueType != b.ValueType:
		return assemblyError("image segments %d and %d differ in PVTYPE (%s, %s)", a.Index, b.Index, a.ValueType, b.ValueType)
	case a.BitsPerPixel != b.BitsPerPixel:
		return assemblyError("image segments %d and %d differ in NBPP (%d, %d)", a.Index, b.Index, a.BitsPerPixel, b.BitsPerPixel)
	case a.Bands[0].Subcategory != b.Bands[0].Subcategory || a.Bands[1].Subcategory != b.Bands[1].Subcategory:
		return assemblyError("image segments %d and %d differ in band subcategories", a.Index, b.Index)
	case a.Mode != b.Mode:
		return assemblyError("image segments %d and %d differ in IMODE (%s, %s)", a.Index, b.Index, a.Mode, b.Mode)
	}
	return nil
}
