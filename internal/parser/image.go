package parser

import (
	"strconv"
	"strings"
)

// parseImageSubheader decodes an image subheader.
//
// sub holds exactly LISH bytes starting at absolute offset base. Every field
// must fit inside the declared subheader length, and the fields must consume
// all of it.
//
// Reference: MIL-STD-2500C Table A-3.
func parseImageSubheader(sub []byte, base int) (*ImageSegment, error) {
	r := newFieldReader(sub, base)
	seg := &ImageSegment{subheaderOffset: base}

	imAt := r.pos()
	im, err := r.str("IM", 2)
	if err != nil {
		return nil, err
	}
	if im != "IM" {
		return nil, r.invalid("IM", imAt, ErrInvalidField, "expected \"IM\", got "+strconv.Quote(im))
	}
	if seg.ID, err = r.str("IID1", 10); err != nil {
		return nil, err
	}
	if seg.DateTime, err = r.str("IDATIM", 14); err != nil {
		return nil, err
	}
	if err := r.skip("TGTID", 17); err != nil {
		return nil, err
	}
	if seg.Title, err = r.str("IID2", 80); err != nil {
		return nil, err
	}
	if _, err := r.readSecurity("IS"); err != nil {
		return nil, err
	}
	if err := r.skip("ENCRYP", 1); err != nil {
		return nil, err
	}
	if seg.Source, err = r.str("ISORCE", 42); err != nil {
		return nil, err
	}
	if seg.Rows, err = r.int("NROWS", 8); err != nil {
		return nil, err
	}
	if seg.Cols, err = r.int("NCOLS", 8); err != nil {
		return nil, err
	}
	pv, err := r.str("PVTYPE", 3)
	if err != nil {
		return nil, err
	}
	seg.ValueType = PixelValueType(strings.TrimSpace(pv))
	if seg.Representation, err = r.str("IREP", 8); err != nil {
		return nil, err
	}
	if seg.Category, err = r.str("ICAT", 8); err != nil {
		return nil, err
	}
	if seg.ActualBits, err = r.int("ABPP", 2); err != nil {
		return nil, err
	}
	if err := r.skip("PJUST", 1); err != nil {
		return nil, err
	}

	icords, err := r.bytes("ICORDS", 1)
	if err != nil {
		return nil, err
	}
	seg.Coordinates = strings.TrimSpace(string(icords))
	if seg.Coordinates != "" {
		igeoloAt := r.pos()
		igeolo, err := r.str("IGEOLO", 60)
		if err != nil {
			return nil, err
		}
		footprint, err := parseFootprint(seg.Coordinates, igeolo)
		if err != nil {
			return nil, r.invalid("IGEOLO", igeoloAt, ErrInvalidField, err.Error())
		}
		seg.Footprint = footprint
	}

	nicom, err := r.int("NICOM", 1)
	if err != nil {
		return nil, err
	}
	if err := r.skip("ICOM", 80*nicom); err != nil {
		return nil, err
	}

	icAt := r.pos()
	if seg.Compression, err = r.str("IC", 2); err != nil {
		return nil, err
	}
	switch seg.Compression {
	case "NC":
	case "NM":
		return nil, r.invalid("IC", icAt, ErrUnsupported, "masked images are not supported")
	default:
		return nil, r.invalid("IC", icAt, ErrUnsupported, "compression "+strconv.Quote(seg.Compression)+" is not supported")
	}

	nbands, err := r.int("NBANDS", 1)
	if err != nil {
		return nil, err
	}
	if nbands == 0 {
		if nbands, err = r.int("XBANDS", 5); err != nil {
			return nil, err
		}
	}
	if nbands == 0 {
		return nil, r.invalid("NBANDS", r.pos(), ErrInvalidField, "image has no bands")
	}
	seg.Bands = make([]Band, nbands)
	for i := range seg.Bands {
		if err := readBand(r, &seg.Bands[i]); err != nil {
			return nil, err
		}
	}

	if err := r.skip("ISYNC", 1); err != nil {
		return nil, err
	}
	modeAt := r.pos()
	mode, err := r.bytes("IMODE", 1)
	if err != nil {
		return nil, err
	}
	seg.Mode = ImageMode(mode[0])
	switch seg.Mode {
	case ModeBlock, ModePixel, ModeRow, ModeSequential:
	default:
		return nil, r.invalid("IMODE", modeAt, ErrUnsupported, "unknown image mode "+strconv.Quote(string(mode)))
	}
	if seg.BlocksPerRow, err = r.int("NBPR", 4); err != nil {
		return nil, err
	}
	if seg.BlocksPerCol, err = r.int("NBPC", 4); err != nil {
		return nil, err
	}
	if seg.PixelsPerBlockH, err = r.int("NPPBH", 4); err != nil {
		return nil, err
	}
	if seg.PixelsPerBlockV, err = r.int("NPPBV", 4); err != nil {
		return nil, err
	}
	nbppAt := r.pos()
	if seg.BitsPerPixel, err = r.int("NBPP", 2); err != nil {
		return nil, err
	}
	if seg.BitsPerPixel == 0 || seg.BitsPerPixel%8 != 0 {
		return nil, r.invalid("NBPP", nbppAt, ErrUnsupported, strconv.Itoa(seg.BitsPerPixel)+" bits per pixel is not byte aligned")
	}
	if seg.DisplayLevel, err = r.int("IDLVL", 3); err != nil {
		return nil, err
	}
	if seg.AttachmentLevel, err = r.int("IALVL", 3); err != nil {
		return nil, err
	}
	if seg.RelativeLocation, err = readLocation(r); err != nil {
		return nil, err
	}
	if err := r.skip("IMAG", 4); err != nil {
		return nil, err
	}

	// UDIDL/UDID and IXSHDL/IXSHD: tagged record extensions, skipped by length.
	for _, name := range []string{"UDIDL", "IXSHDL"} {
		n, err := r.int(name, 5)
		if err != nil {
			return nil, err
		}
		if err := r.skip(name+" data", n); err != nil {
			return nil, err
		}
	}

	if r.remaining() != 0 {
		return nil, r.invalid("LISH", base, ErrLength,
			"subheader declares "+strconv.Itoa(len(sub))+" bytes but fields occupy "+strconv.Itoa(r.offset))
	}

	if err := resolveBlocking(seg, r); err != nil {
		return nil, err
	}
	if seg.Format, err = classify(seg); err != nil {
		return nil, err
	}
	return seg, nil
}

// readBand reads one band group: IREPBAND, ISUBCAT, IFC, IMFLT, NLUTS, NELUT, LUTD.
func readBand(r *fieldReader, b *Band) error {
	var err error
	if b.Representation, err = r.str("IREPBAND", 2); err != nil {
		return err
	}
	b.Representation = strings.TrimSpace(b.Representation)
	if b.Subcategory, err = r.str("ISUBCAT", 6); err != nil {
		return err
	}
	b.Subcategory = strings.TrimSpace(b.Subcategory)
	if err := r.skip("IFC", 1+3); err != nil { // IFC, IMFLT
		return err
	}
	nluts, err := r.int("NLUTS", 1)
	if err != nil {
		return err
	}
	if nluts == 0 {
		return nil
	}
	nelut, err := r.int("NELUT", 5)
	if err != nil {
		return err
	}
	b.LUT = make([][]byte, nluts)
	for i := range b.LUT {
		if b.LUT[i], err = r.bytes("LUTD", nelut); err != nil {
			return err
		}
	}
	return nil
}

// readLocation reads ILOC, a 10 character RRRRRCCCCC field whose halves may be signed.
func readLocation(r *fieldReader) (Location, error) {
	at := r.pos()
	raw, err := r.str("ILOC", 10)
	if err != nil {
		return Location{}, err
	}
	if len(raw) != 10 {
		return Location{}, r.invalid("ILOC", at, ErrInvalidField, "expected 10 characters, got "+strconv.Quote(raw))
	}
	row, err1 := strconv.Atoi(strings.TrimSpace(raw[:5]))
	col, err2 := strconv.Atoi(strings.TrimSpace(raw[5:]))
	if err1 != nil || err2 != nil {
		return Location{}, r.invalid("ILOC", at, ErrInvalidField, "expected RRRRRCCCCC, got "+strconv.Quote(raw))
	}
	return Location{Row: row, Col: col}, nil
}

// resolveBlocking fills in NPPBH/NPPBV of 0 and checks that the blocks cover the image.
//
// A block size of 0 is only legal with a single block in that direction,
// where it stands for the full image dimension (used for images larger than
// 8192 pixels).
func resolveBlocking(seg *ImageSegment, r *fieldReader) error {
	if seg.Rows == 0 || seg.Cols == 0 {
		return r.invalid("NROWS", seg.subheaderOffset, ErrInvalidField, "image has zero rows or columns")
	}
	if seg.BlocksPerRow == 0 || seg.BlocksPerCol == 0 {
		return r.invalid("NBPR", seg.subheaderOffset, ErrInvalidField, "image has zero blocks")
	}
	if seg.PixelsPerBlockH == 0 {
		if seg.BlocksPerRow != 1 {
			return r.invalid("NPPBH", seg.subheaderOffset, ErrInvalidField, "NPPBH=0 requires NBPR=1")
		}
		seg.PixelsPerBlockH = seg.Cols
	}
	if seg.PixelsPerBlockV == 0 {
		if seg.BlocksPerCol != 1 {
			return r.invalid("NPPBV", seg.subheaderOffset, ErrInvalidField, "NPPBV=0 requires NBPC=1")
		}
		seg.PixelsPerBlockV = seg.Rows
	}
	if seg.BlocksPerRow*seg.PixelsPerBlockH < seg.Cols || seg.BlocksPerCol*seg.PixelsPerBlockV < seg.Rows {
		return r.invalid("NBPR", seg.subheaderOffset, ErrInvalidField, "blocks do not cover the image")
	}
	return nil
}

// classify maps IREP and the band layout onto a PixelFormat.
func classify(seg *ImageSegment) (PixelFormat, error) {
	n := len(seg.Bands)
	switch seg.Representation {
	case "MONO":
		if n == 1 {
			return PixelFormatMono, nil
		}
	case "RGB":
		if n == 3 {
			return PixelFormatRGB, nil
		}
	case "RGB/LUT":
		if n == 1 && len(seg.Bands[0].LUT) == 3 {
			return PixelFormatRGBLUT, nil
		}
	case "NODISPLY":
		if n == 2 && isComplexPair(seg.Bands[0].Subcategory, seg.Bands[1].Subcategory) {
			return PixelFormatComplex, nil
		}
	}
	return PixelFormatUnknown, newFormatError(ErrUnsupported, "IREP",
		"image representation %q with %d band(s) is not supported", seg.Representation, n)
}

// isComplexPair reports whether two band subcategories form an I/Q or M/P pair.
func isComplexPair(a, b string) bool {
	return (a == "I" && b == "Q") || (a == "M" && b == "P")
}
