package parser

import "strconv"

// segmentLengths is one entry of the file header's segment directory.
type segmentLengths struct {
	subheader int
	data      int
}

// fileHeader is the decoded NITF file header plus its segment directory.
type fileHeader struct {
	FileHeader

	images     []segmentLengths // LISH/LI
	graphics   []segmentLengths // LSSH/LS
	texts      []segmentLengths // LTSH/LT
	extensions []segmentLengths // LDSH/LD
	reserved   []segmentLengths // LRESH/LRE
}

// Field widths of the segment directory, per segment type.
//
// Reference: MIL-STD-2500C Table A-1.
const (
	widthLISH, widthLI     = 6, 10
	widthLSSH, widthLS     = 4, 6
	widthLTSH, widthLT     = 4, 5
	widthLDSH, widthLD     = 4, 9
	widthLRESH, widthLRE   = 4, 7
	widthCount             = 3
	minimumFileHeaderBytes = 388 // header with every segment count at 000
)

// identifiers accepted in FHDR+FVER.
var supportedVersions = map[string]bool{
	"NITF02.10": true,
	"NSIF01.00": true,
}

// parseFileHeader reads the file header from the start of data.
//
// The header is read field by field from fixed positions up to NUMI, then the
// variable-length segment directory is walked. Every declared length is
// checked against the bytes actually present: FL against the file size, HL
// against the bytes consumed, and the sum of all segment lengths against FL.
func parseFileHeader(data []byte) (*fileHeader, error) {
	if len(data) < 9 {
		return nil, newFormatError(ErrNotNITF, "FHDR", "file is %d bytes, too short for an identifier", len(data))
	}
	ident := string(data[:9])
	if !supportedVersions[ident] {
		if ident[:4] == "NITF" || ident[:4] == "NSIF" {
			return nil, &FormatError{Field: "FVER", Offset: 4, Reason: "version " + ident[4:] + " is not supported", Err: ErrUnsupported}
		}
		return nil, &FormatError{Field: "FHDR", Offset: 0, Reason: "missing NITF/NSIF identifier", Err: ErrNotNITF}
	}
	if len(data) < minimumFileHeaderBytes {
		return nil, newFormatError(ErrTruncated, "", "file is %d bytes, shorter than the smallest file header (%d)", len(data), minimumFileHeaderBytes)
	}

	h := &fileHeader{}
	r := newFieldReader(data, 0)

	var err error
	if h.Profile, err = r.str("FHDR", 4); err != nil {
		return nil, err
	}
	if h.Version, err = r.str("FVER", 5); err != nil {
		return nil, err
	}
	if h.ComplexityLevel, err = r.int("CLEVEL", 2); err != nil {
		return nil, err
	}
	if h.SystemType, err = r.str("STYPE", 4); err != nil {
		return nil, err
	}
	if h.StationID, err = r.str("OSTAID", 10); err != nil {
		return nil, err
	}
	if h.DateTime, err = r.str("FDT", 14); err != nil {
		return nil, err
	}
	if h.Title, err = r.str("FTITLE", 80); err != nil {
		return nil, err
	}
	if h.Classification, err = r.readSecurity("FS"); err != nil {
		return nil, err
	}
	// FSCOP, FSCPYS, ENCRYP, FBKGC
	if err := r.skip("FSCOP", 5+5+1+3); err != nil {
		return nil, err
	}
	if h.OriginatorName, err = r.str("ONAME", 24); err != nil {
		return nil, err
	}
	if err := r.skip("OPHONE", 18); err != nil {
		return nil, err
	}

	flAt := r.pos()
	if h.FileLength, err = r.int("FL", 12); err != nil {
		return nil, err
	}
	if h.FileLength != len(data) {
		return nil, r.invalid("FL", flAt, ErrLength,
			"declared file length "+strconv.Itoa(h.FileLength)+" but file is "+strconv.Itoa(len(data))+" bytes")
	}
	hlAt := r.pos()
	if h.HeaderLength, err = r.int("HL", 6); err != nil {
		return nil, err
	}
	if h.HeaderLength < minimumFileHeaderBytes || h.HeaderLength > len(data) {
		return nil, r.invalid("HL", hlAt, ErrLength, "header length "+strconv.Itoa(h.HeaderLength)+" is out of range")
	}

	if h.images, err = readDirectory(r, "NUMI", "LISH", widthLISH, "LI", widthLI); err != nil {
		return nil, err
	}
	if h.graphics, err = readDirectory(r, "NUMS", "LSSH", widthLSSH, "LS", widthLS); err != nil {
		return nil, err
	}
	numxAt := r.pos()
	numx, err := r.int("NUMX", widthCount)
	if err != nil {
		return nil, err
	}
	if numx != 0 {
		return nil, r.invalid("NUMX", numxAt, ErrUnsupported, "reserved segment type declared ("+strconv.Itoa(numx)+" segments)")
	}
	if h.texts, err = readDirectory(r, "NUMT", "LTSH", widthLTSH, "LT", widthLT); err != nil {
		return nil, err
	}
	if h.extensions, err = readDirectory(r, "NUMDES", "LDSH", widthLDSH, "LD", widthLD); err != nil {
		return nil, err
	}
	if h.reserved, err = readDirectory(r, "NUMRES", "LRESH", widthLRESH, "LRE", widthLRE); err != nil {
		return nil, err
	}

	// UDHDL/UDHD and XHDL/XHD: tagged record extensions, skipped by length.
	for _, name := range []string{"UDHDL", "XHDL"} {
		n, err := r.int(name, 5)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			if err := r.skip(name+" data", n); err != nil {
				return nil, err
			}
		}
	}

	if r.pos() != h.HeaderLength {
		return nil, r.invalid("HL", hlAt, ErrLength,
			"declared header length "+strconv.Itoa(h.HeaderLength)+" but header fields occupy "+strconv.Itoa(r.pos())+" bytes")
	}

	total := h.HeaderLength
	for _, dir := range [][]segmentLengths{h.images, h.graphics, h.texts, h.extensions, h.reserved} {
		for _, seg := range dir {
			total += seg.subheader + seg.data
		}
	}
	if total != h.FileLength {
		return nil, newFormatError(ErrLength, "FL",
			"header and segments add up to %d bytes but file length is %d", total, h.FileLength)
	}

	return h, nil
}

// readDirectory reads a segment count followed by that many subheader/data length pairs.
func readDirectory(r *fieldReader, countField, subField string, subWidth int, dataField string, dataWidth int) ([]segmentLengths, error) {
	n, err := r.int(countField, widthCount)
	if err != nil {
		return nil, err
	}
	if n*(subWidth+dataWidth) > r.remaining() {
		return nil, r.invalid(countField, r.pos()-widthCount, ErrTruncated,
			strconv.Itoa(n)+" segments declared but the header ends first")
	}
	dir := make([]segmentLengths, n)
	for i := range dir {
		if dir[i].subheader, err = r.int(subField, subWidth); err != nil {
			return nil, err
		}
		if dir[i].data, err = r.int(dataField, dataWidth); err != nil {
			return nil, err
		}
	}
	return dir, nil
}
