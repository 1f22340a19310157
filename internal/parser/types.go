package parser

import (
	"fmt"
	"image"
	"io"

	"github.com/paulmach/orb"
)

// PixelFormat classifies how an image segment's samples are to be displayed.
//
// It is a closed set: every consumer switches over all of AllPixelFormats and
// treats anything else as an error.
type PixelFormat int

const (
	PixelFormatUnknown PixelFormat = iota
	PixelFormatMono                // IREP=MONO, one band
	PixelFormatRGB                 // IREP=RGB, three bands
	PixelFormatRGBLUT              // IREP=RGB/LUT, one band indexed through a colour table
	PixelFormatComplex             // IREP=NODISPLY, I/Q or M/P band pair (SICD)
)

// AllPixelFormats lists every supported pixel format.
var AllPixelFormats = []PixelFormat{
	PixelFormatMono,
	PixelFormatRGB,
	PixelFormatRGBLUT,
	PixelFormatComplex,
}

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatMono:
		return "mono"
	case PixelFormatRGB:
		return "rgb"
	case PixelFormatRGBLUT:
		return "rgb/lut"
	case PixelFormatComplex:
		return "complex"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// ImageMode is the IMODE band interleave of an image segment.
//
// Reference: MIL-STD-2500C Table A-3, IMODE.
type ImageMode byte

const (
	ModeBlock      ImageMode = 'B' // band interleaved by block
	ModePixel      ImageMode = 'P' // band interleaved by pixel
	ModeRow        ImageMode = 'R' // band interleaved by row
	ModeSequential ImageMode = 'S' // band sequential
)

func (m ImageMode) String() string {
	return string(m)
}

// PixelValueType is the PVTYPE field.
type PixelValueType string

const (
	PixelValueInt     PixelValueType = "INT" // unsigned integer
	PixelValueBilevel PixelValueType = "B"
	PixelValueSigned  PixelValueType = "SI" // two's complement signed integer
	PixelValueReal    PixelValueType = "R"  // IEEE 754 floating point
	PixelValueComplex PixelValueType = "C"
)

// Location is a row/column position in the common coordinate system.
type Location struct {
	Row int
	Col int
}

// Add returns the component-wise sum of two locations.
func (l Location) Add(o Location) Location {
	return Location{Row: l.Row + o.Row, Col: l.Col + o.Col}
}

// Band describes one band of an image segment.
type Band struct {
	Representation string   // IREPBAND, e.g. "R", "G", "B", "M", "LU"
	Subcategory    string   // ISUBCAT, e.g. "I", "Q", "M", "P"
	LUT            [][]byte // NLUTS tables of NELUT entries each
}

// ImageSegment is one parsed image segment: its subheader fields and the
// location of its sample bytes.
//
// Data is a sub-slice of the bytes passed to Parse; it is never copied.
type ImageSegment struct {
	Index int // position in the file, starting at 0

	ID       string // IID1
	Title    string // IID2
	DateTime string // IDATIM
	Source   string // ISORCE

	Rows int // NROWS
	Cols int // NCOLS

	Format         PixelFormat
	ValueType      PixelValueType // PVTYPE
	Representation string         // IREP
	Category       string         // ICAT
	ActualBits     int            // ABPP
	BitsPerPixel   int            // NBPP, per band
	Bands          []Band
	Compression    string // IC

	Mode            ImageMode
	BlocksPerRow    int // NBPR
	BlocksPerCol    int // NBPC
	PixelsPerBlockH int // NPPBH, resolved to NCOLS when declared as 0
	PixelsPerBlockV int // NPPBV, resolved to NROWS when declared as 0

	DisplayLevel     int      // IDLVL
	AttachmentLevel  int      // IALVL
	RelativeLocation Location // ILOC, relative to the attached segment
	Location         Location // absolute location in the common coordinate system

	Coordinates string      // ICORDS
	Footprint   orb.Polygon // corner coordinates from IGEOLO, nil when absent

	Data []byte

	subheaderOffset int
	dataOffset      int
}

// BytesPerSample returns the byte width of one band sample.
func (s *ImageSegment) BytesPerSample() int {
	return s.BitsPerPixel / 8
}

// Bounds returns the segment rectangle in the common coordinate system.
func (s *ImageSegment) Bounds() image.Rectangle {
	return image.Rect(s.Location.Col, s.Location.Row, s.Location.Col+s.Cols, s.Location.Row+s.Rows)
}

// DataOffset returns the absolute file offset of the segment's first sample byte.
func (s *ImageSegment) DataOffset() int {
	return s.dataOffset
}

// IsBlocked reports whether the segment is stored as more than one block.
func (s *ImageSegment) IsBlocked() bool {
	return s.BlocksPerRow > 1 || s.BlocksPerCol > 1
}

// DataExtension is a parsed data extension segment.
type DataExtension struct {
	Index          int
	ID             string // DESID
	Version        int    // DESVER
	Classification string
	UserSubheader  []byte // DESSHF
	Data           []byte
}

// FileHeader holds the NITF file header fields this package interprets.
type FileHeader struct {
	Profile         string // "NITF" or "NSIF"
	Version         string // "02.10" or "01.00"
	ComplexityLevel int    // CLEVEL
	SystemType      string // STYPE
	StationID       string // OSTAID
	DateTime        string // FDT
	Title           string // FTITLE
	Classification  string // FSCLAS
	OriginatorName  string // ONAME
	FileLength      int    // FL
	HeaderLength    int    // HL
}

// File is a parsed NITF container.
//
// Images keeps the order in which segments appear in the file.
type File struct {
	Header     FileHeader
	Images     []*ImageSegment
	Extensions []*DataExtension

	// MetadataPayload is the data of the first XML data extension segment,
	// normally the SICD descriptor. Nil when the file carries none.
	MetadataPayload []byte

	closer io.Closer
}
