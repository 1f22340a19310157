// Package nitftest builds synthetic NITF containers and SICD descriptors
// for tests.
//
// Fixtures are assembled field by field in memory, so no binary test data
// is checked in and every test states the exact layout it exercises.
package nitftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Byte offsets of file header fields that tests corrupt directly.
const (
	OffsetFL   = 342
	OffsetHL   = 354
	OffsetNUMI = 360
)

// Image describes one image segment. Zero values pick single-block,
// uncompressed, band-interleaved-by-pixel defaults.
type Image struct {
	ID       string
	Rows     int
	Cols     int
	PVType   string // INT, SI, R
	IRep     string // MONO, RGB, RGB/LUT, NODISPLY
	Bands    []Band
	NBPP     int
	Mode     byte // B, P, R, S
	IC       string
	ICords   string
	IGeolo   string
	Comments []string

	BlocksPerRow int
	BlocksPerCol int
	PPBH         int // written as given; 0 means full dimension
	PPBV         int

	DisplayLevel    int // 0 means position in the file + 1
	AttachmentLevel int
	Row, Col        int // ILOC

	// Data replaces the zero-filled sample data when non-nil. It may be
	// shorter or longer than the blocks require.
	Data []byte
	// ExtraData is appended after the data and counted in LI.
	ExtraData int
}

// Band is one image band.
type Band struct {
	Rep    string // IREPBAND
	Subcat string // ISUBCAT
	LUTs   [][]byte
}

// DES is one data extension segment.
type DES struct {
	ID       string
	Version  int
	Overflow bool // writes DESOFLW/DESITEM
	UserSub  []byte
	Data     []byte
}

// Raw is a segment written verbatim and skipped by the parser.
type Raw struct {
	Subheader []byte
	Data      []byte
}

// File describes a whole container.
type File struct {
	Version  string // FHDR+FVER, default NITF02.10
	Title    string
	Images   []Image
	Graphics []Raw
	Texts    []Raw
	DES      []DES
	Reserved []Raw
	// UserHeader is written as UDHD after UDHDL.
	UserHeader []byte
}

type writer struct {
	bytes.Buffer
}

// a writes a left-justified, space-padded BCS-A field.
func (w *writer) a(s string, n int) {
	if len(s) > n {
		panic(fmt.Sprintf("nitftest: %q does not fit in %d bytes", s, n))
	}
	w.WriteString(s)
	w.WriteString(strings.Repeat(" ", n-len(s)))
}

// n writes a zero-padded BCS-N field.
func (w *writer) n(v, width int) {
	s := fmt.Sprintf("%0*d", width, v)
	if len(s) > width {
		panic(fmt.Sprintf("nitftest: %d does not fit in %d digits", v, width))
	}
	w.WriteString(s)
}

func (w *writer) security() {
	w.a("U", 167)
}

// withDefaults fills in the single-block, uncompressed layout.
func (im Image) withDefaults() Image {
	if im.Mode == 0 {
		im.Mode = 'P'
	}
	if im.IC == "" {
		im.IC = "NC"
	}
	if im.BlocksPerRow == 0 {
		im.BlocksPerRow = 1
	}
	if im.BlocksPerCol == 0 {
		im.BlocksPerCol = 1
	}
	return im
}

// DataLength returns the number of sample bytes the image's blocks occupy.
func (im Image) DataLength() int {
	im = im.withDefaults()
	ppbh, ppbv := im.PPBH, im.PPBV
	if ppbh == 0 {
		ppbh = im.Cols
	}
	if ppbv == 0 {
		ppbv = im.Rows
	}
	return im.BlocksPerRow * im.BlocksPerCol * ppbh * ppbv * len(im.Bands) * im.NBPP / 8
}

func imageSubheader(im Image) []byte {
	im = im.withDefaults()
	w := &writer{}
	w.a("IM", 2)
	w.a(im.ID, 10)
	w.a("20240101120000", 14)
	w.a("", 17)
	w.a("synthetic "+im.ID, 80)
	w.security()
	w.a("0", 1)
	w.a("nitftest", 42)
	w.n(im.Rows, 8)
	w.n(im.Cols, 8)
	w.a(im.PVType, 3)
	w.a(im.IRep, 8)
	if im.IRep == "NODISPLY" {
		w.a("SAR", 8)
	} else {
		w.a("VIS", 8)
	}
	w.n(im.NBPP, 2)
	w.a("R", 1)
	w.a(im.ICords, 1)
	if im.ICords != "" {
		w.a(im.IGeolo, 60)
	}
	w.n(len(im.Comments), 1)
	for _, c := range im.Comments {
		w.a(c, 80)
	}
	w.a(im.IC, 2)
	if len(im.Bands) > 9 {
		w.n(0, 1)
		w.n(len(im.Bands), 5)
	} else {
		w.n(len(im.Bands), 1)
	}
	for _, b := range im.Bands {
		w.a(b.Rep, 2)
		w.a(b.Subcat, 6)
		w.a("N", 1)
		w.a("", 3)
		w.n(len(b.LUTs), 1)
		if len(b.LUTs) > 0 {
			w.n(len(b.LUTs[0]), 5)
			for _, lut := range b.LUTs {
				w.Write(lut)
			}
		}
	}
	w.n(0, 1)
	w.WriteByte(im.Mode)
	w.n(im.BlocksPerRow, 4)
	w.n(im.BlocksPerCol, 4)
	w.n(im.PPBH, 4)
	w.n(im.PPBV, 4)
	w.n(im.NBPP, 2)
	w.n(im.DisplayLevel, 3)
	w.n(im.AttachmentLevel, 3)
	w.WriteString(location(im.Row))
	w.WriteString(location(im.Col))
	w.a("1.0", 4)
	w.n(0, 5)
	w.n(0, 5)
	return w.Bytes()
}

// location formats one half of ILOC; negative offsets carry a sign.
func location(v int) string {
	if v < 0 {
		return fmt.Sprintf("-%04d", -v)
	}
	return fmt.Sprintf("%05d", v)
}

func desSubheader(d DES) []byte {
	w := &writer{}
	w.a("DE", 2)
	w.a(d.ID, 25)
	v := d.Version
	if v == 0 {
		v = 1
	}
	w.n(v, 2)
	w.security()
	if d.Overflow {
		w.a("UDID", 6)
		w.n(1, 3)
	}
	w.n(len(d.UserSub), 4)
	w.Write(d.UserSub)
	return w.Bytes()
}

type segment struct {
	sub, data []byte
}

// Build serialises f into a complete NITF file.
func Build(f File) []byte {
	var images, graphics, texts, des, reserved []segment
	for i, im := range f.Images {
		if im.DisplayLevel == 0 {
			im.DisplayLevel = i + 1
		}
		data := im.Data
		if data == nil {
			data = make([]byte, im.DataLength())
		}
		if im.ExtraData > 0 {
			data = append(append([]byte{}, data...), make([]byte, im.ExtraData)...)
		}
		images = append(images, segment{imageSubheader(im), data})
	}
	for _, r := range f.Graphics {
		graphics = append(graphics, segment{r.Subheader, r.Data})
	}
	for _, r := range f.Texts {
		texts = append(texts, segment{r.Subheader, r.Data})
	}
	for _, d := range f.DES {
		des = append(des, segment{desSubheader(d), d.Data})
	}
	for _, r := range f.Reserved {
		reserved = append(reserved, segment{r.Subheader, r.Data})
	}

	directory := func(w *writer, segs []segment, subW, dataW int) {
		w.n(len(segs), 3)
		for _, s := range segs {
			w.n(len(s.sub), subW)
			w.n(len(s.data), dataW)
		}
	}

	tail := &writer{}
	directory(tail, images, 6, 10)
	directory(tail, graphics, 4, 6)
	tail.n(0, 3)
	directory(tail, texts, 4, 5)
	directory(tail, des, 4, 9)
	directory(tail, reserved, 4, 7)
	if len(f.UserHeader) > 0 {
		tail.n(len(f.UserHeader), 5)
		tail.Write(f.UserHeader)
	} else {
		tail.n(0, 5)
	}
	tail.n(0, 5)

	headerLen := OffsetNUMI + tail.Len()
	fileLen := headerLen
	for _, group := range [][]segment{images, graphics, texts, des, reserved} {
		for _, s := range group {
			fileLen += len(s.sub) + len(s.data)
		}
	}

	version := f.Version
	if version == "" {
		version = "NITF02.10"
	}
	w := &writer{}
	w.a(version, 9)
	w.n(3, 2)
	w.a("BF01", 4)
	w.a("NITFTEST", 10)
	w.a("20240101120000", 14)
	w.a(f.Title, 80)
	w.security()
	w.n(0, 5)
	w.n(0, 5)
	w.a("0", 1)
	w.Write([]byte{0, 0, 0})
	w.a("nitftest", 24)
	w.a("", 18)
	w.n(fileLen, 12)
	w.n(headerLen, 6)
	w.Write(tail.Bytes())

	for _, group := range [][]segment{images, graphics, texts, des, reserved} {
		for _, s := range group {
			w.Write(s.sub)
			w.Write(s.data)
		}
	}
	return w.Bytes()
}
