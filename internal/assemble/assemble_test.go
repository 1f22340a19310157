package assemble

import (
	"encoding/binary"
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/holmesv3/nitf-viz/internal/nitftest"
	"github.com/holmesv3/nitf-viz/internal/parser"
	"github.com/holmesv3/nitf-viz/internal/sicd"
)

func parse(t testing.TB, images ...nitftest.Image) []*parser.ImageSegment {
	t.Helper()
	f, err := parser.Parse(nitftest.Build(nitftest.File{Images: images}), parser.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return f.Images
}

func metadata(pt sicd.PixelType, rows, cols int) *sicd.Metadata {
	return &sicd.Metadata{PixelType: pt, NumRows: rows, NumCols: cols}
}

// wave is a sample pattern that is distinct in every cell and exactly
// representable as int16.
func wave(row, col int) complex64 {
	return complex(float32(row*100-col), float32(col*7-row))
}

func checkGrid(t *testing.T, img *Image, rows, cols int, fn nitftest.ComplexFunc) {
	t.Helper()
	if img.Rows != rows || img.Cols != cols {
		t.Fatalf("image is %dx%d, want %dx%d", img.Rows, img.Cols, rows, cols)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if got, want := img.At(r, c), fn(r, c); got != want {
				t.Fatalf("sample (%d,%d) = %v, want %v", r, c, got, want)
			}
		}
	}
}

func TestAssembleTilingAssociativity(t *testing.T) {
	const rows, cols = 9, 7
	tests := []struct {
		name   string
		images []nitftest.Image
	}{
		{"single", []nitftest.Image{
			nitftest.ComplexImage("RE32F_IM32F", rows, cols, 0, 0, wave),
		}},
		{"two row strips", []nitftest.Image{
			nitftest.ComplexImage("RE32F_IM32F", 5, cols, 0, 0, wave),
			nitftest.ComplexImage("RE32F_IM32F", 4, cols, 5, 0, wave),
		}},
		{"two column strips in reverse file order", []nitftest.Image{
			nitftest.ComplexImage("RE32F_IM32F", rows, 3, 0, 4, wave),
			nitftest.ComplexImage("RE32F_IM32F", rows, 4, 0, 0, wave),
		}},
		{"attachment chain", nitftest.SplitRows("RE32F_IM32F", rows, cols, 2, wave)},
		{"four quadrants", []nitftest.Image{
			nitftest.ComplexImage("RE32F_IM32F", 4, 3, 0, 0, wave),
			nitftest.ComplexImage("RE32F_IM32F", 4, 4, 0, 3, wave),
			nitftest.ComplexImage("RE32F_IM32F", 5, 3, 4, 0, wave),
			nitftest.ComplexImage("RE32F_IM32F", 5, 4, 4, 3, wave),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Assemble(parse(t, tt.images...), metadata(sicd.PixelTypeRE32F, rows, cols))
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			checkGrid(t, img, rows, cols, wave)
		})
	}
}

func TestAssembleOffsetOrigin(t *testing.T) {
	// Locations need not start at zero; the minimum location is the origin.
	segs := parse(t,
		nitftest.ComplexImage("RE16I_IM16I", 2, 3, 100, 50, wave),
		nitftest.ComplexImage("RE16I_IM16I", 2, 3, 102, 50, wave),
	)
	img, err := Assemble(segs, metadata(sicd.PixelTypeRE16I, 4, 3))
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	checkGrid(t, img, 4, 3, func(r, c int) complex64 { return wave(r+100, c+50) })
}

func TestAssembleIgnoresDisplaySegments(t *testing.T) {
	mono := nitftest.MonoImage(2, 2, func(r, c int) uint8 { return 1 })
	segs := parse(t, mono, nitftest.ComplexImage("RE32F_IM32F", 3, 3, 0, 0, wave))
	img, err := Assemble(segs, metadata(sicd.PixelTypeRE32F, 3, 3))
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	checkGrid(t, img, 3, 3, wave)
}

func TestAssembleAmplitudePhase(t *testing.T) {
	amp := make([]float64, sicd.AmpTableSize)
	for i := range amp {
		amp[i] = float64(i) * 0.5
	}
	// real part is the amplitude index, imaginary part the phase count.
	fn := func(r, c int) complex64 { return complex(float32(r*10+c), float32(64*c)) }
	segs := parse(t, nitftest.ComplexImage("AMP8I_PHS8I", 3, 4, 0, 0, fn))

	md := metadata(sicd.PixelTypeAMP8I, 3, 4)
	md.AmpTable = amp
	img, err := Assemble(segs, md)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			want := cmplx.Rect(float64(r*10+c)*0.5, float64(c)*math.Pi/2)
			if got := complex128(img.At(r, c)); cmplx.Abs(got-want) > 1e-5 {
				t.Errorf("sample (%d,%d) = %v, want %v", r, c, got, want)
			}
		}
	}
	if m := img.Magnitude(2, 3); math.Abs(m-11.5) > 1e-5 {
		t.Errorf("Magnitude(2,3) = %g, want 11.5", m)
	}
}

func TestAssembleErrors(t *testing.T) {
	re32 := func(rows, cols, r0, c0 int) nitftest.Image {
		return nitftest.ComplexImage("RE32F_IM32F", rows, cols, r0, c0, wave)
	}
	tests := []struct {
		name   string
		images []nitftest.Image
		md     *sicd.Metadata
	}{
		{"no complex segments", []nitftest.Image{nitftest.MonoImage(2, 2, func(r, c int) uint8 { return 0 })}, metadata(sicd.PixelTypeRE32F, 2, 2)},
		{"overlap", []nitftest.Image{re32(4, 4, 0, 0), re32(4, 4, 0, 2)}, metadata(sicd.PixelTypeRE32F, 4, 6)},
		{"gap", []nitftest.Image{re32(4, 3, 0, 0), re32(4, 2, 0, 4)}, metadata(sicd.PixelTypeRE32F, 4, 6)},
		{"outside extent", []nitftest.Image{re32(4, 3, 0, 0), re32(4, 3, 0, 3)}, metadata(sicd.PixelTypeRE32F, 4, 5)},
		{"extent larger than segments", []nitftest.Image{re32(4, 3, 0, 0)}, metadata(sicd.PixelTypeRE32F, 5, 3)},
		{"mixed encodings", []nitftest.Image{re32(2, 3, 0, 0), nitftest.ComplexImage("RE16I_IM16I", 2, 3, 2, 0, wave)}, metadata(sicd.PixelTypeRE32F, 4, 3)},
		{"metadata pixel type", []nitftest.Image{re32(2, 2, 0, 0)}, metadata(sicd.PixelTypeRE16I, 2, 2)},
		{"no metadata", []nitftest.Image{re32(2, 2, 0, 0)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Assemble(parse(t, tt.images...), tt.md)
			if err == nil {
				t.Fatalf("Assemble() = %dx%d image, want error", img.Rows, img.Cols)
			}
			var ae *AssemblyError
			if !errors.As(err, &ae) {
				t.Errorf("error %T (%v) is not an *AssemblyError", err, err)
			}
		})
	}
}

// blockedSegment builds a 2-band RE16I segment of 5x7 pixels stored in 2x3
// blocks of 3x4, filling Data through SampleOffset.
func blockedSegment(mode parser.ImageMode, fn nitftest.ComplexFunc) *parser.ImageSegment {
	seg := &parser.ImageSegment{
		Index:           4,
		Rows:            5,
		Cols:            7,
		Format:          parser.PixelFormatComplex,
		ValueType:       parser.PixelValueSigned,
		BitsPerPixel:    16,
		Bands:           []parser.Band{{Subcategory: "I"}, {Subcategory: "Q"}},
		Mode:            mode,
		BlocksPerRow:    2,
		BlocksPerCol:    2,
		PixelsPerBlockH: 4,
		PixelsPerBlockV: 3,
	}
	n, _ := seg.ExpectedDataLength()
	seg.Data = make([]byte, n)
	for r := 0; r < seg.Rows; r++ {
		for c := 0; c < seg.Cols; c++ {
			v := fn(r, c)
			binary.BigEndian.PutUint16(seg.Data[seg.SampleOffset(r, c, 0):], uint16(int16(real(v))))
			binary.BigEndian.PutUint16(seg.Data[seg.SampleOffset(r, c, 1):], uint16(int16(imag(v))))
		}
	}
	return seg
}

func TestDecodeSegmentModes(t *testing.T) {
	for _, mode := range []parser.ImageMode{parser.ModeBlock, parser.ModePixel, parser.ModeRow, parser.ModeSequential} {
		t.Run(mode.String(), func(t *testing.T) {
			seg := blockedSegment(mode, wave)
			got, err := DecodeSegment(seg, &sicd.Metadata{PixelType: sicd.PixelTypeRE16I})
			if err != nil {
				t.Fatalf("DecodeSegment() error = %v", err)
			}
			checkGrid(t, &Image{Rows: 5, Cols: 7, Data: got}, 5, 7, wave)
		})
	}
}

func TestDecodeSegmentErrors(t *testing.T) {
	seg := blockedSegment(parser.ModePixel, wave)

	truncated := *seg
	truncated.Data = seg.Data[:len(seg.Data)-1]

	tests := []struct {
		name string
		seg  *parser.ImageSegment
		pt   sicd.PixelType
		amp  []float64
	}{
		{"wrong pixel type", seg, sicd.PixelTypeRE32F, nil},
		{"truncated", &truncated, sicd.PixelTypeRE16I, nil},
		{"short amp table", seg, sicd.PixelTypeRE16I, []float64{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSegment(tt.seg, &sicd.Metadata{PixelType: tt.pt, AmpTable: tt.amp})
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error = %v, want *DecodeError", err)
			}
			if de.Segment != 4 {
				t.Errorf("Segment = %d, want 4", de.Segment)
			}
		})
	}
}

func TestInferPixelType(t *testing.T) {
	for _, pt := range []sicd.PixelType{sicd.PixelTypeRE32F, sicd.PixelTypeRE16I, sicd.PixelTypeAMP8I} {
		segs := parse(t, nitftest.ComplexImage(string(pt), 1, 1, 0, 0, nitftest.Ramp))
		if got := InferPixelType(segs[0]); got != pt {
			t.Errorf("InferPixelType() = %q, want %q", got, pt)
		}
	}
	mono := parse(t, nitftest.MonoImage(1, 1, func(r, c int) uint8 { return 0 }))
	if got := InferPixelType(mono[0]); got != "" {
		t.Errorf("InferPixelType(mono) = %q, want empty", got)
	}
}

func BenchmarkAssemble(b *testing.B) {
	const rows, cols = 1024, 1024
	segs := parse(b, nitftest.SplitRows("RE32F_IM32F", rows, cols, 256, nitftest.Ramp)...)
	md := metadata(sicd.PixelTypeRE32F, rows, cols)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Assemble(segs, md); err != nil {
			b.Fatal(err)
		}
	}
}
