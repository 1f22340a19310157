package passthrough

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/holmesv3/nitf-viz/internal/assemble"
	"github.com/holmesv3/nitf-viz/internal/nitftest"
	"github.com/holmesv3/nitf-viz/internal/parser"
	"github.com/holmesv3/nitf-viz/internal/remap"
)

func parseSegment(t testing.TB, im nitftest.Image) *parser.ImageSegment {
	t.Helper()
	f, err := parser.Parse(nitftest.Build(nitftest.File{Images: []nitftest.Image{im}}), parser.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return f.Images[0]
}

func params(size int) remap.Params {
	p := remap.DefaultParams()
	p.Size = size
	return p
}

func gradient(r, c int) uint8 { return uint8(r*16 + c) }

func TestThumbnailSize(t *testing.T) {
	tests := []struct {
		rows, cols, n      int
		wantRows, wantCols int
	}{
		{100, 100, 256, 256, 256},
		{100, 200, 10, 7, 14},
		{200, 100, 10, 14, 7},
		{1, 1000, 4, 1, 126},
		{5, 5, 1, 1, 1},
	}
	for _, tt := range tests {
		rows, cols := ThumbnailSize(tt.rows, tt.cols, tt.n)
		if rows != tt.wantRows || cols != tt.wantCols {
			t.Errorf("ThumbnailSize(%d, %d, %d) = %d, %d; want %d, %d",
				tt.rows, tt.cols, tt.n, rows, cols, tt.wantRows, tt.wantCols)
		}
	}
}

func TestRenderMono(t *testing.T) {
	seg := parseSegment(t, nitftest.MonoImage(16, 16, gradient))
	out, err := Render(seg, params(16))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.Channels != 1 || out.Rows != 16 || out.Cols != 16 {
		t.Fatalf("Render() = %dx%dx%d", out.Rows, out.Cols, out.Channels)
	}
	for r := 0; r < 16; r++ {
		for c := 0; c < 16; c++ {
			if got := out.At(r, c, 0); got != gradient(r, c) {
				t.Fatalf("(%d,%d) = %d, want %d", r, c, got, gradient(r, c))
			}
		}
	}
}

func TestRenderBrightness(t *testing.T) {
	seg := parseSegment(t, nitftest.MonoImage(16, 16, gradient))
	p := params(16)
	p.Brightness = 10
	out, err := Render(seg, p)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for r := 0; r < 16; r++ {
		for c := 0; c < 16; c++ {
			want := min(int(gradient(r, c))+10, 255)
			if got := out.At(r, c, 0); int(got) != want {
				t.Fatalf("(%d,%d) = %d, want %d", r, c, got, want)
			}
		}
	}
}

func TestRenderRGB(t *testing.T) {
	px := func(r, c int) [3]uint8 { return [3]uint8{uint8(r), uint8(c), uint8(r + c)} }
	seg := parseSegment(t, nitftest.RGBImage(8, 8, px))
	out, err := Render(seg, params(8))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.Channels != 3 {
		t.Fatalf("Channels = %d, want 3", out.Channels)
	}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			want := px(r, c)
			got := [3]uint8{out.At(r, c, 0), out.At(r, c, 1), out.At(r, c, 2)}
			if got != want {
				t.Fatalf("(%d,%d) = %v, want %v", r, c, got, want)
			}
		}
	}
}

func TestRenderLUT(t *testing.T) {
	lut := [3][]byte{{10, 20, 30, 40}, {50, 60, 70, 80}, {90, 100, 110, 120}}
	index := func(r, c int) uint8 { return uint8((r + c) % 8) }
	seg := parseSegment(t, nitftest.LUTImage(4, 4, lut, index))
	out, err := Render(seg, params(4))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			idx := int(index(r, c))
			var want [3]uint8
			if idx < 4 {
				want = [3]uint8{lut[0][idx], lut[1][idx], lut[2][idx]}
			}
			got := [3]uint8{out.At(r, c, 0), out.At(r, c, 1), out.At(r, c, 2)}
			if got != want {
				t.Errorf("index %d at (%d,%d) = %v, want %v", idx, r, c, got, want)
			}
		}
	}
}

func TestRenderStretch(t *testing.T) {
	u16 := func(vs ...uint16) []byte {
		b := make([]byte, 2*len(vs))
		for i, v := range vs {
			binary.BigEndian.PutUint16(b[2*i:], v)
		}
		return b
	}
	s16 := func(vs ...int16) []byte {
		b := make([]byte, 2*len(vs))
		for i, v := range vs {
			binary.BigEndian.PutUint16(b[2*i:], uint16(v))
		}
		return b
	}
	f32 := func(vs ...float32) []byte {
		b := make([]byte, 4*len(vs))
		for i, v := range vs {
			binary.BigEndian.PutUint32(b[4*i:], math.Float32bits(v))
		}
		return b
	}
	f64 := func(vs ...float64) []byte {
		b := make([]byte, 8*len(vs))
		for i, v := range vs {
			binary.BigEndian.PutUint64(b[8*i:], math.Float64bits(v))
		}
		return b
	}
	u32 := func(vs ...uint32) []byte {
		b := make([]byte, 4*len(vs))
		for i, v := range vs {
			binary.BigEndian.PutUint32(b[4*i:], v)
		}
		return b
	}

	tests := []struct {
		name   string
		pvtype string
		nbpp   int
		data   []byte
		want   []byte
	}{
		{"uint16", "INT", 16, u16(1000, 2000, 3000, 4000), []byte{0, 85, 170, 255}},
		{"uint32", "INT", 32, u32(0, 0, 1<<31, 1<<31), []byte{0, 0, 255, 255}},
		{"int16", "SI", 16, s16(-50, 0, 50, 200), []byte{0, 51, 102, 255}},
		{"float32 with NaN", "R", 32, f32(float32(math.NaN()), 0, 1, 0.5), []byte{0, 0, 255, 128}},
		{"float64", "R", 64, f64(-1, math.Inf(1), 1, 0), []byte{0, 0, 255, 128}},
		{"constant", "INT", 16, u16(7, 7, 7, 7), []byte{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := nitftest.MonoImage(2, 2, func(int, int) uint8 { return 0 })
			im.PVType, im.NBPP, im.Data = tt.pvtype, tt.nbpp, tt.data
			out, err := Render(parseSegment(t, im), params(2))
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, out.Pix); diff != "" {
				t.Errorf("Pix mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderBlocked(t *testing.T) {
	const rows, cols, block = 6, 6, 4
	im := nitftest.MonoImage(rows, cols, gradient)
	im.BlocksPerRow, im.BlocksPerCol, im.PPBH, im.PPBV = 2, 2, block, block
	data := make([]byte, 0, 4*block*block)
	for br := 0; br < 2; br++ {
		for bc := 0; bc < 2; bc++ {
			for r := 0; r < block; r++ {
				for c := 0; c < block; c++ {
					row, col := br*block+r, bc*block+c
					v := uint8(0xee) // pad
					if row < rows && col < cols {
						v = gradient(row, col)
					}
					data = append(data, v)
				}
			}
		}
	}
	im.Data = data

	out, err := Render(parseSegment(t, im), params(rows))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if got := out.At(r, c, 0); got != gradient(r, c) {
				t.Fatalf("(%d,%d) = %d, want %d", r, c, got, gradient(r, c))
			}
		}
	}
}

func TestRenderThumbnail(t *testing.T) {
	seg := parseSegment(t, nitftest.MonoImage(64, 32, func(int, int) uint8 { return 100 }))
	out, err := Render(seg, params(16))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.Rows != 23 || out.Cols != 11 {
		t.Fatalf("Render() = %dx%d, want 23x11", out.Rows, out.Cols)
	}
	for i, v := range out.Pix {
		if v != 100 {
			t.Fatalf("Pix[%d] = %d, want 100", i, v)
		}
	}
}

func TestRenderComplex(t *testing.T) {
	for _, pt := range []string{"RE32F_IM32F", "RE16I_IM16I", "AMP8I_PHS8I"} {
		t.Run(pt, func(t *testing.T) {
			seg := parseSegment(t, nitftest.ComplexImage(pt, 12, 20, 0, 0, nitftest.Ramp))
			out, err := Render(seg, params(8))
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if out.Rows != 8 || out.Cols != 8 || out.Channels != 1 {
				t.Errorf("Render() = %dx%dx%d, want 8x8x1", out.Rows, out.Cols, out.Channels)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	mismatched := nitftest.ComplexImage("RE32F_IM32F", 4, 4, 0, 0, nitftest.Ramp)
	mismatched.Bands = []nitftest.Band{{Subcat: "M"}, {Subcat: "P"}}

	truncated := parseSegment(t, nitftest.MonoImage(4, 4, gradient))
	truncated.Data = truncated.Data[:3]

	unknown := parseSegment(t, nitftest.MonoImage(4, 4, gradient))
	unknown.Format = parser.PixelFormatUnknown

	tests := []struct {
		name string
		seg  *parser.ImageSegment
	}{
		{"complex encoding mismatch", parseSegment(t, mismatched)},
		{"truncated", truncated},
		{"unknown format", unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.seg, params(4))
			var de *assemble.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Render() error = %v, want *assemble.DecodeError", err)
			}
			if de.Segment != tt.seg.Index {
				t.Errorf("Segment = %d, want %d", de.Segment, tt.seg.Index)
			}
		})
	}

	if _, err := Render(nil, params(4)); err == nil {
		t.Error("Render(nil) expected error")
	}
	if _, err := Render(truncated, params(0)); err == nil {
		t.Error("Render() with size 0 expected error")
	}
}

func TestRenderAllPixelFormats(t *testing.T) {
	fixtures := map[parser.PixelFormat]nitftest.Image{
		parser.PixelFormatMono:    nitftest.MonoImage(4, 4, gradient),
		parser.PixelFormatRGB:     nitftest.RGBImage(4, 4, func(r, c int) [3]uint8 { return [3]uint8{1, 2, 3} }),
		parser.PixelFormatRGBLUT:  nitftest.LUTImage(4, 4, [3][]byte{{1}, {2}, {3}}, func(int, int) uint8 { return 0 }),
		parser.PixelFormatComplex: nitftest.ComplexImage("RE16I_IM16I", 4, 4, 0, 0, nitftest.Ramp),
	}
	for _, format := range parser.AllPixelFormats {
		im, ok := fixtures[format]
		if !ok {
			t.Errorf("no fixture for pixel format %s", format)
			continue
		}
		seg := parseSegment(t, im)
		if seg.Format != format {
			t.Fatalf("fixture for %s parsed as %s", format, seg.Format)
		}
		if _, err := Render(seg, params(4)); err != nil {
			t.Errorf("Render(%s) error = %v", format, err)
		}
	}
}

func BenchmarkRenderMono16(b *testing.B) {
	const n = 1024
	im := nitftest.MonoImage(n, n, gradient)
	im.NBPP = 16
	im.Data = make([]byte, n*n*2)
	for i := 0; i < n*n; i++ {
		binary.BigEndian.PutUint16(im.Data[2*i:], uint16(i*37))
	}
	seg := parseSegment(b, im)
	p := params(256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Render(seg, p); err != nil {
			b.Fatal(err)
		}
	}
}
