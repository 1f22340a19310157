package nitftest

import (
	"encoding/binary"
	"math"
)

// ComplexFunc gives the sample value at an absolute grid position.
type ComplexFunc func(row, col int) complex64

// Ramp returns a function whose value encodes its own position, so any
// misplaced sample is detectable.
func Ramp(row, col int) complex64 {
	return complex(float32(row), float32(col))
}

// ComplexImage describes a SICD image segment covering rows × cols starting
// at grid position (row0, col0), filled from fn. Samples are written
// band-interleaved by pixel in a single block, big-endian.
//
// pixelType is one of RE32F_IM32F, RE16I_IM16I, AMP8I_PHS8I. For the
// integer types fn's real and imaginary parts are truncated (RE16I) or read
// as amplitude index and phase count (AMP8I).
func ComplexImage(pixelType string, rows, cols, row0, col0 int, fn ComplexFunc) Image {
	im := Image{
		ID:     "SICD",
		Rows:   rows,
		Cols:   cols,
		IRep:   "NODISPLY",
		Mode:   'P',
		Bands:  []Band{{Subcat: "I"}, {Subcat: "Q"}},
		Row:    row0,
		Col:    col0,
		PVType: "R",
		NBPP:   32,
	}
	switch pixelType {
	case "RE16I_IM16I":
		im.PVType, im.NBPP = "SI", 16
	case "AMP8I_PHS8I":
		im.PVType, im.NBPP = "INT", 8
		im.Bands = []Band{{Subcat: "M"}, {Subcat: "P"}}
	}

	bps := im.NBPP / 8
	data := make([]byte, rows*cols*2*bps)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := fn(row0+r, col0+c)
			off := (r*cols + c) * 2 * bps
			switch pixelType {
			case "RE16I_IM16I":
				binary.BigEndian.PutUint16(data[off:], uint16(int16(real(v))))
				binary.BigEndian.PutUint16(data[off+2:], uint16(int16(imag(v))))
			case "AMP8I_PHS8I":
				data[off] = uint8(real(v))
				data[off+1] = uint8(imag(v))
			default:
				binary.BigEndian.PutUint32(data[off:], math.Float32bits(real(v)))
				binary.BigEndian.PutUint32(data[off+4:], math.Float32bits(imag(v)))
			}
		}
	}
	im.Data = data
	return im
}

// SplitRows describes a rows × cols SICD image split into horizontal
// strips of at most stripRows rows, chained by attachment level the way
// SICD writers split products that exceed the segment size limit.
func SplitRows(pixelType string, rows, cols, stripRows int, fn ComplexFunc) []Image {
	var out []Image
	for r0, i := 0, 0; r0 < rows; r0, i = r0+stripRows, i+1 {
		n := min(stripRows, rows-r0)
		im := ComplexImage(pixelType, n, cols, r0, 0, fn)
		im.DisplayLevel = i + 1
		if i > 0 {
			// ILOC is relative to the previous strip.
			im.AttachmentLevel = i
			im.Row = stripRows
		}
		out = append(out, im)
	}
	return out
}

// MonoImage describes an 8-bit single band image filled from fn.
func MonoImage(rows, cols int, fn func(row, col int) uint8) Image {
	data := make([]byte, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data[r*cols+c] = fn(r, c)
		}
	}
	return Image{
		ID:     "MONO",
		Rows:   rows,
		Cols:   cols,
		PVType: "INT",
		IRep:   "MONO",
		NBPP:   8,
		Mode:   'B',
		Bands:  []Band{{Rep: "M"}},
		Data:   data,
	}
}

// RGBImage describes an 8-bit three band image filled from fn.
func RGBImage(rows, cols int, fn func(row, col int) [3]uint8) Image {
	data := make([]byte, rows*cols*3)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			px := fn(r, c)
			copy(data[(r*cols+c)*3:], px[:])
		}
	}
	return Image{
		ID:     "RGB",
		Rows:   rows,
		Cols:   cols,
		PVType: "INT",
		IRep:   "RGB",
		NBPP:   8,
		Mode:   'P',
		Bands:  []Band{{Rep: "R"}, {Rep: "G"}, {Rep: "B"}},
		Data:   data,
	}
}

// LUTImage describes an 8-bit colour-indexed image with the given red,
// green and blue tables.
func LUTImage(rows, cols int, lut [3][]byte, fn func(row, col int) uint8) Image {
	im := MonoImage(rows, cols, fn)
	im.ID = "LUT"
	im.IRep = "RGB/LUT"
	im.Bands = []Band{{Rep: "LU", LUTs: [][]byte{lut[0], lut[1], lut[2]}}}
	return im
}
