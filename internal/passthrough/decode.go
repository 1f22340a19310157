package passthrough

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/holmesv3/nitf-viz/internal/assemble"
	"github.com/holmesv3/nitf-viz/internal/parallel"
	"github.com/holmesv3/nitf-viz/internal/parser"
	"github.com/holmesv3/nitf-viz/internal/raster"
)

// decodeMono decodes the significant pixels of a one band segment.
func decodeMono(seg *parser.ImageSegment) (*raster.Raster, error) {
	if len(seg.Bands) != 1 {
		return nil, decodeError(seg, "mono image has %d bands", len(seg.Bands))
	}
	return decodeBands(seg, 1)
}

// decodeRGB decodes the significant pixels of a three band segment, bands
// in red, green, blue order.
func decodeRGB(seg *parser.ImageSegment) (*raster.Raster, error) {
	if len(seg.Bands) != 3 {
		return nil, decodeError(seg, "RGB image has %d bands", len(seg.Bands))
	}
	return decodeBands(seg, 3)
}

// decodeBands reads every band sample as a number and maps the values onto
// 0-255. 8-bit unsigned samples are used as they are; every other encoding
// is stretched linearly from the smallest to the largest finite sample of
// the segment, shared by all bands so colour balance is kept.
func decodeBands(seg *parser.ImageSegment, channels int) (*raster.Raster, error) {
	if err := checkData(seg); err != nil {
		return nil, err
	}
	out, err := raster.New(seg.Rows, seg.Cols, channels)
	if err != nil {
		return nil, decodeError(seg, "%v", err)
	}
	read, err := sampleReader(seg)
	if err != nil {
		return nil, err
	}

	if seg.ValueType == parser.PixelValueInt && seg.BitsPerPixel == 8 {
		err = parallel.Rows(seg.Rows, func(lo, hi int) error {
			for r := lo; r < hi; r++ {
				dst := out.Row(r)
				for c := 0; c < seg.Cols; c++ {
					for b := 0; b < channels; b++ {
						dst[c*channels+b] = seg.Data[seg.SampleOffset(r, c, b)]
					}
				}
			}
			return nil
		})
		return out, err
	}

	values := make([]float64, seg.Rows*seg.Cols*channels)
	lows := make([]float64, seg.Rows)
	highs := make([]float64, seg.Rows)
	err = parallel.Rows(seg.Rows, func(lo, hi int) error {
		for r := lo; r < hi; r++ {
			low, high := math.Inf(1), math.Inf(-1)
			row := values[r*seg.Cols*channels : (r+1)*seg.Cols*channels]
			for c := 0; c < seg.Cols; c++ {
				for b := 0; b < channels; b++ {
					v := read(seg.SampleOffset(r, c, b))
					row[c*channels+b] = v
					if math.IsNaN(v) || math.IsInf(v, 0) {
						continue
					}
					low, high = math.Min(low, v), math.Max(high, v)
				}
			}
			lows[r], highs[r] = low, high
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	low, high := math.Inf(1), math.Inf(-1)
	for r := range lows {
		low, high = math.Min(low, lows[r]), math.Max(high, highs[r])
	}
	if high <= low {
		// Constant or entirely non-finite: everything stays black.
		return out, nil
	}
	scale := 255 / (high - low)
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out.Pix[i] = byte(math.Round((v - low) * scale))
	}
	return out, nil
}

// decodeLUT maps 8-bit indices through the band's red, green and blue
// tables. Indices past the end of a table display as 0.
func decodeLUT(seg *parser.ImageSegment) (*raster.Raster, error) {
	if len(seg.Bands) != 1 || len(seg.Bands[0].LUT) != 3 {
		return nil, decodeError(seg, "RGB/LUT image needs one band with three lookup tables")
	}
	luts := seg.Bands[0].LUT
	if err := checkData(seg); err != nil {
		return nil, err
	}
	out, err := raster.New(seg.Rows, seg.Cols, 3)
	if err != nil {
		return nil, decodeError(seg, "%v", err)
	}
	err = parallel.Rows(seg.Rows, func(lo, hi int) error {
		for r := lo; r < hi; r++ {
			dst := out.Row(r)
			for c := 0; c < seg.Cols; c++ {
				idx := int(seg.Data[seg.SampleOffset(r, c, 0)])
				for ch, lut := range luts {
					if idx < len(lut) {
						dst[c*3+ch] = lut[idx]
					}
				}
			}
		}
		return nil
	})
	return out, err
}

// sampleReader returns a function decoding the big-endian sample at a byte
// offset of seg.Data.
func sampleReader(seg *parser.ImageSegment) (func(off int) float64, error) {
	data := seg.Data
	bps := seg.BytesPerSample()
	switch seg.ValueType {
	case parser.PixelValueInt:
		return func(off int) float64 {
			return float64(uintN(data[off : off+bps]))
		}, nil
	case parser.PixelValueSigned:
		shift := 64 - 8*bps
		return func(off int) float64 {
			return float64(int64(uintN(data[off:off+bps])<<shift) >> shift)
		}, nil
	case parser.PixelValueReal:
		switch bps {
		case 4:
			return func(off int) float64 {
				return float64(math.Float32frombits(binary.BigEndian.Uint32(data[off:])))
			}, nil
		case 8:
			return func(off int) float64 {
				return math.Float64frombits(binary.BigEndian.Uint64(data[off:]))
			}, nil
		}
	}
	return nil, decodeError(seg, "%d-bit %s samples cannot be displayed", seg.BitsPerPixel, seg.ValueType)
}

// uintN decodes an unsigned big-endian integer of up to 8 bytes.
func uintN(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

func checkData(seg *parser.ImageSegment) error {
	need, ok := seg.ExpectedDataLength()
	if !ok || uint64(len(seg.Data)) < need {
		return decodeError(seg, "sample data is truncated (%d bytes)", len(seg.Data))
	}
	return nil
}

func decodeError(seg *parser.ImageSegment, format string, args ...any) *assemble.DecodeError {
	return &assemble.DecodeError{Segment: seg.Index, Reason: fmt.Sprintf(format, args...)}
}
