package assemble

import (
	"encoding/binary"
	"math"

	"github.com/holmesv3/nitf-viz/internal/parser"
	"github.com/holmesv3/nitf-viz/internal/sicd"
)

// InferPixelType returns the SICD pixel type a complex segment's encoding
// corresponds to, or "" when it matches none.
func InferPixelType(seg *parser.ImageSegment) sicd.PixelType {
	if seg.Format != parser.PixelFormatComplex || len(seg.Bands) != 2 {
		return ""
	}
	iq := seg.Bands[0].Subcategory == "I" && seg.Bands[1].Subcategory == "Q"
	mp := seg.Bands[0].Subcategory == "M" && seg.Bands[1].Subcategory == "P"
	switch {
	case iq && seg.ValueType == parser.PixelValueReal && seg.BitsPerPixel == 32:
		return sicd.PixelTypeRE32F
	case iq && seg.ValueType == parser.PixelValueSigned && seg.BitsPerPixel == 16:
		return sicd.PixelTypeRE16I
	case mp && seg.ValueType == parser.PixelValueInt && seg.BitsPerPixel == 8:
		return sicd.PixelTypeAMP8I
	}
	return ""
}

// DecodeSegment decodes every sample of a complex segment into a
// seg.Rows × seg.Cols row-major slice.
//
// md supplies the pixel type and, for AMP8I_PHS8I, the amplitude table;
// without a table the amplitude index is the amplitude.
func DecodeSegment(seg *parser.ImageSegment, md *sicd.Metadata) ([]complex64, error) {
	out := make([]complex64, seg.Rows*seg.Cols)
	if err := decodeInto(out, seg.Cols, seg, md); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeInto writes the segment's samples into dst, whose rows are stride
// samples apart.
//
// Samples are big-endian. RE32F_IM32F and RE16I_IM16I carry the real part in
// band 0 and the imaginary part in band 1; AMP8I_PHS8I carries an amplitude
// index in band 0 and a phase of p/256 turns in band 1.
func decodeInto(dst []complex64, stride int, seg *parser.ImageSegment, md *sicd.Metadata) error {
	pt := md.PixelType
	if got := InferPixelType(seg); got != pt {
		return decodeError(seg.Index, "%d-bit %s samples do not match pixel type %s", seg.BitsPerPixel, seg.ValueType, pt)
	}
	if md.AmpTable != nil && len(md.AmpTable) != sicd.AmpTableSize {
		return decodeError(seg.Index, "amplitude table has %d entries", len(md.AmpTable))
	}
	need, ok := seg.ExpectedDataLength()
	if !ok || uint64(len(seg.Data)) < need {
		return decodeError(seg.Index, "sample data is truncated (%d bytes)", len(seg.Data))
	}

	data := seg.Data
	for r := 0; r < seg.Rows; r++ {
		row := dst[r*stride : r*stride+seg.Cols]
		for c := range row {
			re := seg.SampleOffset(r, c, 0)
			im := seg.SampleOffset(r, c, 1)
			switch pt {
			case sicd.PixelTypeRE32F:
				row[c] = complex(
					math.Float32frombits(binary.BigEndian.Uint32(data[re:])),
					math.Float32frombits(binary.BigEndian.Uint32(data[im:])))
			case sicd.PixelTypeRE16I:
				row[c] = complex(
					float32(int16(binary.BigEndian.Uint16(data[re:]))),
					float32(int16(binary.BigEndian.Uint16(data[im:]))))
			case sicd.PixelTypeAMP8I:
				amp := md.Amplitude(data[re])
				phase := float64(data[im]) / 256 * 2 * math.Pi
				s, c2 := math.Sincos(phase)
				row[c] = complex(float32(amp*c2), float32(amp*s))
			}
		}
	}
	return nil
}
