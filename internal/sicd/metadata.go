// Package sicd decodes the Sensor Independent Complex Data (SICD) XML
// descriptor embedded in a NITF data extension segment.
//
// Only the parts of the descriptor needed to assemble, display and
// ground-project the complex image are decoded: image extent and sample
// encoding, the scene centre point, the slant-plane grid basis and the
// aperture reference position.
//
// References:
//   - NGA.STND.0024-1 (SICD Volume 1, Design & Implementation Description)
package sicd

import (
	"github.com/golang/geo/r3"
	"github.com/paulmach/orb"
)

// PixelType is the ImageData/PixelType sample encoding.
type PixelType string

const (
	PixelTypeRE32F PixelType = "RE32F_IM32F" // float32 real, float32 imaginary
	PixelTypeRE16I PixelType = "RE16I_IM16I" // int16 real, int16 imaginary
	PixelTypeAMP8I PixelType = "AMP8I_PHS8I" // uint8 amplitude index, uint8 phase
)

// Valid reports whether t is one of the three SICD pixel types.
func (t PixelType) Valid() bool {
	switch t {
	case PixelTypeRE32F, PixelTypeRE16I, PixelTypeAMP8I:
		return true
	}
	return false
}

// BitsPerComponent returns the width of each of the two sample components.
func (t PixelType) BitsPerComponent() int {
	switch t {
	case PixelTypeRE32F:
		return 32
	case PixelTypeRE16I:
		return 16
	case PixelTypeAMP8I:
		return 8
	}
	return 0
}

// AmpTableSize is the number of entries in an AMP8I_PHS8I amplitude table.
const AmpTableSize = 256

// Pixel is a row/column position in the full image grid.
type Pixel struct {
	Row int
	Col int
}

// LLH is a geodetic position: latitude and longitude in degrees, height
// above the WGS-84 ellipsoid in metres.
type LLH struct {
	Lat float64
	Lon float64
	HAE float64
}

// Metadata is the decoded SICD descriptor.
//
// Vectors are in Earth-Centred Fixed (ECF) metres; RowUVect and ColUVect
// are normalised and guaranteed non-collinear.
type Metadata struct {
	Version       string // from the urn:SICD:x.y.z namespace, empty when absent
	CollectorName string
	CoreName      string

	PixelType PixelType
	AmpTable  []float64 // AmpTableSize entries, nil when absent

	NumRows  int
	NumCols  int
	FirstRow int
	FirstCol int
	SCPPixel Pixel

	SCP    r3.Vector
	SCPLLH LLH

	RowUVect r3.Vector
	ColUVect r3.Vector
	RowSS    float64 // metres between rows
	ColSS    float64 // metres between columns

	ARP    r3.Vector
	HasARP bool

	GrazeAng float64 // degrees
	TwistAng float64 // degrees

	// Footprint is the GeoData/ImageCorners ring in lon/lat order, nil when absent.
	Footprint orb.Polygon
}

// SlantNormal returns RowUVect × ColUVect, normalised.
func (m *Metadata) SlantNormal() r3.Vector {
	return m.RowUVect.Cross(m.ColUVect).Normalize()
}

// Amplitude returns the linear amplitude for an AMP8I amplitude index.
func (m *Metadata) Amplitude(index uint8) float64 {
	if m.AmpTable == nil {
		return float64(index)
	}
	return m.AmpTable[index]
}
