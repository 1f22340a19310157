package sicd

import (
	"math"

	"github.com/golang/geo/r3"
)

// WGS-84 ellipsoid.
const (
	SemiMajorAxis = 6378137.0
	Flattening    = 1 / 298.257223563
	SemiMinorAxis = SemiMajorAxis * (1 - Flattening)

	eccentricitySq = Flattening * (2 - Flattening)
)

// GeodeticToECF converts a geodetic position to ECF metres.
func GeodeticToECF(p LLH) r3.Vector {
	lat := p.Lat * math.Pi / 180
	lon := p.Lon * math.Pi / 180
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	n := SemiMajorAxis / math.Sqrt(1-eccentricitySq*sinLat*sinLat)
	return r3.Vector{
		X: (n + p.HAE) * cosLat * cosLon,
		Y: (n + p.HAE) * cosLat * sinLon,
		Z: (n*(1-eccentricitySq) + p.HAE) * sinLat,
	}
}

// ECFToGeodetic converts ECF metres to a geodetic position.
//
// Latitude is found by fixed-point iteration on the prime vertical radius,
// which converges to well under a millimetre within a few steps for points
// near the ellipsoid surface.
func ECFToGeodetic(v r3.Vector) LLH {
	p := math.Hypot(v.X, v.Y)
	lon := math.Atan2(v.Y, v.X)
	if p < 1e-9 {
		lat := math.Copysign(math.Pi/2, v.Z)
		return LLH{Lat: lat * 180 / math.Pi, Lon: 0, HAE: math.Abs(v.Z) - SemiMinorAxis}
	}

	lat := math.Atan2(v.Z, p*(1-eccentricitySq))
	var h float64
	for i := 0; i < 10; i++ {
		sinLat := math.Sin(lat)
		n := SemiMajorAxis / math.Sqrt(1-eccentricitySq*sinLat*sinLat)
		h = p/math.Cos(lat) - n
		next := math.Atan2(v.Z, p*(1-eccentricitySq*n/(n+h)))
		if math.Abs(next-lat) < 1e-14 {
			lat = next
			break
		}
		lat = next
	}
	return LLH{Lat: lat * 180 / math.Pi, Lon: lon * 180 / math.Pi, HAE: h}
}

// GeodeticNormal returns the outward unit normal of the ellipsoid at a
// geodetic latitude and longitude in degrees.
func GeodeticNormal(p LLH) r3.Vector {
	lat := p.Lat * math.Pi / 180
	lon := p.Lon * math.Pi / 180
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	return r3.Vector{X: cosLat * cosLon, Y: cosLat * sinLon, Z: sinLat}
}
