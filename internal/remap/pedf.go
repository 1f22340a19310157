package remap

import "math"

// Epsilon is the smallest magnitude and breakpoint the density curve takes
// a logarithm of.
const Epsilon = 1e-5

// PEDF output range before compression: magnitudes at the low breakpoint
// map to densityLow and magnitudes at the high breakpoint to densityHigh.
const (
	densityLow  = 30
	densityHigh = 255

	// highRatio is the ratio of the high breakpoint to the low one.
	highRatio = 40
	// lowFraction scales the mean magnitude into the low breakpoint.
	lowFraction = 0.8

	// compressKnee is where the upper half of the density range is halved.
	compressKnee = 127
)

// Pedf is a Piecewise Extended Density Format transfer curve: a
// logarithmic density ramp between two magnitude breakpoints, with the
// upper half of the output range compressed.
type Pedf struct {
	Low      float64 // low breakpoint (cl)
	High     float64 // high breakpoint (ch)
	Slope    float64
	Constant float64
}

// NewPedf builds the curve for an image with the given mean magnitude.
//
// The low breakpoint is 0.8 × mean (floored at Epsilon so an all-zero image
// stays finite) and the high breakpoint 40 × the low one.
func NewPedf(mean float64) Pedf {
	cl := lowFraction * mean
	if !(cl > Epsilon) {
		cl = Epsilon
	}
	ch := highRatio * cl
	slope := (densityHigh - densityLow) / math.Log10(ch/cl)
	return Pedf{
		Low:      cl,
		High:     ch,
		Slope:    slope,
		Constant: densityLow - slope*math.Log10(cl),
	}
}

// Density maps a magnitude to an 8-bit display value.
func (p Pedf) Density(mag float64) uint8 {
	if math.IsNaN(mag) || math.IsInf(mag, 0) {
		return 0
	}
	d := p.Slope*math.Log10(math.Max(mag, Epsilon)) + p.Constant
	d = math.Min(math.Max(d, 0), 255)
	if d > compressKnee {
		d = (d + compressKnee) / 2
	}
	return uint8(d)
}
