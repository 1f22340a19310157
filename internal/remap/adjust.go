package remap

import (
	"math"

	"github.com/holmesv3/nitf-viz/internal/raster"
)

// Adjust applies brightness then contrast to every byte of r in place.
//
// Brightness shifts v and the mid-grey pivot 128 together; contrast then
// scales the distance from the shifted pivot by f = ((100 + contrast)/100)².
// Each value v becomes clamp(round((v − 128)·f + 128) + brightness, 0, 255),
// so a brightness step moves every unclamped value by exactly that step at
// any contrast. Only the final value is clamped.
func Adjust(r *raster.Raster, brightness int32, contrast float32) {
	if brightness == 0 && contrast == 0 {
		return
	}
	var table [256]byte
	f := contrastFactor(contrast)
	for v := range table {
		table[v] = adjustValue(v, brightness, f)
	}
	for i, v := range r.Pix {
		r.Pix[i] = table[v]
	}
}

func contrastFactor(contrast float32) float64 {
	k := (100 + float64(contrast)) / 100
	return k * k
}

func adjustValue(v int, brightness int32, factor float64) byte {
	pivot := 128 + int64(brightness)
	shifted := int64(v) + int64(brightness)
	out := math.Round(float64(shifted-pivot)*factor) + float64(pivot)
	return byte(math.Min(math.Max(out, 0), 255))
}
