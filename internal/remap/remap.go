// Package remap converts complex SAR magnitude into an 8-bit display raster.
package remap

import (
	"fmt"
	"math"

	"github.com/holmesv3/nitf-viz/internal/assemble"
	"github.com/holmesv3/nitf-viz/internal/parallel"
	"github.com/holmesv3/nitf-viz/internal/raster"
)

// Params controls the display remap.
type Params struct {
	// Brightness is added to every display value before contrast.
	Brightness int32

	// Contrast scales display values about mid-grey by ((100+Contrast)/100)².
	// 0 leaves them unchanged.
	Contrast float32

	// Size is the edge length N of the N×N output raster.
	Size int
}

// DefaultParams returns remap parameters with defaults.
func DefaultParams() Params {
	return Params{Size: 256}
}

// Remap produces a Size × Size display raster from img.
//
// Output cell (i, j) shows input sample (i·Rows/N, j·Cols/N) with integer
// division, passed through the PEDF curve of the whole image's mean
// magnitude and then through brightness and contrast.
func Remap(img *assemble.Image, p Params) (*raster.Raster, error) {
	n := p.Size
	if n <= 0 {
		return nil, fmt.Errorf("output size %d must be positive", n)
	}
	if img == nil || img.Rows <= 0 || img.Cols <= 0 {
		return nil, fmt.Errorf("complex image is empty")
	}

	curve := NewPedf(MeanMagnitude(img))
	out, err := raster.New(n, n, 1)
	if err != nil {
		return nil, err
	}
	err = parallel.Rows(n, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			src := img.Row(int(int64(i) * int64(img.Rows) / int64(n)))
			dst := out.Row(i)
			for j := range dst {
				z := src[int64(j)*int64(img.Cols)/int64(n)]
				dst[j] = curve.Density(math.Hypot(float64(real(z)), float64(imag(z))))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	Adjust(out, p.Brightness, p.Contrast)
	return out, nil
}

// MeanMagnitude returns the sum of every finite |z| in img divided by the
// number of grid cells. Non-finite magnitudes add nothing but still count.
//
// Rows are summed independently and then combined in row order, so the
// result does not depend on how work is split between goroutines.
func MeanMagnitude(img *assemble.Image) float64 {
	cells := img.Rows * img.Cols
	if cells == 0 {
		return 0
	}
	sums := make([]float64, img.Rows)
	_ = parallel.Rows(img.Rows, func(lo, hi int) error {
		for r := lo; r < hi; r++ {
			var sum float64
			for _, z := range img.Row(r) {
				m := math.Hypot(float64(real(z)), float64(imag(z)))
				if math.IsNaN(m) || math.IsInf(m, 0) {
					continue
				}
				sum += m
			}
			sums[r] = sum
		}
		return nil
	})

	var total float64
	for _, sum := range sums {
		total += sum
	}
	return total / float64(cells)
}
