package projection

import (
	"fmt"
	"math"

	"github.com/holmesv3/nitf-viz/internal/parallel"
	"github.com/holmesv3/nitf-viz/internal/raster"
	"github.com/holmesv3/nitf-viz/internal/sicd"
)

// Background is the value of output cells with no slant sample behind them.
const Background = 0

// Project resamples a slant-plane raster onto the ground plane.
//
// slant is the display raster decimated from the md.NumRows × md.NumCols
// complex image; its per-pixel spacing and the raster position of the SCP
// are scaled accordingly. The output has the same dimensions as slant. Cell
// (i, j) is the ground point SCP + (i − c_r)·Δr·GroundRow + (j − c_c)·Δc·GroundCol,
// projected along the line of sight onto the slant plane and filled from
// the nearest slant sample, or Background when that falls outside slant.
func Project(slant *raster.Raster, md *sicd.Metadata) (*raster.Raster, error) {
	if slant == nil || slant.Rows <= 0 || slant.Cols <= 0 {
		return nil, fmt.Errorf("slant raster is empty")
	}
	m, err := NewModel(md)
	if err != nil {
		return nil, err
	}
	g := newGrid(slant, md)

	out, err := raster.New(slant.Rows, slant.Cols, slant.Channels)
	if err != nil {
		return nil, err
	}
	err = parallel.Rows(slant.Rows, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			dst := out.Row(i)
			gr := (float64(i) - g.centerRow) * g.rowSpacing
			for j := 0; j < slant.Cols; j++ {
				gc := (float64(j) - g.centerCol) * g.colSpacing
				a, b := m.GroundToSlant(gr, gc)
				row := math.Round(g.centerRow + a/g.rowSpacing)
				col := math.Round(g.centerCol + b/g.colSpacing)
				if !(row >= 0 && row < float64(slant.Rows) && col >= 0 && col < float64(slant.Cols)) {
					continue // Background
				}
				r, c := int(row), int(col)
				copy(dst[j*slant.Channels:(j+1)*slant.Channels], slant.Pix[(r*slant.Cols+c)*slant.Channels:])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// grid is the raster geometry of a decimated image.
type grid struct {
	rowSpacing, colSpacing float64 // metres per raster pixel
	centerRow, centerCol   float64 // raster position of the SCP
}

func newGrid(r *raster.Raster, md *sicd.Metadata) grid {
	rowScale := float64(md.NumRows) / float64(r.Rows)
	colScale := float64(md.NumCols) / float64(r.Cols)
	return grid{
		rowSpacing: md.RowSS * rowScale,
		colSpacing: md.ColSS * colScale,
		centerRow:  float64(md.SCPPixel.Row-md.FirstRow) / rowScale,
		centerCol:  float64(md.SCPPixel.Col-md.FirstCol) / colScale,
	}
}
