package passthrough

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/holmesv3/nitf-viz/internal/raster"
)

// ThumbnailSize returns the rows and columns of a thumbnail covering about
// n² pixels with the aspect ratio of a rows × cols image.
func ThumbnailSize(rows, cols, n int) (int, int) {
	area := float64(n) * float64(n)
	aspect := float64(cols) / float64(rows)
	w := max(int(math.Sqrt(aspect*area)), 1)
	h := max(int(area/float64(w)), 1)
	return h, w
}

// Thumbnail scales r to ThumbnailSize with bilinear filtering.
func Thumbnail(r *raster.Raster, n int) *raster.Raster {
	rows, cols := ThumbnailSize(r.Rows, r.Cols, n)
	if rows == r.Rows && cols == r.Cols {
		return r
	}
	src := r.Image()
	rect := image.Rect(0, 0, cols, rows)
	var dst draw.Image
	if r.Channels == 1 {
		dst = image.NewGray(rect)
	} else {
		dst = image.NewRGBA(rect)
	}
	draw.BiLinear.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
	return raster.FromImage(dst)
}
