// Package assemble reconstructs one complex image plane from the image
// segments of a SICD product.
//
// NITF limits the size of a single image segment, so large SICD products
// are split into several segments placed by their attachment-resolved
// locations. The pieces are checked to tile the declared extent exactly
// before any memory is allocated for the full plane.
package assemble

import "math/cmplx"

// Image is a row-major grid of complex samples.
type Image struct {
	Rows int
	Cols int
	Data []complex64
}

// NewImage allocates a zeroed rows × cols image.
func NewImage(rows, cols int) *Image {
	return &Image{Rows: rows, Cols: cols, Data: make([]complex64, rows*cols)}
}

// At returns the sample at (row, col).
func (im *Image) At(row, col int) complex64 {
	return im.Data[row*im.Cols+col]
}

// Row returns the samples of one row.
func (im *Image) Row(row int) []complex64 {
	return im.Data[row*im.Cols : (row+1)*im.Cols]
}

// Magnitude returns |z| of the sample at (row, col).
func (im *Image) Magnitude(row, col int) float64 {
	return cmplx.Abs(complex128(im.At(row, col)))
}
