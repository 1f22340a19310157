// Package raster holds the 8-bit display rasters produced by every
// rendering path and handed to the encoder.
package raster

import (
	"fmt"
	"image"
	"image/color"
)

// Raster is a row-major 8-bit image with 1 (gray) or 3 (RGB) channels.
type Raster struct {
	Rows     int
	Cols     int
	Channels int
	Pix      []byte
}

// New allocates a zeroed raster.
func New(rows, cols, channels int) (*Raster, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("raster size %dx%d is empty", rows, cols)
	}
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("raster must have 1 or 3 channels, got %d", channels)
	}
	return &Raster{Rows: rows, Cols: cols, Channels: channels, Pix: make([]byte, rows*cols*channels)}, nil
}

// Row returns the bytes of one row.
func (r *Raster) Row(row int) []byte {
	stride := r.Cols * r.Channels
	return r.Pix[row*stride : (row+1)*stride]
}

// At returns the value of one channel of one pixel.
func (r *Raster) At(row, col, ch int) byte {
	return r.Pix[(row*r.Cols+col)*r.Channels+ch]
}

// Set writes one channel of one pixel.
func (r *Raster) Set(row, col, ch int, v byte) {
	r.Pix[(row*r.Cols+col)*r.Channels+ch] = v
}

// Image returns an image.Image sharing nothing with r: *image.Gray for one
// channel, *image.RGBA for three.
func (r *Raster) Image() image.Image {
	rect := image.Rect(0, 0, r.Cols, r.Rows)
	if r.Channels == 1 {
		img := image.NewGray(rect)
		for row := 0; row < r.Rows; row++ {
			copy(img.Pix[row*img.Stride:], r.Row(row))
		}
		return img
	}
	img := image.NewRGBA(rect)
	for row := 0; row < r.Rows; row++ {
		src := r.Row(row)
		dst := img.Pix[row*img.Stride:]
		for col := 0; col < r.Cols; col++ {
			dst[col*4+0] = src[col*3+0]
			dst[col*4+1] = src[col*3+1]
			dst[col*4+2] = src[col*3+2]
			dst[col*4+3] = 0xff
		}
	}
	return img
}

// FromImage converts img to a raster. Gray images keep one channel;
// everything else becomes RGB with alpha discarded.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok {
		r := &Raster{Rows: b.Dy(), Cols: b.Dx(), Channels: 1, Pix: make([]byte, b.Dx()*b.Dy())}
		for row := 0; row < r.Rows; row++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+row)
			copy(r.Row(row), g.Pix[off:off+r.Cols])
		}
		return r
	}
	r := &Raster{Rows: b.Dy(), Cols: b.Dx(), Channels: 3, Pix: make([]byte, b.Dx()*b.Dy()*3)}
	if rgba, ok := img.(*image.RGBA); ok {
		for row := 0; row < r.Rows; row++ {
			dst := r.Row(row)
			src := rgba.Pix[rgba.PixOffset(b.Min.X, b.Min.Y+row):]
			for col := 0; col < r.Cols; col++ {
				copy(dst[col*3:col*3+3], src[col*4:col*4+3])
			}
		}
		return r
	}
	for row := 0; row < r.Rows; row++ {
		dst := r.Row(row)
		for col := 0; col < r.Cols; col++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+col, b.Min.Y+row)).(color.RGBA)
			dst[col*3+0], dst[col*3+1], dst[col*3+2] = c.R, c.G, c.B
		}
	}
	return r
}
