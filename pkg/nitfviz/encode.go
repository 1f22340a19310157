package nitfviz

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// frameDelay is the GIF frame delay in hundredths of a second.
const frameDelay = 50

// Encode writes p's rasters in p.Format.
func Encode(w io.Writer, p *Product) error {
	if p == nil || len(p.Rasters) == 0 {
		return fmt.Errorf("nothing to encode")
	}
	switch p.Format {
	case FormatPNG:
		if len(p.Rasters) != 1 {
			return fmt.Errorf("PNG output holds one raster, got %d", len(p.Rasters))
		}
		return png.Encode(w, p.Rasters[0].Image())
	case FormatGIF:
		return encodeGIF(w, p.Rasters)
	default:
		return fmt.Errorf("unsupported output format %s", p.Format)
	}
}

// encodeGIF writes one frame per raster on a canvas large enough for the
// biggest, looping forever. Gray frames use an exact 256-level palette; RGB
// frames are dithered to the Plan 9 palette.
func encodeGIF(w io.Writer, rasters []*Raster) error {
	anim := &gif.GIF{LoopCount: 0}
	for _, r := range rasters {
		src := r.Image()
		frame := image.NewPaletted(src.Bounds(), framePalette(r.Channels))
		if r.Channels == 1 {
			draw.Draw(frame, frame.Rect, src, image.Point{}, draw.Src)
		} else {
			draw.FloydSteinberg.Draw(frame, frame.Rect, src, image.Point{})
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, frameDelay)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
		anim.Config.Width = max(anim.Config.Width, r.Cols)
		anim.Config.Height = max(anim.Config.Height, r.Rows)
	}
	return gif.EncodeAll(w, anim)
}

var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

func framePalette(channels int) color.Palette {
	if channels == 1 {
		return grayPalette
	}
	return palette.Plan9
}

// WriteFile encodes p to path through a temporary file in the same
// directory, renamed into place once fully written.
func WriteFile(path string, p *Product) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = Encode(bw, p); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
