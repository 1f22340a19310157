package nitfviz

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/holmesv3/nitf-viz/internal/assemble"
	"github.com/holmesv3/nitf-viz/internal/parser"
	"github.com/holmesv3/nitf-viz/internal/passthrough"
	"github.com/holmesv3/nitf-viz/internal/projection"
	"github.com/holmesv3/nitf-viz/internal/raster"
	"github.com/holmesv3/nitf-viz/internal/remap"
	"github.com/holmesv3/nitf-viz/internal/sicd"
)

type (
	// File is a parsed NITF container.
	File = parser.File

	// ImageSegment is one parsed image segment.
	ImageSegment = parser.ImageSegment

	// Metadata is a decoded SICD descriptor.
	Metadata = sicd.Metadata

	// Raster is an 8-bit gray or RGB display raster.
	Raster = raster.Raster
)

// State is a step of the rendering state machine.
//
//	Detect → SicdPath | MultiSegmentPath | SingleSegmentPath → Render → Done
type State int

const (
	StateDetect State = iota
	StateSicdPath
	StateMultiSegmentPath
	StateSingleSegmentPath
	StateRender
	StateDone
)

func (s State) String() string {
	switch s {
	case StateDetect:
		return "detect"
	case StateSicdPath:
		return "sicd"
	case StateMultiSegmentPath:
		return "multi-segment"
	case StateSingleSegmentPath:
		return "single-segment"
	case StateRender:
		return "render"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Format is the output image format.
type Format int

const (
	FormatPNG Format = iota
	FormatGIF
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatGIF:
		return "gif"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the file name extension for f, without the dot.
func (f Format) Extension() string {
	return f.String()
}

// Product is the outcome of Dispatch: the path taken and the rasters to encode.
type Product struct {
	Path   State
	Format Format

	// Rasters holds one raster for PNG output and one frame per image
	// segment, in file order, for GIF output.
	Rasters []*Raster

	// Metadata is the SICD descriptor used on the SICD path, nil otherwise.
	Metadata *Metadata

	// Footprint is the scene outline in lon/lat from the SICD image corners
	// or the image segments' IGEOLO corners, nil when the file has neither.
	Footprint orb.Polygon
}

// Dispatch selects the rendering path for f and produces its rasters.
//
// Valid SICD metadata always selects the SICD path, whatever the number of
// image segments; a failure on that path is returned, never retried
// another way. A file without image segments fails with a *FormatError.
func Dispatch(f *File, opts Options) (*Product, error) {
	if f == nil {
		return nil, fmt.Errorf("nitf file is nil")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	log := opts.logger()

	var md *sicd.Metadata
	p := &Product{}
	for state := StateDetect; state != StateRender; {
		log.Debug("dispatch", "state", state)
		switch state {
		case StateDetect:
			var err error
			if md, err = detect(f, opts); err != nil {
				return nil, err
			}
			switch {
			case md != nil:
				state = StateSicdPath
			case len(f.Images) > 1:
				state = StateMultiSegmentPath
			default:
				state = StateSingleSegmentPath
			}
			p.Path = state
			p.Footprint = sceneFootprint(f, md)
			log.Info("rendering path selected", "path", state, "images", len(f.Images), "sicd", md != nil,
				"footprint", FootprintWKT(p.Footprint))

		case StateSicdPath:
			r, err := renderSICD(f, md, opts)
			if err != nil {
				return nil, err
			}
			p.Format, p.Rasters, p.Metadata = FormatPNG, []*Raster{r}, md
			state = StateRender

		case StateMultiSegmentPath:
			frames := make([]*Raster, 0, len(f.Images))
			for _, seg := range f.Images {
				r, err := passthrough.Render(seg, opts.remapParams())
				if err != nil {
					return nil, err
				}
				log.Debug("frame rendered", "segment", seg.Index, "rows", r.Rows, "cols", r.Cols)
				frames = append(frames, r)
			}
			p.Format, p.Rasters = FormatGIF, frames
			state = StateRender

		case StateSingleSegmentPath:
			r, err := passthrough.Render(f.Images[0], opts.remapParams())
			if err != nil {
				return nil, err
			}
			p.Format, p.Rasters = FormatPNG, []*Raster{r}
			state = StateRender

		default:
			return nil, fmt.Errorf("dispatch reached unexpected state %s", state)
		}
	}
	return p, nil
}

// detect checks that f has something to render and extracts its SICD
// metadata according to the metadata policy.
func detect(f *File, opts Options) (*sicd.Metadata, error) {
	if len(f.Images) == 0 {
		return nil, &parser.FormatError{Field: "NUMI", Offset: -1, Reason: "file has no image segments", Err: parser.ErrUnsupported}
	}
	md, err := sicd.Extract(f.MetadataPayload)
	if err != nil {
		if opts.MetadataPolicy == MetadataFatal {
			return nil, err
		}
		opts.logger().Warn("ignoring SICD metadata", "error", err)
		return nil, nil
	}
	return md, nil
}

func renderSICD(f *File, md *sicd.Metadata, opts Options) (*Raster, error) {
	log := opts.logger()
	img, err := assemble.Assemble(f.Images, md)
	if err != nil {
		return nil, err
	}
	log.Debug("complex image assembled", "rows", img.Rows, "cols", img.Cols, "pixel_type", md.PixelType)

	slant, err := remap.Remap(img, opts.remapParams())
	if err != nil {
		return nil, err
	}
	ground, err := projection.Project(slant, md)
	if err != nil {
		return nil, err
	}
	log.Debug("projected to ground plane", "size", opts.Size)
	return ground, nil
}
