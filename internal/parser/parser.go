package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/paulmach/orb/encoding/wkt"

	"github.com/holmesv3/nitf-viz/internal/source"
)

// Parser parses NITF 2.1 / NSIF 1.0 containers.
//
// A NITF file is a file header followed by segments in a fixed order:
// images, graphics, texts, data extensions, reserved extensions. The header
// carries a directory of subheader and data lengths for every segment, so
// the parser walks the byte stream by accumulating those lengths. Sample
// bytes are never copied; each image segment's Data is a sub-slice of the
// input.
//
// References:
//   - MIL-STD-2500C Table A-1: file header and segment directory
//   - MIL-STD-2500C Table A-3: image subheader
//   - MIL-STD-2500C Table A-8: data extension subheader
type Parser interface {
	// Parse decodes a NITF container held in memory.
	Parse(data []byte) (*File, error)

	// ParseWithOptions decodes with custom options.
	ParseWithOptions(data []byte, opts ParseOptions) (*File, error)

	// ParseFile maps a file and decodes it. The returned File must be closed.
	ParseFile(path string, opts ParseOptions) (*File, error)
}

// ParseOptions configures parsing behavior.
type ParseOptions struct {
	// Logger receives container diagnostics: segment offsets, lengths and
	// skipped segments. Nil means silent.
	Logger *slog.Logger

	// SkipUnsupportedImages: if true, image segments with an unsupported
	// representation or compression are left out instead of failing the
	// whole file.
	// Default: false
	SkipUnsupportedImages bool
}

// DefaultParseOptions returns parse options with defaults.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{}
}

func (o ParseOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// defaultParser implements the Parser interface
type defaultParser struct{}

// NewParser creates a new NITF parser.
func NewParser() Parser {
	return &defaultParser{}
}

func (p *defaultParser) Parse(data []byte) (*File, error) {
	return Parse(data, DefaultParseOptions())
}

func (p *defaultParser) ParseWithOptions(data []byte, opts ParseOptions) (*File, error) {
	return Parse(data, opts)
}

func (p *defaultParser) ParseFile(path string, opts ParseOptions) (*File, error) {
	return ParseFile(path, opts)
}

// ParseFile maps the file at path read-only and parses it.
//
// Image segment Data slices point into the mapping, so the returned File
// must be closed once its samples are no longer needed.
func ParseFile(path string, opts ParseOptions) (*File, error) {
	src, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(src.Bytes(), opts)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.closer = src
	return f, nil
}

// Parse decodes a NITF container held in memory.
//
// It fails with a *FormatError (possibly wrapped in *ErrSegment) when the
// identifier is missing, a length field disagrees with the bytes present,
// or a segment type or encoding is not supported.
func Parse(data []byte, opts ParseOptions) (*File, error) {
	log := opts.logger()

	h, err := parseFileHeader(data)
	if err != nil {
		return nil, err
	}
	log.Info("file header",
		"version", h.Profile+h.Version,
		"clevel", h.ComplexityLevel,
		"fl", h.FileLength,
		"hl", h.HeaderLength,
		"images", len(h.images),
		"graphics", len(h.graphics),
		"texts", len(h.texts),
		"extensions", len(h.extensions),
		"reserved", len(h.reserved))

	f := &File{Header: h.FileHeader}
	offset := h.HeaderLength

	// 1. Image segments
	for i, lens := range h.images {
		sub := data[offset : offset+lens.subheader]
		seg, err := parseImageSubheader(sub, offset)
		if err == nil {
			err = ValidateSegment(seg)
		}
		if err != nil {
			if opts.SkipUnsupportedImages && isUnsupported(err) {
				log.Warn("skipping image segment", "index", i, "error", err)
				offset += lens.subheader + lens.data
				continue
			}
			return nil, &ErrSegment{Kind: "image", Index: i, Err: err}
		}
		seg.Index = i
		seg.dataOffset = offset + lens.subheader
		if err := ValidateSegmentData(seg, lens.data, len(data)-seg.dataOffset); err != nil {
			return nil, &ErrSegment{Kind: "image", Index: i, Err: err}
		}
		need, _ := seg.ExpectedDataLength()
		seg.Data = data[seg.dataOffset : seg.dataOffset+int(need)]

		log.Debug("image segment",
			"index", i,
			"iid1", seg.ID,
			"offset", seg.dataOffset,
			"rows", seg.Rows,
			"cols", seg.Cols,
			"format", seg.Format.String(),
			"pvtype", string(seg.ValueType),
			"nbpp", seg.BitsPerPixel,
			"imode", seg.Mode.String(),
			"blocks", fmt.Sprintf("%dx%d", seg.BlocksPerRow, seg.BlocksPerCol),
			"idlvl", seg.DisplayLevel,
			"ialvl", seg.AttachmentLevel,
			"iloc", fmt.Sprintf("%d,%d", seg.RelativeLocation.Row, seg.RelativeLocation.Col),
			"icords", seg.Coordinates,
			"footprint", wkt.MarshalString(seg.Footprint))

		f.Images = append(f.Images, seg)
		offset += lens.subheader + lens.data
	}

	// 2. Graphic and text segments carry nothing this package interprets.
	for _, group := range []struct {
		kind string
		dir  []segmentLengths
	}{{"graphic", h.graphics}, {"text", h.texts}} {
		for i, lens := range group.dir {
			log.Debug("skipping segment", "kind", group.kind, "index", i, "offset", offset, "length", lens.subheader+lens.data)
			offset += lens.subheader + lens.data
		}
	}

	// 3. Data extension segments
	for i, lens := range h.extensions {
		ext, err := parseExtensionSubheader(data[offset:offset+lens.subheader], offset)
		if err != nil {
			return nil, &ErrSegment{Kind: "data extension", Index: i, Err: err}
		}
		ext.Index = i
		start := offset + lens.subheader
		ext.Data = data[start : start+lens.data]
		f.Extensions = append(f.Extensions, ext)

		xml := isXMLExtension(ext)
		log.Debug("data extension", "index", i, "desid", ext.ID, "offset", start, "length", lens.data, "xml", xml)
		if xml && f.MetadataPayload == nil {
			f.MetadataPayload = ext.Data
		}
		offset += lens.subheader + lens.data
	}

	// 4. Reserved extension segments
	for i, lens := range h.reserved {
		log.Debug("skipping segment", "kind", "reserved extension", "index", i, "offset", offset, "length", lens.subheader+lens.data)
		offset += lens.subheader + lens.data
	}

	if err := resolveLocations(f.Images); err != nil {
		return nil, err
	}
	for _, seg := range f.Images {
		log.Debug("image location", "index", seg.Index, "row", seg.Location.Row, "col", seg.Location.Col)
	}
	return f, nil
}

// isUnsupported reports whether err names a valid but unsupported encoding.
func isUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

var _ io.Closer = (*File)(nil)
