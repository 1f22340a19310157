package nitfviz

import (
	"fmt"
	"os"

	"github.com/holmesv3/nitf-viz/internal/parser"
)

// Parser parses NITF containers from memory or from disk.
type Parser = parser.Parser

// NewParser creates a new NITF parser.
func NewParser() Parser {
	return parser.NewParser()
}

// ParseFile maps and parses the NITF file at path. The returned File must
// be closed.
func ParseFile(path string, opts Options) (*File, error) {
	popts := parser.DefaultParseOptions()
	popts.SkipUnsupportedImages = opts.SkipUnsupportedImages
	popts.Logger = opts.ParseLogger
	return NewParser().ParseFile(path, popts)
}

// Render renders the NITF file at path into opts.OutputDir and returns the
// path of the written image.
//
// The output is named <prefix>_<size>.png or <prefix>_<size>.gif and is
// written to a temporary file first, so it only appears once complete.
func Render(path string, opts Options) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	log := opts.logger().With("input", path)
	opts.Logger = log

	f, err := ParseFile(path, opts)
	if err != nil {
		return "", err
	}
	defer f.Close()
	log.Debug("parsed", "version", f.Header.Profile+f.Header.Version, "images", len(f.Images), "metadata", f.HasMetadata())

	p, err := Dispatch(f, opts)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = Stem(path)
	}
	out := OutputPath(opts.OutputDir, prefix, opts.Size, p.Format)
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := WriteFile(out, p); err != nil {
		return "", err
	}
	log.Debug("dispatch", "state", StateDone)
	log.Info("wrote image", "output", out, "format", p.Format, "frames", len(p.Rasters))
	return out, nil
}
