package nitfviz

import (
	"fmt"
	"log/slog"

	"github.com/holmesv3/nitf-viz/internal/remap"
)

// MetadataPolicy decides what happens to a SICD descriptor that is present
// but unusable.
type MetadataPolicy int

const (
	// MetadataDegrade logs a warning and renders the file as if it had no
	// metadata.
	MetadataDegrade MetadataPolicy = iota

	// MetadataFatal fails with the *MetadataError.
	MetadataFatal
)

func (p MetadataPolicy) String() string {
	switch p {
	case MetadataDegrade:
		return "degrade"
	case MetadataFatal:
		return "fatal"
	default:
		return fmt.Sprintf("MetadataPolicy(%d)", int(p))
	}
}

// Options controls rendering.
type Options struct {
	// Size is N: SICD products and complex segments become N×N rasters,
	// other segments are thumbnailed to about N² pixels keeping their
	// aspect ratio.
	// Default: 256
	Size int

	// Brightness is added to every display value before Contrast is applied.
	Brightness int32

	// Contrast scales display values about mid-grey by ((100+Contrast)/100)².
	Contrast float32

	// MetadataPolicy selects how malformed SICD metadata is handled.
	// Default: MetadataDegrade
	MetadataPolicy MetadataPolicy

	// OutputDir receives rendered files. It is created if missing.
	// Default: "."
	OutputDir string

	// Prefix is the output file base name. Empty means the input file name
	// without its extension.
	Prefix string

	// Logger receives routing decisions and warnings. Nil means silent.
	Logger *slog.Logger

	// ParseLogger receives container parser diagnostics: segment offsets,
	// lengths and skipped segments. Nil means silent.
	ParseLogger *slog.Logger

	// SkipUnsupportedImages leaves out image segments whose encoding cannot
	// be displayed instead of failing the file.
	SkipUnsupportedImages bool
}

// DefaultOptions returns rendering options with defaults.
func DefaultOptions() Options {
	return Options{
		Size:           256,
		MetadataPolicy: MetadataDegrade,
		OutputDir:      ".",
	}
}

func (o Options) remapParams() remap.Params {
	return remap.Params{
		Brightness: o.Brightness,
		Contrast:   o.Contrast,
		Size:       o.Size,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) validate() error {
	if o.Size <= 0 {
		return fmt.Errorf("output size %d must be positive", o.Size)
	}
	return nil
}
