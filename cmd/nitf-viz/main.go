// Command nitf-viz renders NITF imagery files as PNG or GIF thumbnails.
//
// Usage:
//
//	nitf-viz [flags] <input.ntf> [more.ntf ...]
//
// A file with SICD metadata becomes one ground-projected PNG. Otherwise a
// file with several image segments becomes a looping GIF with one frame per
// segment, and a file with one segment becomes a PNG. Outputs are named
// <prefix>_<size>.png or <prefix>_<size>.gif.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/holmesv3/nitf-viz/pkg/nitfviz"
)

type config struct {
	output         string
	prefix         string
	size           int
	brightness     int32
	contrast       float32
	level          string
	nitfLog        bool
	strictMetadata bool
	workers        int
	inputs         []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := pflag.NewFlagSet("nitf-viz", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	fs.StringVarP(&cfg.output, "output", "o", ".", "output directory (created if missing)")
	fs.StringVarP(&cfg.prefix, "prefix", "p", "", "output file base name (default: input file name without extension)")
	fs.IntVarP(&cfg.size, "size", "s", 256, "output size N: N×N for SICD products, about N² pixels otherwise")
	fs.Int32VarP(&cfg.brightness, "brightness", "b", 0, "brightness offset added to every display value")
	fs.Float32VarP(&cfg.contrast, "contrast", "c", 0, "contrast adjustment; display values scale by ((100+c)/100)² about mid-grey")
	fs.StringVar(&cfg.level, "level", "info", "log level: off, error, warn, info, debug, trace")
	fs.BoolVar(&cfg.nitfLog, "nitf-log", false, "log container parser diagnostics")
	fs.BoolVar(&cfg.strictMetadata, "strict-metadata", false, "fail on malformed SICD metadata instead of ignoring it")
	fs.IntVar(&cfg.workers, "workers", runtime.NumCPU(), "number of files rendered concurrently")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: nitf-viz [flags] <input.ntf> [more.ntf ...]\n\n")
		fmt.Fprintf(stderr, "Render NITF imagery files as PNG or GIF images.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.inputs = fs.Args()

	switch {
	case len(cfg.inputs) == 0:
		fs.Usage()
		return nil, errors.New("no input files")
	case cfg.size <= 0:
		return nil, fmt.Errorf("--size must be positive, got %d", cfg.size)
	case cfg.workers <= 0:
		return nil, fmt.Errorf("--workers must be positive, got %d", cfg.workers)
	case cfg.prefix != "" && len(cfg.inputs) > 1:
		return nil, errors.New("--prefix can only be used with a single input file")
	}
	return cfg, nil
}

// run executes the command and returns the process exit code: 0 on
// success, 1 when any input failed to render and 2 for usage errors.
func run(args []string, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "nitf-viz: %v\n", err)
		return 2
	}

	logger, err := newLogger(stderr, cfg.level)
	if err != nil {
		fmt.Fprintf(stderr, "nitf-viz: %v\n", err)
		return 2
	}

	opts := nitfviz.DefaultOptions()
	opts.OutputDir = cfg.output
	opts.Prefix = cfg.prefix
	opts.Size = cfg.size
	opts.Brightness = cfg.brightness
	opts.Contrast = cfg.contrast
	opts.Logger = logger
	if cfg.nitfLog {
		opts.ParseLogger = parserLogger(logger)
	}
	if cfg.strictMetadata {
		opts.MetadataPolicy = nitfviz.MetadataFatal
	}

	batch := nitfviz.DefaultBatchOptions()
	batch.Workers = cfg.workers
	batch.Progress = func(done, total int) {
		logger.Debug("progress", "done", done, "total", total)
	}

	_, errs := nitfviz.RenderFiles(cfg.inputs, opts, batch)
	for _, err := range errs {
		fmt.Fprintf(stderr, "nitf-viz: %v\n", err)
	}
	if len(errs) > 0 {
		return 1
	}
	return 0
}
