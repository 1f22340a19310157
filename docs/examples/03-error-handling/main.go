package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/holmesv3/nitf-viz/pkg/nitfviz"
)

func explain(err error) string {
	var (
		formatErr     *nitfviz.FormatError
		metadataErr   *nitfviz.MetadataError
		assemblyErr   *nitfviz.AssemblyError
		decodeErr     *nitfviz.DecodeError
		projectionErr *nitfviz.ProjectionError
	)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "file not found"
	case errors.Is(err, nitfviz.ErrNotNITF):
		return "not a NITF file"
	case errors.As(err, &formatErr):
		return fmt.Sprintf("malformed container (field %s)", formatErr.Field)
	case errors.As(err, &metadataErr):
		return fmt.Sprintf("unusable SICD metadata (%s)", metadataErr.Field)
	case errors.As(err, &assemblyErr):
		return "complex segments do not form one image"
	case errors.As(err, &decodeErr):
		return fmt.Sprintf("bad samples in image segment %d", decodeErr.Segment)
	case errors.As(err, &projectionErr):
		return "sensor geometry cannot be projected"
	default:
		return "unexpected error"
	}
}

func main() {
	opts := nitfviz.DefaultOptions()

	// Refuse to fall back to per-segment rendering when SICD metadata is broken
	opts.MetadataPolicy = nitfviz.MetadataFatal

	for _, path := range []string{"sicd_example.nitf", "NONEXISTENT.ntf"} {
		out, err := nitfviz.Render(path, opts)
		if err != nil {
			log.Printf("%s: %s: %v", path, explain(err), err)
			continue
		}
		fmt.Printf("Wrote %s\n", out)
	}

	// Bytes already in memory go through the parser directly
	if _, err := nitfviz.NewParser().Parse([]byte("not a NITF container")); err != nil {
		log.Printf("in-memory data: %s: %v", explain(err), err)
	}
}
