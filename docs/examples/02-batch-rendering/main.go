package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/holmesv3/nitf-viz/pkg/nitfviz"
)

func main() {
	paths, err := filepath.Glob("collects/*.ntf")
	if err != nil {
		log.Fatal(err)
	}

	opts := nitfviz.DefaultOptions()
	opts.OutputDir = "thumbs"
	opts.Brightness = 20
	opts.Contrast = 10

	// Render every file, four at a time, skipping the ones that fail
	outs, errs := nitfviz.RenderFiles(paths, opts, nitfviz.BatchOptions{
		Parallel:   true,
		Workers:    4,
		SkipErrors: true,
		Progress: func(done, total int) {
			fmt.Printf("\rRendering: %d/%d (%.0f%%)",
				done, total, float64(done)/float64(total)*100)
		},
		ErrorLog: os.Stderr,
	})

	if len(errs) > 0 {
		fmt.Printf("\nSkipped %d files due to errors\n", len(errs))
	}
	fmt.Printf("\nWrote %d images\n", len(outs))
}
