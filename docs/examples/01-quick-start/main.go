package main

import (
	"fmt"
	"log"

	"github.com/holmesv3/nitf-viz/pkg/nitfviz"
)

func main() {
	// Start from the defaults: 256 pixel output in the current directory
	opts := nitfviz.DefaultOptions()
	opts.OutputDir = "thumbs"
	opts.Size = 512

	// Parse, pick a rendering path and write the image
	out, err := nitfviz.Render("sicd_example.nitf", opts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Wrote %s\n", out)
}
