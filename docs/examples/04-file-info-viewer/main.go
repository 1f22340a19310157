package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/holmesv3/nitf-viz/pkg/nitfviz"
)

func main() {
	path := flag.String("file", "", "Path to NITF file")
	flag.Parse()

	if *path == "" {
		log.Fatal("Please provide -file path")
	}

	f, err := nitfviz.ParseFile(*path, nitfviz.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	// Print header
	fmt.Printf("=== File Information ===\n")
	fmt.Printf("Version: %s%s\n", f.Header.Profile, f.Header.Version)
	fmt.Printf("Title: %s\n", f.Header.Title)
	fmt.Printf("Complexity level: %d\n", f.Header.ComplexityLevel)
	fmt.Printf("Image segments: %d\n\n", len(f.Images))

	// Print image segments
	fmt.Printf("=== Image Segments ===\n")
	for _, seg := range f.Images {
		fmt.Printf("%2d %-10s %6dx%-6d %-8s %2d-bit %-3s at (%d,%d)\n",
			seg.Index, seg.ID, seg.Rows, seg.Cols, seg.Format,
			seg.BitsPerPixel, seg.ValueType, seg.Location.Row, seg.Location.Col)
		if len(seg.Footprint) > 0 {
			fmt.Printf("   corners: %s\n", nitfviz.FootprintWKT(seg.Footprint))
		}
	}

	// Show what the renderer would do with it
	product, err := nitfviz.Dispatch(f, nitfviz.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\n=== Rendering ===\n")
	fmt.Printf("Path: %s\n", product.Path)
	fmt.Printf("Output: %s with %d raster(s)\n", product.Format, len(product.Rasters))
	if md := product.Metadata; md != nil {
		fmt.Printf("Collector: %s, pixel type %s, %dx%d\n", md.CollectorName, md.PixelType, md.NumRows, md.NumCols)
	}
	if fp := product.Footprint; len(fp) > 0 {
		b := fp.Bound()
		center := b.Center()
		fmt.Printf("Footprint: %s\n", nitfviz.FootprintWKT(fp))
		fmt.Printf("Extent: lon %.4f..%.4f, lat %.4f..%.4f, centre (%.4f, %.4f)\n",
			b.Left(), b.Right(), b.Bottom(), b.Top(), center.Lon(), center.Lat())
	} else {
		fmt.Printf("Footprint: unknown\n")
	}
}
