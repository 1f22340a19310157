// Package nitfviz renders NITF imagery files as PNG or GIF images.
//
// A file is parsed, then routed down exactly one of three paths:
//
//   - SICD: the file carries valid SICD metadata. Its complex image segments
//     are stitched into one plane, remapped to an N×N 8-bit raster through a
//     piecewise extended density function (PEDF) and projected from the
//     slant plane onto the ground plane. Output is one PNG.
//   - Multi-segment: no usable metadata and several image segments. Each
//     segment is rendered on its own and the frames form a looping GIF.
//   - Single-segment: no usable metadata and one image segment. Output is
//     one PNG.
//
// # Basic Usage
//
//	opts := nitfviz.DefaultOptions()
//	opts.OutputDir = "thumbs"
//	opts.Size = 512
//
//	out, err := nitfviz.Render("collect.ntf", opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("wrote", out)
//
// # Working With Parsed Files
//
// Dispatch runs the routing and the numeric pipeline on a file that has
// already been parsed and returns the rasters without encoding them:
//
//	f, err := nitfviz.ParseFile("collect.ntf", nitfviz.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	product, err := nitfviz.Dispatch(f, nitfviz.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(product.Path, product.Format, len(product.Rasters))
//
// # Errors
//
// Every failure is one of FormatError, MetadataError, AssemblyError,
// DecodeError, ProjectionError or a wrapped I/O error; use errors.As to
// tell them apart. A failed Render never leaves an output file behind.
//
// # Malformed Metadata
//
// A SICD descriptor that is present but unusable is logged and ignored by
// default, so the file is rendered segment by segment. Set
// Options.MetadataPolicy to MetadataFatal to fail instead.
package nitfviz
