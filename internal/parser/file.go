package parser

// ComplexSegments returns the image segments whose format is Complex, in file order.
func (f *File) ComplexSegments() []*ImageSegment {
	var out []*ImageSegment
	for _, seg := range f.Images {
		if seg.Format == PixelFormatComplex {
			out = append(out, seg)
		}
	}
	return out
}

// HasMetadata reports whether the file carries an XML metadata payload.
func (f *File) HasMetadata() bool {
	return len(f.MetadataPayload) > 0
}

// Extension returns the first data extension with the given DESID, or nil.
func (f *File) Extension(id string) *DataExtension {
	for _, ext := range f.Extensions {
		if ext.ID == id {
			return ext
		}
	}
	return nil
}

// Close releases the file mapping behind a File returned by ParseFile.
// It is a no-op for files parsed from caller-owned bytes. Segment Data must
// not be used after Close.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}
