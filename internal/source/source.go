// Package source provides read-only access to input file bytes.
//
// On unix systems the file is memory-mapped so that multi-gigabyte SICD
// products are paged in on demand rather than copied into the heap; image
// segment data slices point straight into the mapping. Elsewhere the file
// is read whole.
package source

import (
	"fmt"
	"os"
)

// File is the byte content of an opened input.
type File struct {
	path   string
	data   []byte
	mapped bool
}

// Bytes returns the file content. The slice is invalid after Close.
func (f *File) Bytes() []byte {
	return f.data
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// Len returns the file size in bytes.
func (f *File) Len() int {
	return len(f.data)
}

// Open opens path read-only.
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer fh.Close()

	st, err := fh.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("failed to open input: %s is a directory", path)
	}
	size := st.Size()
	if size == 0 {
		return &File{path: path}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("failed to open input: %s is too large (%d bytes)", path, size)
	}

	data, mapped, err := load(fh, int(size))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &File{path: path, data: data, mapped: mapped}, nil
}

// Close releases the file content.
func (f *File) Close() error {
	data, mapped := f.data, f.mapped
	f.data, f.mapped = nil, false
	if !mapped {
		return nil
	}
	return unload(data)
}
