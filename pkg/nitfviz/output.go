package nitfviz

import (
	"path/filepath"
	"strconv"
	"strings"
)

// OutputPath returns dir/<prefix>_<size>.<ext>.
func OutputPath(dir, prefix string, size int, format Format) string {
	return filepath.Join(dir, prefix+"_"+strconv.Itoa(size)+"."+format.Extension())
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
