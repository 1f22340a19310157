//go:build unix

package source

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// load maps the file read-only. Filesystems that refuse mmap fall back to a
// plain read.
func load(fh *os.File, size int) ([]byte, bool, error) {
	data, err := unix.Mmap(int(fh.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return data, true, nil
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(fh, buf); err != nil {
		return nil, false, err
	}
	return buf, false, nil
}

func unload(data []byte) error {
	return unix.Munmap(data)
}
