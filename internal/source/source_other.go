//go:build !unix

package source

import (
	"io"
	"os"
)

func load(fh *os.File, size int) ([]byte, bool, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(fh, buf); err != nil {
		return nil, false, err
	}
	return buf, false, nil
}

func unload([]byte) error {
	return nil
}
