package parser

import "math/bits"

// SampleOffset returns the byte offset within Data of one band sample.
//
// row and col are relative to the segment; band indexes Bands. The offset
// accounts for blocking and for the four IMODE interleaves:
//
//	B: each block holds band 0 for every pixel, then band 1, ...
//	P: each block holds all bands of pixel 0, then pixel 1, ...
//	R: each block holds row 0 of band 0, row 0 of band 1, ...
//	S: the whole image (all blocks) of band 0, then band 1, ...
//
// Reference: MIL-STD-2500C Table A-3, IMODE; NITF image data mask
// conventions do not apply because only uncompressed (IC=NC) data is parsed.
func (s *ImageSegment) SampleOffset(row, col, band int) int {
	bps := s.BytesPerSample()
	nbands := len(s.Bands)
	blockW, blockH := s.PixelsPerBlockH, s.PixelsPerBlockV
	blockPixels := blockW * blockH

	block := (row/blockH)*s.BlocksPerRow + col/blockW
	r, c := row%blockH, col%blockW

	switch s.Mode {
	case ModePixel:
		return (block*blockPixels*nbands + (r*blockW+c)*nbands + band) * bps
	case ModeRow:
		return (block*blockPixels*nbands + (r*nbands+band)*blockW + c) * bps
	case ModeSequential:
		blocks := s.BlocksPerRow * s.BlocksPerCol
		return ((band*blocks+block)*blockPixels + r*blockW + c) * bps
	default: // ModeBlock
		return (block*blockPixels*nbands + band*blockPixels + r*blockW + c) * bps
	}
}

// ExpectedDataLength returns the number of bytes the segment's blocks occupy:
// blocks × pixels per block × bands × bytes per sample.
//
// ok is false when the product overflows, which only happens for declared
// dimensions no real file can hold.
func (s *ImageSegment) ExpectedDataLength() (n uint64, ok bool) {
	factors := []uint64{
		uint64(s.BlocksPerRow),
		uint64(s.BlocksPerCol),
		uint64(s.PixelsPerBlockH),
		uint64(s.PixelsPerBlockV),
		uint64(len(s.Bands)),
		uint64(s.BytesPerSample()),
	}
	n = 1
	for _, f := range factors {
		hi, lo := bits.Mul64(n, f)
		if hi != 0 {
			return 0, false
		}
		n = lo
	}
	return n, true
}
