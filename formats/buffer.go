package formats

import (
	"encoding/binary"
	"fmt"
)

// byteReader gives bounds-checked access to a fixed buffer. Reads never
// wrap or panic; a span past the end yields ErrOutOfBounds.
type byteReader struct {
	buf []byte
}

func (r byteReader) span(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(r.buf) || n > len(r.buf)-off {
		return nil, fmt.Errorf("%w: %d bytes at offset %d, buffer is %d bytes", ErrOutOfBounds, n, off, len(r.buf))
	}
	return r.buf[off : off+n], nil
}

func (r byteReader) uint8(off int) (uint8, error) {
	b, err := r.span(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r byteReader) uint16(off int, order binary.ByteOrder) (uint16, error) {
	b, err := r.span(off, 2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

func (r byteReader) uint32(off int, order binary.ByteOrder) (uint32, error) {
	b, err := r.span(off, 4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

// absolute resolves an offset relative to the TIFF header base. Offsets
// are unsigned on disk, so the sum is checked before it becomes an int.
func (r byteReader) absolute(base int, rel uint32) (int, error) {
	abs := int64(base) + int64(rel)
	if abs > int64(len(r.buf)) {
		return 0, fmt.Errorf("%w: offset %d past buffer of %d bytes", ErrOutOfBounds, abs, len(r.buf))
	}
	return int(abs), nil
}
