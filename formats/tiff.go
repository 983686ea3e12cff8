package formats

import (
	"encoding/binary"
	"fmt"
)

// following resources were used to implement this parser:
// https://www.media.mit.edu/pia/Research/deepview/exif.html
// https://www.adobe.io/content/dam/udp/en/open/standards/tiff/TIFF6.pdf

const (
	tiffHeaderSize   = 8
	app1PrefixSize   = 4 // marker + length
	exifPreambleSize = 6 // "Exif" + two zero bytes

	tiffMagic uint16 = 0x002A
)

var (
	exifIdentifier   = binary.BigEndian.Uint32([]byte("Exif"))
	tiffLittleEndian = binary.BigEndian.Uint16([]byte("II"))
	tiffBigEndian    = binary.BigEndian.Uint16([]byte("MM"))
)

// TiffHeader is the 8-byte prologue of the TIFF structure embedded in APP1.
type TiffHeader struct {
	Base       int // absolute offset of the header; IFD offsets are relative to it
	ByteOrder  binary.ByteOrder
	Magic      uint16
	IFD0Offset uint32
}

// ReadTiffHeader validates the Exif block of the APP1 segment whose marker
// starts at app1Offset and returns its TIFF header.
func ReadTiffHeader(buf []byte, app1Offset int) (TiffHeader, error) {
	r := byteReader{buf: buf}
	var h TiffHeader

	id, err := r.uint32(app1Offset+app1PrefixSize, binary.BigEndian)
	if err != nil {
		return h, err
	}
	if id != exifIdentifier {
		return h, fmt.Errorf("%w: identifier 0x%08X at offset %d", ErrNotExif, id, app1Offset+app1PrefixSize)
	}

	// the two bytes after the identifier are padding and are not checked
	h.Base = app1Offset + app1PrefixSize + exifPreambleSize

	// Bytes 0-1: "II" (4949.H) or "MM" (4D4D.H)
	order, err := r.uint16(h.Base, binary.BigEndian)
	if err != nil {
		return h, err
	}
	switch order {
	case tiffLittleEndian:
		h.ByteOrder = binary.LittleEndian
	case tiffBigEndian:
		h.ByteOrder = binary.BigEndian
	default:
		return h, fmt.Errorf("%w: 0x%04X", ErrInvalidByteOrder, order)
	}

	// Bytes 2-3: 42, read in the resolved byte order
	if h.Magic, err = r.uint16(h.Base+2, h.ByteOrder); err != nil {
		return h, err
	}
	if h.Magic != tiffMagic {
		return h, fmt.Errorf("%w: %d", ErrInvalidTiffMagic, h.Magic)
	}

	// Bytes 4-7: offset of the 0th IFD
	if h.IFD0Offset, err = r.uint32(h.Base+4, h.ByteOrder); err != nil {
		return h, err
	}
	if h.IFD0Offset < tiffHeaderSize {
		return h, fmt.Errorf("%w: %d", ErrInvalidIfdOffset, h.IFD0Offset)
	}
	return h, nil
}
