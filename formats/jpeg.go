package formats

import (
	"encoding/binary"
	"fmt"
)

const (
	markerSOI  uint16 = 0xFFD8
	markerEOI  uint16 = 0xFFD9
	markerSOS  uint16 = 0xFFDA
	markerAPP1 uint16 = 0xFFE1
)

// Segment is a JPEG marker segment. Length counts the two length bytes
// but not the marker.
type Segment struct {
	Marker  uint16
	Length  uint16
	Offset  int // offset of the 0xFF marker prefix
	Payload int // offset of the first byte after the length field
}

func (s Segment) String() string {
	return fmt.Sprintf("marker 0x%04X at %d, length %d", s.Marker, s.Offset, s.Length)
}

// scanSegments walks marker segments from just after SOI, calling fn for
// each one until fn returns false. It returns ErrNoExifData when the walk
// reaches SOS, EOI or the end of the buffer.
func scanSegments(buf []byte, fn func(Segment) bool) error {
	r := byteReader{buf: buf}
	soi, err := r.uint16(0, binary.BigEndian)
	if err != nil || soi != markerSOI {
		return ErrInvalidFormat
	}

	offset := 2
	for offset+4 <= len(buf) {
		if prefix, _ := r.uint8(offset); prefix != 0xFF {
			return fmt.Errorf("%w: byte 0x%02X at offset %d", ErrInvalidMarker, prefix, offset)
		}
		marker, _ := r.uint16(offset, binary.BigEndian)
		if marker == markerSOS || marker == markerEOI {
			break
		}
		length, _ := r.uint16(offset+2, binary.BigEndian)
		// length includes itself, so anything under 2 never advances
		if length < 2 {
			return fmt.Errorf("%w: segment 0x%04X at offset %d has length %d", ErrInvalidMarker, marker, offset, length)
		}

		seg := Segment{Marker: marker, Length: length, Offset: offset, Payload: offset + 4}
		if !fn(seg) {
			return nil
		}
		offset += 2 + int(length)
	}
	return ErrNoExifData
}

// findAPP1 returns the first APP1 segment in buf.
func findAPP1(buf []byte) (Segment, error) {
	var app1 Segment
	found := false
	err := scanSegments(buf, func(s Segment) bool {
		if s.Marker == markerAPP1 {
			app1, found = s, true
			return false
		}
		return true
	})
	if found {
		return app1, nil
	}
	return Segment{}, err
}

// Segments lists the marker segments of a JPEG head in file order, up to
// and including the first APP1 segment. A head with no APP1 returns the
// segments seen along with ErrNoExifData.
func Segments(buf []byte) ([]Segment, error) {
	var segs []Segment
	err := scanSegments(buf, func(s Segment) bool {
		segs = append(segs, s)
		return s.Marker != markerAPP1
	})
	return segs, err
}
