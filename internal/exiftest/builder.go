// Package exiftest builds synthetic JPEG files carrying an Exif APP1
// segment, for tests.
package exiftest

import (
	"bytes"
	"encoding/binary"
)

// TIFF type codes used by the helpers.
const (
	TypeByte     uint16 = 1
	TypeASCII    uint16 = 2
	TypeShort    uint16 = 3
	TypeLong     uint16 = 4
	TypeRational uint16 = 5
)

// Entry is one IFD entry. Data holds the value bytes in host form: Bytes
// is written as is, Shorts and Longs in the builder's byte order. Values
// longer than 4 bytes go to the data area after the IFD and the entry
// stores their offset. Raw, when set, is written into the value field
// instead and nothing is placed out of line.
type Entry struct {
	Tag    uint16
	Type   uint16
	Count  uint32
	Bytes  []byte
	Shorts []uint16
	Longs  []uint32
	Raw    *uint32
}

// ASCII returns an ASCII entry for s with its NUL terminator.
func ASCII(tag uint16, s string) Entry {
	return Entry{Tag: tag, Type: TypeASCII, Count: uint32(len(s) + 1), Bytes: append([]byte(s), 0)}
}

// Short returns a single SHORT entry.
func Short(tag, v uint16) Entry {
	return Entry{Tag: tag, Type: TypeShort, Count: 1, Shorts: []uint16{v}}
}

// Long returns a single LONG entry.
func Long(tag uint16, v uint32) Entry {
	return Entry{Tag: tag, Type: TypeLong, Count: 1, Longs: []uint32{v}}
}

// Rational returns a single RATIONAL entry.
func Rational(tag uint16, num, den uint32) Entry {
	return Entry{Tag: tag, Type: TypeRational, Count: 1, Longs: []uint32{num, den}}
}

// Raw returns an entry whose value field holds v verbatim.
func Raw(tag, typ uint16, count, v uint32) Entry {
	return Entry{Tag: tag, Type: typ, Count: count, Raw: &v}
}

// Builder assembles a JPEG head. The zero value, given entries, produces
// a well formed little-endian file.
type Builder struct {
	BigEndian bool
	Entries   []Entry

	// Overrides for malformed headers. Zero values mean "correct".
	Identifier string // replaces "Exif"
	ByteOrder  []byte // replaces "II" / "MM"
	Magic      uint16 // replaces 42
	IFDOffset  uint32 // replaces 8; the IFD is laid out there only within 8..1024

	Before [][]byte // complete segments placed between SOI and APP1
	NoTail bool     // omit the SOS/EOI tail after APP1
}

func (b *Builder) order() binary.ByteOrder {
	if b.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (e Entry) data(order binary.ByteOrder) []byte {
	var buf bytes.Buffer
	buf.Write(e.Bytes)
	for _, s := range e.Shorts {
		binary.Write(&buf, order, s)
	}
	for _, l := range e.Longs {
		binary.Write(&buf, order, l)
	}
	return buf.Bytes()
}

// TIFF returns the TIFF structure: header, 0th IFD and value data.
func (b *Builder) TIFF() []byte {
	order := b.order()

	ifdOffset := b.IFDOffset
	if ifdOffset == 0 {
		ifdOffset = 8
	}
	layoutAt := ifdOffset
	if layoutAt < 8 || layoutAt > 1024 {
		layoutAt = 8
	}

	var hdr bytes.Buffer
	switch {
	case b.ByteOrder != nil:
		hdr.Write(b.ByteOrder)
	case b.BigEndian:
		hdr.WriteString("MM")
	default:
		hdr.WriteString("II")
	}
	magic := b.Magic
	if magic == 0 {
		magic = 42
	}
	binary.Write(&hdr, order, magic)
	binary.Write(&hdr, order, ifdOffset)
	for uint32(hdr.Len()) < layoutAt {
		hdr.WriteByte(0)
	}

	dataStart := layoutAt + 2 + uint32(len(b.Entries))*12 + 4
	var ifd, data bytes.Buffer
	binary.Write(&ifd, order, uint16(len(b.Entries)))
	for _, e := range b.Entries {
		binary.Write(&ifd, order, e.Tag)
		binary.Write(&ifd, order, e.Type)
		binary.Write(&ifd, order, e.Count)
		switch v := e.data(order); {
		case e.Raw != nil:
			binary.Write(&ifd, order, *e.Raw)
		case len(v) > 4:
			binary.Write(&ifd, order, dataStart+uint32(data.Len()))
			data.Write(v)
			if data.Len()%2 == 1 {
				data.WriteByte(0)
			}
		default:
			var field [4]byte
			copy(field[:], v)
			ifd.Write(field[:])
		}
	}
	binary.Write(&ifd, order, uint32(0)) // no 1st IFD

	out := append(hdr.Bytes(), ifd.Bytes()...)
	return append(out, data.Bytes()...)
}

// APP1 returns the complete APP1 segment, marker included.
func (b *Builder) APP1() []byte {
	id := b.Identifier
	if id == "" {
		id = "Exif"
	}
	payload := append([]byte(id), 0, 0)
	payload = append(payload, b.TIFF()...)
	return Segment(0xFFE1, payload)
}

// Build returns the JPEG head: SOI, the Before segments, APP1 and a
// minimal scan.
func (b *Builder) Build() []byte {
	out := []byte{0xFF, 0xD8}
	for _, s := range b.Before {
		out = append(out, s...)
	}
	out = append(out, b.APP1()...)
	if !b.NoTail {
		out = append(out, Tail()...)
	}
	return out
}

// Segment frames payload as a marker segment.
func Segment(marker uint16, payload []byte) []byte {
	out := make([]byte, 4, 4+len(payload))
	binary.BigEndian.PutUint16(out, marker)
	binary.BigEndian.PutUint16(out[2:], uint16(len(payload)+2))
	return append(out, payload...)
}

// JFIF returns an APP0 JFIF segment.
func JFIF() []byte {
	return Segment(0xFFE0, []byte{'J', 'F', 'I', 'F', 0, 1, 1, 0, 0, 1, 0, 1, 0, 0})
}

// Tail returns a start-of-scan segment, a few bytes of entropy-coded
// data and EOI.
func Tail() []byte {
	sos := Segment(0xFFDA, []byte{1, 1, 0, 0, 0x3F, 0})
	return append(sos, 0x12, 0x34, 0xFF, 0x00, 0x56, 0xFF, 0xD9)
}

// NoExif returns a JPEG head with a JFIF segment and no APP1.
func NoExif() []byte {
	out := []byte{0xFF, 0xD8}
	out = append(out, JFIF()...)
	return append(out, Tail()...)
}
