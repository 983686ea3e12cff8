package formats

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/encoding/charmap"

	"greg-hacke/jpeg-exif/tags"
)

// Value is a decoded tag value: one of Text, UInt16, UInt32 or Rational.
type Value interface {
	Type() tags.Type
	String() string
	isValue()
}

// Text is an ASCII value without its NUL terminator.
type Text string

// UInt16 is a SHORT value.
type UInt16 uint16

// UInt32 is a LONG value.
type UInt32 uint32

// Rational is a RATIONAL value. When Denominator is zero, Value is NaN
// whatever the numerator; use Defined to test for it.
type Rational struct {
	Value       float64
	Numerator   uint32
	Denominator uint32
}

// NewRational builds a Rational from its two components.
func NewRational(num, den uint32) Rational {
	r := Rational{Numerator: num, Denominator: den, Value: math.NaN()}
	if den != 0 {
		r.Value = float64(num) / float64(den)
	}
	return r
}

func (Text) Type() tags.Type     { return tags.ASCII }
func (UInt16) Type() tags.Type   { return tags.SHORT }
func (UInt32) Type() tags.Type   { return tags.LONG }
func (Rational) Type() tags.Type { return tags.RATIONAL }

func (Text) isValue()     {}
func (UInt16) isValue()   {}
func (UInt32) isValue()   {}
func (Rational) isValue() {}

func (v Text) String() string   { return string(v) }
func (v UInt16) String() string { return strconv.FormatUint(uint64(v), 10) }
func (v UInt32) String() string { return strconv.FormatUint(uint64(v), 10) }

func (v Rational) String() string {
	return fmt.Sprintf("%d/%d", v.Numerator, v.Denominator)
}

// Defined reports whether the denominator is non-zero.
func (v Rational) Defined() bool {
	return v.Denominator != 0
}

// MarshalJSON renders an undefined value as null, since JSON has no NaN.
func (v Rational) MarshalJSON() ([]byte, error) {
	out := struct {
		Value       *float64 `json:"value"`
		Numerator   uint32   `json:"numerator"`
		Denominator uint32   `json:"denominator"`
	}{Numerator: v.Numerator, Denominator: v.Denominator}
	if v.Defined() {
		out.Value = &v.Value
	}
	return json.Marshal(out)
}

// IfdEntry is one 12-byte directory record:
//   - bytes 0-1 tag ID
//   - bytes 2-3 type
//   - bytes 4-7 value count
//   - bytes 8-11 the value itself if it fits, otherwise its offset from the TIFF header
type IfdEntry struct {
	Offset        int // absolute offset of the entry
	TagID         uint16
	Type          tags.Type
	Count         uint32
	ValueOrOffset uint32
}

const ifdEntrySize = 12

func readEntry(r byteReader, off int, order binary.ByteOrder) (IfdEntry, error) {
	e := IfdEntry{Offset: off}
	// the whole record must be present before any field is trusted
	if _, err := r.span(off, ifdEntrySize); err != nil {
		return e, err
	}
	e.TagID, _ = r.uint16(off, order)
	typ, _ := r.uint16(off+2, order)
	e.Type = tags.Type(typ)
	e.Count, _ = r.uint32(off+4, order)
	e.ValueOrOffset, _ = r.uint32(off+8, order)
	return e, nil
}

// decodeValue decodes the value of e. ok is false for types this decoder
// does not support.
func decodeValue(r byteReader, e IfdEntry, base int, order binary.ByteOrder) (v Value, ok bool, err error) {
	switch e.Type {
	case tags.ASCII:
		return decodeASCII(r, e, base)

	case tags.SHORT:
		// a single SHORT sits in the first two bytes of the value field
		s, err := r.uint16(e.Offset+8, order)
		if err != nil {
			return nil, false, err
		}
		return UInt16(s), true, nil

	case tags.LONG:
		return UInt32(e.ValueOrOffset), true, nil

	case tags.RATIONAL:
		// 8 bytes never fit inline
		start, err := r.absolute(base, e.ValueOrOffset)
		if err != nil {
			return nil, false, err
		}
		num, err := r.uint32(start, order)
		if err != nil {
			return nil, false, err
		}
		den, err := r.uint32(start+4, order)
		if err != nil {
			return nil, false, err
		}
		return NewRational(num, den), true, nil

	default:
		return nil, false, nil
	}
}

// decodeASCII reads Count-1 bytes, one ISO-8859-1 character per byte.
// Count includes the NUL terminator; values over 4 bytes are out of line.
func decodeASCII(r byteReader, e IfdEntry, base int) (Value, bool, error) {
	if e.Count == 0 {
		return Text(""), true, nil
	}
	start := e.Offset + 8
	if e.Count > 4 {
		var err error
		if start, err = r.absolute(base, e.ValueOrOffset); err != nil {
			return nil, false, err
		}
	}
	n := int64(e.Count) - 1
	if n > int64(len(r.buf)) {
		return nil, false, fmt.Errorf("%w: ASCII count %d exceeds buffer", ErrOutOfBounds, e.Count)
	}
	raw, err := r.span(start, int(n))
	if err != nil {
		return nil, false, err
	}
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decoding ASCII tag 0x%04X: %w", e.TagID, err)
	}
	return Text(text), true, nil
}
