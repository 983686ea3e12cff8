package formats

import (
	"fmt"

	"greg-hacke/jpeg-exif/tags"
)

// Option configures decoding
type Option func(*options)

type options struct {
	skipUnknown bool
}

// SkipUnknownTags makes the IFD decoder skip entries with unrecognized tag
// IDs and keep reading. By default the first unrecognized tag ends the
// directory and the tags decoded before it are returned.
func SkipUnknownTags() Option {
	return func(o *options) {
		o.skipUnknown = true
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ReadIfd decodes the 0th IFD described by h into a Table.
func ReadIfd(buf []byte, h TiffHeader, opts ...Option) (*Table, error) {
	o := newOptions(opts)
	r := byteReader{buf: buf}

	start, err := r.absolute(h.Base, h.IFD0Offset)
	if err != nil {
		return nil, err
	}
	// 2-byte count of the number of directory entries
	count, err := r.uint16(start, h.ByteOrder)
	if err != nil {
		return nil, fmt.Errorf("reading IFD entry count: %w", err)
	}

	table := NewTable()
	for i := 0; i < int(count); i++ {
		entry, err := readEntry(r, start+2+i*ifdEntrySize, h.ByteOrder)
		if err != nil {
			return nil, fmt.Errorf("reading IFD entry %d: %w", i, err)
		}

		def, known := tags.GetTag(entry.TagID)
		if !known {
			if o.skipUnknown {
				continue
			}
			break
		}

		v, ok, err := decodeValue(r, entry, h.Base, h.ByteOrder)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", def.Name, err)
		}
		if ok {
			table.Set(def.Name, v)
		}
	}
	return table, nil
}
