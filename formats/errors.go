package formats

import "errors"

// ErrorKind classifies a decoding failure. Failures returned by this
// package wrap one ErrorKind, so callers can match with errors.Is or
// recover the kind with KindOf.
type ErrorKind int

const (
	ErrInvalidFormat    ErrorKind = iota + 1 // no SOI marker at the start
	ErrInvalidMarker                         // marker prefix is not 0xFF, or the segment length cannot advance
	ErrNoExifData                            // no APP1 segment before SOS, EOI or the end of the buffer
	ErrNotExif                               // APP1 payload lacks the Exif identifier
	ErrInvalidByteOrder                      // TIFF byte order is neither II nor MM
	ErrInvalidTiffMagic                      // TIFF magic is not 42
	ErrInvalidIfdOffset                      // 0th IFD offset points inside the TIFF header
	ErrOutOfBounds                           // a read would pass the end of the buffer
	ErrSourceRead                            // the buffer could not be read from its source
)

var kindNames = [...]string{
	ErrInvalidFormat:    "InvalidFormat",
	ErrInvalidMarker:    "InvalidMarker",
	ErrNoExifData:       "NoExifData",
	ErrNotExif:          "NotExif",
	ErrInvalidByteOrder: "InvalidByteOrder",
	ErrInvalidTiffMagic: "InvalidTiffMagic",
	ErrInvalidIfdOffset: "InvalidIfdOffset",
	ErrOutOfBounds:      "OutOfBounds",
	ErrSourceRead:       "SourceReadError",
}

var kindMessages = [...]string{
	ErrInvalidFormat:    "missing JPEG SOI marker",
	ErrInvalidMarker:    "invalid JPEG marker",
	ErrNoExifData:       "no EXIF data found",
	ErrNotExif:          "APP1 segment is not an Exif block",
	ErrInvalidByteOrder: "invalid TIFF byte order",
	ErrInvalidTiffMagic: "invalid TIFF magic number",
	ErrInvalidIfdOffset: "invalid 0th IFD offset",
	ErrOutOfBounds:      "read out of bounds",
	ErrSourceRead:       "failed to read source",
}

// String returns the taxonomy name, e.g. "NoExifData".
func (k ErrorKind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

func (k ErrorKind) Error() string {
	if k > 0 && int(k) < len(kindMessages) {
		return "exif: " + kindMessages[k]
	}
	return "exif: unknown error"
}

// KindOf returns the ErrorKind wrapped by err.
func KindOf(err error) (ErrorKind, bool) {
	var k ErrorKind
	if errors.As(err, &k) {
		return k, true
	}
	return 0, false
}
