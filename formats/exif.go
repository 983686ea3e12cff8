package formats

func init() {
	RegisterParser(FormatJPEG, &exifParser{})
}

type exifParser struct{}

func (p *exifParser) Parse(buf []byte, opts ...Option) (*Table, error) {
	return ParseExif(buf, opts...)
}

// ParseExif decodes the 0th IFD of the Exif block in a JPEG head. buf must
// hold at least the bytes up to the end of the APP1 segment; by convention
// the first 64 KiB of the file are enough.
//
// The decode is pure: it only reads buf and keeps no state between calls.
func ParseExif(buf []byte, opts ...Option) (*Table, error) {
	// Find EXIF data in JPEG
	app1, err := findAPP1(buf)
	if err != nil {
		return nil, err
	}

	h, err := ReadTiffHeader(buf, app1.Offset)
	if err != nil {
		return nil, err
	}

	return ReadIfd(buf, h, opts...)
}
