package meta

import (
	"fmt"
	"os"

	"greg-hacke/jpeg-exif/formats"
)

// checkRegularFile reports why path cannot be read as a file, if it can't
func checkRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: file does not exist: %s", formats.ErrSourceRead, path)
		}
		return fmt.Errorf("%w: cannot access file: %w", formats.ErrSourceRead, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: not a regular file: %s", formats.ErrSourceRead, path)
	}
	return nil
}

// identify determines the format of a file head and the parser for it.
// Formats without a parser are reported as ErrInvalidFormat.
func identify(head []byte) (formats.Format, formats.Parser, error) {
	format := formats.Sniff(head)
	parser := formats.GetParser(format)
	if parser == nil {
		return format, nil, fmt.Errorf("%w: no parser available for format %s", formats.ErrInvalidFormat, format)
	}
	return format, parser, nil
}
