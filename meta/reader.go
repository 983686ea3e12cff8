package meta

import (
	"context"
	"fmt"
	"io"
	"os"

	"go4.org/readerutil"

	"greg-hacke/jpeg-exif/formats"
)

// HeadSize is how much of a file is read by default. APP1 lies within the
// first 64 KiB by convention.
const HeadSize = 64 << 10

// Options configures reading. A nil *Options uses the defaults.
type Options struct {
	// HeadSize is the number of bytes read from the start of each file.
	// Zero means HeadSize.
	HeadSize int64

	// Decode is passed to the format parser.
	Decode []formats.Option
}

func (o *Options) headSize() int64 {
	if o == nil || o.HeadSize <= 0 {
		return HeadSize
	}
	return o.HeadSize
}

func (o *Options) decode() []formats.Option {
	if o == nil {
		return nil
	}
	return o.Decode
}

// ReadHead reads up to limit bytes from the start of r. A source shorter
// than limit yields a shorter buffer. Read failures wrap
// formats.ErrSourceRead.
func ReadHead(ctx context.Context, r io.ReaderAt, limit int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := limit
	if rr, ok := r.(io.Reader); ok {
		if size, ok := readerutil.Size(rr); ok && size < n {
			n = size
		}
	}
	buf := make([]byte, n)
	got, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %w", formats.ErrSourceRead, err)
	}
	return buf[:got], nil
}

// ReadMetadata extracts metadata from a file
func ReadMetadata(ctx context.Context, filename string, o *Options) (*Metadata, error) {
	if err := checkRegularFile(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open file: %w", formats.ErrSourceRead, err)
	}
	defer file.Close()

	return ReadMetadataFrom(ctx, file, filename, o)
}

// ReadMetadataFrom extracts metadata from an io.ReaderAt. hint names the
// source in the result.
func ReadMetadataFrom(ctx context.Context, r io.ReaderAt, hint string, o *Options) (*Metadata, error) {
	head, err := ReadHead(ctx, r, o.headSize())
	if err != nil {
		return nil, err
	}

	// Determine file format and get the parser
	format, parser, err := identify(head)
	if err != nil {
		return nil, err
	}

	table, err := parser.Parse(head, o.decode()...)
	if err != nil {
		return nil, err
	}
	return &Metadata{Source: hint, Format: format, Tags: table}, nil
}
