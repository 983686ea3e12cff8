package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"greg-hacke/jpeg-exif/formats"
	"greg-hacke/jpeg-exif/internal/exiftest"
	"greg-hacke/jpeg-exif/meta"
)

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	t.Cleanup(func() { c.Close() })
	return c
}

func decode(t *testing.T, source string, b *exiftest.Builder) *meta.Metadata {
	t.Helper()
	md, err := meta.ReadMetadataFrom(context.Background(), bytes.NewReader(b.Build()), source, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return md
}

var cmpValues = cmp.Comparer(func(a, b formats.Rational) bool {
	return a.Numerator == b.Numerator && a.Denominator == b.Denominator &&
		(a.Value == b.Value || math.IsNaN(a.Value) && math.IsNaN(b.Value))
})

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	md := decode(t, "/photos/a.jpg", &exiftest.Builder{Entries: []exiftest.Entry{
		exiftest.ASCII(0x010F, "ACME"),
		exiftest.Short(0x0112, 6),
		exiftest.Rational(0x011A, 72, 1),
		exiftest.Rational(0x011B, 5, 0),
		exiftest.Long(0x8769, 0x1234),
		exiftest.ASCII(0x010E, "caf\xe9"),
	}})
	if err := c.Put(ctx, md); err != nil {
		t.Fatalf("Put: %v", err)
	}

	e, err := c.Get(ctx, "/photos/a.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Format != formats.FormatJPEG || e.ErrorKind != "" {
		t.Errorf("got format %q kind %q", e.Format, e.ErrorKind)
	}
	if !e.ScannedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("ScannedAt = %v", e.ScannedAt)
	}
	if diff := cmp.Diff(md.Tags.Fields(), e.Tags.Fields(), cmpValues); diff != "" {
		t.Errorf("stored table mismatch (-want +got):\n%s", diff)
	}
}

func TestPutReplaces(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	first := decode(t, "x.jpg", &exiftest.Builder{Entries: []exiftest.Entry{
		exiftest.ASCII(0x010F, "ACME"),
		exiftest.ASCII(0x0110, "One"),
	}})
	second := decode(t, "x.jpg", &exiftest.Builder{Entries: []exiftest.Entry{
		exiftest.ASCII(0x0110, "Two"),
	}})
	for _, md := range []*meta.Metadata{first, second} {
		if err := c.Put(ctx, md); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	e, err := c.Get(ctx, "x.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Model"}, e.Tags.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestPutFailure(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	tests := []struct {
		path string
		err  error
		want string
	}{
		{"plain.jpg", fmt.Errorf("%w: reached start of scan", formats.ErrNoExifData), "NoExifData"},
		{"bad.jpg", formats.ErrInvalidTiffMagic, "InvalidTiffMagic"},
		{"odd.jpg", errors.New("something else"), "Other"},
	}
	for _, tt := range tests {
		if err := c.PutFailure(ctx, tt.path, tt.err); err != nil {
			t.Fatalf("PutFailure(%s): %v", tt.path, err)
		}
		e, err := c.Get(ctx, tt.path)
		if err != nil {
			t.Fatalf("Get(%s): %v", tt.path, err)
		}
		if e.ErrorKind != tt.want || e.Error != tt.err.Error() || e.Tags != nil {
			t.Errorf("%s: got kind %q msg %q tags %v", tt.path, e.ErrorKind, e.Error, e.Tags)
		}
	}
}

func TestFailureReplacesTags(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	md := decode(t, "y.jpg", &exiftest.Builder{Entries: []exiftest.Entry{exiftest.Short(0x0112, 1)}})
	if err := c.Put(ctx, md); err != nil {
		t.Fatal(err)
	}
	if err := c.PutFailure(ctx, "y.jpg", formats.ErrNoExifData); err != nil {
		t.Fatal(err)
	}
	list, err := c.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []Summary{{Path: "y.jpg", Format: formats.FormatUnknown, ErrorKind: "NoExifData"}}
	if diff := cmp.Diff(want, list); diff != "" {
		t.Errorf("List (-want +got):\n%s", diff)
	}
}

func TestGetNotFound(t *testing.T) {
	c := newCatalog(t)
	if _, err := c.Get(context.Background(), "missing.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	for _, name := range []string{"b.jpg", "a.jpg"} {
		md := decode(t, name, &exiftest.Builder{Entries: []exiftest.Entry{
			exiftest.ASCII(0x010F, "ACME"),
			exiftest.Short(0x0112, 1),
		}})
		if err := c.Put(ctx, md); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.PutFailure(ctx, "c.jpg", formats.ErrInvalidMarker); err != nil {
		t.Fatal(err)
	}
	list, err := c.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []Summary{
		{Path: "a.jpg", Format: formats.FormatJPEG, NumTags: 2},
		{Path: "b.jpg", Format: formats.FormatJPEG, NumTags: 2},
		{Path: "c.jpg", Format: formats.FormatUnknown, ErrorKind: "InvalidMarker"},
	}
	if diff := cmp.Diff(want, list); diff != "" {
		t.Errorf("List (-want +got):\n%s", diff)
	}
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "catalog.db")
	c, err := Open(ctx, file)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.PutFailure(ctx, "z.jpg", formats.ErrNotExif); err != nil {
		t.Fatal(err)
	}
	c.Close()

	c, err = Open(ctx, file)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	if v, err := c.SchemaVersion(ctx); err != nil || v != SchemaVersion() {
		t.Errorf("SchemaVersion = %d, %v", v, err)
	}
	if _, err := c.Get(ctx, "z.jpg"); err != nil {
		t.Errorf("Get after reopen: %v", err)
	}
}
