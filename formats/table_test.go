package formats

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestTableJSONKeepsOrder(t *testing.T) {
	table := NewTable()
	table.Set("Orientation", UInt16(1))
	table.Set("Make", Text("ACME"))
	table.Set("XResolution", NewRational(1, 2))
	table.Set("YResolution", NewRational(5, 0))
	table.Set("Exif IFD Pointer", UInt32(90))

	got, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"Orientation":1,"Make":"ACME",` +
		`"XResolution":{"value":0.5,"numerator":1,"denominator":2},` +
		`"YResolution":{"value":null,"numerator":5,"denominator":0},` +
		`"Exif IFD Pointer":90}`
	if string(got) != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestEmptyTableJSON(t *testing.T) {
	got, err := json.Marshal(NewTable())
	if err != nil || string(got) != "{}" {
		t.Errorf("got %s, %v", got, err)
	}
}

func TestValueStrings(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Text("Canon"), "Canon"},
		{UInt16(6), "6"},
		{UInt32(4096), "4096"},
		{NewRational(72, 1), "72/1"},
		{NewRational(1, 0), "1/0"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%T.String() = %q, want %q", tt.v, got, tt.want)
		}
		if got := fmt.Sprint(tt.v); got != tt.want {
			t.Errorf("fmt.Sprint(%T) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestErrorKindNames(t *testing.T) {
	if got := ErrNoExifData.String(); got != "NoExifData" {
		t.Errorf("String() = %q", got)
	}
	if got := ErrSourceRead.String(); got != "SourceReadError" {
		t.Errorf("String() = %q", got)
	}
	if got := ErrorKind(0).String(); got != "Unknown" {
		t.Errorf("String() = %q", got)
	}
	wrapped := fmt.Errorf("reading photo.jpg: %w", fmt.Errorf("%w: at 12", ErrNotExif))
	if k, ok := KindOf(wrapped); !ok || k != ErrNotExif {
		t.Errorf("KindOf = %v, %v", k, ok)
	}
	if _, ok := KindOf(fmt.Errorf("plain")); ok {
		t.Error("KindOf matched a plain error")
	}
}
