// File: tags/types.go

package tags

import "fmt"

// Type is a TIFF field type code
type Type uint16

// TIFF 6.0 field types. Only ASCII, SHORT, LONG and RATIONAL are decoded;
// the rest are named so they can be reported.
const (
	BYTE      Type = 1
	ASCII     Type = 2
	SHORT     Type = 3
	LONG      Type = 4
	RATIONAL  Type = 5
	SBYTE     Type = 6
	UNDEFINED Type = 7
	SSHORT    Type = 8
	SLONG     Type = 9
	SRATIONAL Type = 10
	FLOAT     Type = 11
	DOUBLE    Type = 12
)

var typeNames = map[Type]string{
	BYTE:      "BYTE",
	ASCII:     "ASCII",
	SHORT:     "SHORT",
	LONG:      "LONG",
	RATIONAL:  "RATIONAL",
	SBYTE:     "SBYTE",
	UNDEFINED: "UNDEFINED",
	SSHORT:    "SSHORT",
	SLONG:     "SLONG",
	SRATIONAL: "SRATIONAL",
	FLOAT:     "FLOAT",
	DOUBLE:    "DOUBLE",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint16(t))
}

// Supported reports whether values of this type are decoded
func (t Type) Supported() bool {
	switch t {
	case ASCII, SHORT, LONG, RATIONAL:
		return true
	}
	return false
}

// TagDef represents a single tag definition
type TagDef struct {
	ID          uint16 // Tag ID as stored in the IFD entry
	Name        string // Human-readable name, used as the table key
	Description string // Tag description
	Format      Type   // Type the tag is normally written with
}

// IDString returns the tag ID in 0x%04X form
func (d TagDef) IDString() string {
	return fmt.Sprintf("0x%04X", d.ID)
}
