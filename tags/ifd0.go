package tags

import "sort"

// ifd0Tags is the 0th IFD table. It is never written after init.
var ifd0Tags = map[uint16]TagDef{
	0x010E: {0x010E, "ImageDescription", "Title of the image", ASCII},
	0x010F: {0x010F, "Make", "Manufacturer of the recording equipment", ASCII},
	0x0110: {0x0110, "Model", "Model name or number of the equipment", ASCII},
	0x0112: {0x0112, "Orientation", "Orientation of the image in rows and columns", SHORT},
	0x011A: {0x011A, "XResolution", "Pixels per ResolutionUnit in the width direction", RATIONAL},
	0x011B: {0x011B, "YResolution", "Pixels per ResolutionUnit in the height direction", RATIONAL},
	0x0128: {0x0128, "ResolutionUnit", "Unit for XResolution and YResolution", SHORT},
	0x0132: {0x0132, "DateTime", "Date and time the file was last changed", ASCII},
	0x0213: {0x0213, "YCbCrPositioning", "Position of chrominance to luminance samples", SHORT},
	0x8298: {0x8298, "CopyRight", "Copyright holder", ASCII},
	0x8769: {0x8769, "Exif IFD Pointer", "Offset of the Exif IFD", LONG},
}

// GetTag retrieves a tag definition by ID
func GetTag(id uint16) (TagDef, bool) {
	tag, found := ifd0Tags[id]
	return tag, found
}

// All returns every known tag ordered by ID
func All() []TagDef {
	defs := make([]TagDef, 0, len(ifd0Tags))
	for _, d := range ifd0Tags {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// ByName retrieves a tag definition by its table key
func ByName(name string) (TagDef, bool) {
	for _, def := range ifd0Tags {
		if def.Name == name {
			return def, true
		}
	}
	return TagDef{}, false
}
