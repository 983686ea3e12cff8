package formats

// Format identifies a file format by its leading bytes
type Format string

const (
	FormatUnknown Format = "UNKNOWN"
	FormatJPEG    Format = "JPEG"
	FormatPNG     Format = "PNG"
	FormatTIFF    Format = "TIFF"
	FormatWebP    Format = "WEBP"
)
