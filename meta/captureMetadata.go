package meta

import (
	"encoding/json"

	"greg-hacke/jpeg-exif/formats"
)

// Metadata represents extracted metadata
type Metadata struct {
	Source string         `json:"source,omitempty"`
	Format formats.Format `json:"format"`
	Tags   *formats.Table `json:"tags"`
}

// ToJSON converts metadata to JSON string
func (m *Metadata) ToJSON() (string, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "{}", err
	}
	return string(jsonBytes), nil
}
