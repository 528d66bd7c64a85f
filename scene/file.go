package scene

import (
	"encoding/json"
	"fmt"
	"os"
)

// File is a scene file. It is either an object with asset tables and a "world"
// entity array, or a bare entity array.
type File struct {
	Textures  map[string]string          `json:"textures"`
	Meshes    map[string]string          `json:"meshes"`
	Materials map[string]json.RawMessage `json:"materials"`
	World     json.RawMessage            `json:"world"`
}

// Parse decodes a scene file from memory
func Parse(data []byte) (*File, error) {
	if isArray(data) {
		return &File{World: json.RawMessage(data)}, nil
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return &f, nil
}

// LoadFile reads and decodes a scene file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
