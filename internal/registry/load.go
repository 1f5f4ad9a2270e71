package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk registry format.
type File struct {
	Containers []ContainerSpec `yaml:"containers"`
}

// Parse decodes a registry document and validates it.
func Parse(data []byte) (*Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if len(f.Containers) == 0 {
		return nil, fmt.Errorf("parse registry: no containers defined")
	}
	return New(f.Containers...)
}

// LoadFile reads and validates a registry file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Marshal encodes the registry in the file format.
func (r *Registry) Marshal() ([]byte, error) {
	return yaml.Marshal(File{Containers: r.Specs()})
}
