package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a catalog definition from a YAML file and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var raw Catalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	c := New(raw)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}
