package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultYAML returns the embedded catalog document.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	c, err := ParseYAML(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return c, nil
}
