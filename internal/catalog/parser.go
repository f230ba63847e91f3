package catalog

import (
	"fmt"
	"os"
	"slices"

	yaml "gopkg.in/yaml.v3"
)

// ParseYAML decodes a catalog document and checks its structure.
// Scenario tags are free text and are not validated.
func ParseYAML(yamlPayload []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(yamlPayload, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	if c.Name == "" {
		return nil, fmt.Errorf("a catalog name is required")
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("catalog %q: no scenarios defined", c.Name)
	}

	assignIDs(c.Positive, "Pos_Fun")
	assignIDs(c.Negative, "Neg_Fun")
	if c.UI != nil && c.UI.ID == "" {
		c.UI.ID = "Pos_UI_0001"
	}

	seen := make(map[string]bool)
	check := func(group string, s Scenario) error {
		if seen[s.ID] {
			return fmt.Errorf("%s scenario %q: duplicate id", group, s.ID)
		}
		seen[s.ID] = true
		switch s.Length {
		case "", LengthShort, LengthMedium, LengthLong:
		default:
			return fmt.Errorf("%s scenario %q: length must be S, M or L, got %q", group, s.ID, s.Length)
		}
		for i, ch := range s.Checks {
			if !slices.Contains(CheckTypes, ch.Type) {
				return fmt.Errorf("%s scenario %q: check %d: unsupported type %q", group, s.ID, i, ch.Type)
			}
			if ch.Type == CheckMaxLatinRun && ch.Max <= 0 {
				return fmt.Errorf("%s scenario %q: check %d: max_latin_run requires max > 0", group, s.ID, i)
			}
			if ch.Type == CheckScript && ch.Script == "" {
				return fmt.Errorf("%s scenario %q: check %d: script check requires a script", group, s.ID, i)
			}
		}
		return nil
	}

	for _, s := range c.Positive {
		if err := check(GroupPositive, s); err != nil {
			return nil, err
		}
	}
	for _, s := range c.Negative {
		if err := check(GroupNegative, s); err != nil {
			return nil, err
		}
	}
	if c.UI != nil {
		if err := check(GroupUI, *c.UI); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func assignIDs(scenarios []Scenario, prefix string) {
	for i := range scenarios {
		if scenarios[i].ID == "" {
			scenarios[i].ID = fmt.Sprintf("%s_%04d", prefix, i+1)
		}
	}
}
