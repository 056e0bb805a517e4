package schema

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/reoring/flexform/internal/jsonx"
)

// Parse decodes a descriptor from JSON or YAML and checks its structure.
// Input starting with '{' is treated as JSON.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := jsonx.UnmarshalInto(trimmed, &d); err != nil {
			return nil, fmt.Errorf("schema: decode json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("schema: decode yaml: %w", err)
		}
	}
	d.Normalize()
	if err := d.Check(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Normalize converts YAML-native literals in defaults and requiredIf values
// into the JSON value model so comparisons with form data behave the same
// whichever format the schema was authored in.
func (d *Descriptor) Normalize() {
	for i := range d.Sections {
		s := &d.Sections[i]
		normalizeFields(s.Fields)
		if s.ItemSchema != nil {
			normalizeFields(s.ItemSchema.Fields)
		}
	}
}

func normalizeFields(fields []Field) {
	for i := range fields {
		f := &fields[i]
		f.Default = jsonx.Normalize(f.Default)
		if f.Constraints != nil && f.Constraints.RequiredIf != nil {
			f.Constraints.RequiredIf.Is = jsonx.Normalize(f.Constraints.RequiredIf.Is)
		}
		if f.ItemSchema != nil {
			normalizeFields(f.ItemSchema.Fields)
		}
	}
}
