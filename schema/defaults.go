package schema

import (
	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/nestedpath"
)

// Defaults builds the initial form data for d.
//
// Every non-repeatable field with a default gets it at its key path. A
// repeatable section (or repeatable field) starts with minItems synthesized
// items, each populated with its item schema's defaults, or with an empty
// array when minItems is absent or 0. Defaults are deep-copied; d is never
// mutated or aliased by the result.
func Defaults(d *Descriptor) map[string]any {
	data := map[string]any{}
	if d == nil {
		return data
	}
	for _, s := range d.Sections {
		if s.Repeatable {
			nestedpath.Set(data, s.Key, synthesizeItems(s.ItemSchema, s.Constraints.MinItemsOr0()))
			continue
		}
		applyFieldDefaults(data, s.Fields)
	}
	return data
}

func applyFieldDefaults(scope map[string]any, fields []Field) {
	for _, f := range fields {
		if f.Type == TypeRepeatable {
			if f.Default != nil {
				nestedpath.Set(scope, f.Key, jsonx.Clone(f.Default))
				continue
			}
			nestedpath.Set(scope, f.Key, synthesizeItems(f.ItemSchema, f.Constraints.MinItemsOr0()))
			continue
		}
		if f.Default == nil {
			continue
		}
		nestedpath.Set(scope, f.Key, jsonx.Clone(f.Default))
	}
}

func synthesizeItems(fs *FieldSet, n int) []any {
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		item := map[string]any{}
		if fs != nil {
			applyFieldDefaults(item, fs.Fields)
		}
		items = append(items, item)
	}
	return items
}
