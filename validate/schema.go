package validate

import (
	"strconv"

	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/nestedpath"
	"github.com/reoring/flexform/schema"
)

// SchemaData validates data against every section of d, in section-then-field
// order. Errors from all sections are concatenated without deduplication.
func (vr *Validator) SchemaData(d *schema.Descriptor, data map[string]any) issue.List {
	out := issue.List{}
	if d == nil {
		return out
	}
	for _, s := range d.Sections {
		if s.Repeatable {
			out = append(out, vr.repeatableSection(s, data)...)
			continue
		}
		out = append(out, vr.fieldSet(s.Fields, data, issue.Root())...)
	}
	return out
}

func (vr *Validator) repeatableSection(s schema.Section, data map[string]any) issue.List {
	path := issue.Root().Field(s.Key)
	v, _ := nestedpath.Get(data, s.Key)
	items, ok := v.([]any)
	if !ok {
		// absent (or not a list): only a positive minItems is worth reporting
		if n := s.Constraints.MinItemsOr0(); n > 0 {
			return issue.List{path.FieldError(s.Key, issue.CodeMinItems,
				vr.tr.Message(issue.CodeMinItems, map[string]string{"min": strconv.Itoa(n)}),
				"min", n, "got", 0)}
		}
		return nil
	}
	out := vr.itemCount(s.Key, s.Constraints, len(items), path)
	if s.ItemSchema == nil {
		return out
	}
	for i, item := range items {
		out = append(out, vr.fieldSet(s.ItemSchema.Fields, item, path.Index(i))...)
	}
	return out
}
