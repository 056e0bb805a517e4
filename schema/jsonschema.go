package schema

import (
	"github.com/reoring/flexform/jsonschema"
	"github.com/reoring/flexform/nestedpath"
)

// ColorPattern is the accepted shape of color fields.
const ColorPattern = `^#([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`

// JSONSchema projects the form onto a JSON Schema document. Dotted keys become
// nested object properties. Conditional requirements (requiredIf) have no
// counterpart here and are left to validate.SchemaData.
func (d *Descriptor) JSONSchema() *jsonschema.Schema {
	root := jsonschema.Object()
	root.Dialect = jsonschema.Draft
	if d == nil {
		return root
	}
	for _, s := range d.Sections {
		if s.Repeatable {
			arr := &jsonschema.Schema{Type: "array", Title: s.Title, Items: fieldSetSchema(s.ItemSchema)}
			if c := s.Constraints; c != nil {
				arr.MinItems, arr.MaxItems = c.MinItems, c.MaxItems
			}
			put(root, s.Key, arr, s.Constraints.MinItemsOr0() > 0)
			continue
		}
		for _, f := range s.Fields {
			put(root, f.Key, fieldSchema(f), f.Required)
		}
	}
	return root
}

func fieldSetSchema(fs *FieldSet) *jsonschema.Schema {
	obj := jsonschema.Object()
	if fs == nil {
		return obj
	}
	for _, f := range fs.Fields {
		put(obj, f.Key, fieldSchema(f), f.Required)
	}
	return obj
}

// put places prop at the dotted key below obj.
func put(obj *jsonschema.Schema, key string, prop *jsonschema.Schema, required bool) {
	segs := nestedpath.Split(key)
	if len(segs) == 0 {
		return
	}
	parent := obj
	for _, seg := range segs[:len(segs)-1] {
		parent = parent.Child(seg)
	}
	leaf := segs[len(segs)-1]
	if parent.Properties == nil {
		parent.Properties = map[string]*jsonschema.Schema{}
	}
	parent.Properties[leaf] = prop
	if required {
		parent.Require(leaf)
	}
}

func fieldSchema(f Field) *jsonschema.Schema {
	s := &jsonschema.Schema{Title: f.Label, Default: f.Default}
	switch f.Type {
	case TypeText, TypeTextarea:
		s.Type = "string"
	case TypeURL, TypeImageURL:
		s.Type, s.Format = "string", "uri"
	case TypeColor:
		s.Type, s.Pattern = "string", ColorPattern
	case TypeSelect:
		for _, o := range f.Options {
			s.Enum = append(s.Enum, o.Value)
		}
	case TypeNumber:
		s.Type = "number"
	case TypeRepeatable:
		s.Type = "array"
		s.Items = fieldSetSchema(f.ItemSchema)
	case TypeJSON:
		s.Description = "JSON object or its string encoding"
	}
	if c := f.Constraints; c != nil {
		s.MinLength, s.MaxLength = c.MinLength, c.MaxLength
		if c.Pattern != "" {
			s.Pattern = c.Pattern
		}
		if f.Type == TypeRepeatable {
			s.MinItems, s.MaxItems = c.MinItems, c.MaxItems
		}
	}
	return s
}
