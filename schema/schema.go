// Package schema models the editable surface of a message template: ordered
// sections of form fields, repeatable groups and their constraints.
//
// A Descriptor is passive data. It is the input to validate.SchemaData and to
// Defaults, and can be projected onto JSON Schema for tooling.
package schema

import (
	"errors"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/reoring/flexform/internal/jsonx"
)

// FieldType discriminates form inputs.
type FieldType string

const (
	TypeText       FieldType = "text"
	TypeTextarea   FieldType = "textarea"
	TypeImageURL   FieldType = "imageUrl"
	TypeURL        FieldType = "url"
	TypeSelect     FieldType = "select"
	TypeNumber     FieldType = "number"
	TypeColor      FieldType = "color"
	TypeJSON       FieldType = "json"
	TypeRepeatable FieldType = "repeatable"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case TypeText, TypeTextarea, TypeImageURL, TypeURL, TypeSelect,
		TypeNumber, TypeColor, TypeJSON, TypeRepeatable:
		return true
	default:
		return false
	}
}

// IsURL reports whether values of this type are links.
func (t FieldType) IsURL() bool { return t == TypeURL || t == TypeImageURL }

// Descriptor describes one template's form.
type Descriptor struct {
	SchemaVersion int       `json:"schemaVersion" yaml:"schemaVersion"`
	Sections      []Section `json:"sections" yaml:"sections"`
}

// Section is either a plain field-set or a repeatable array of records.
type Section struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title,omitempty" yaml:"title,omitempty"`
	Fields      []Field      `json:"fields,omitempty" yaml:"fields,omitempty"`
	Repeatable  bool         `json:"repeatable,omitempty" yaml:"repeatable,omitempty"`
	Key         string       `json:"key,omitempty" yaml:"key,omitempty"`
	ItemSchema  *FieldSet    `json:"itemSchema,omitempty" yaml:"itemSchema,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// FieldSet describes one element of a repeatable group.
type FieldSet struct {
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field is one form input definition. Key is relative to the containing scope
// (top-level data, or one repeatable item) and may be dotted.
type Field struct {
	Key         string       `json:"key" yaml:"key"`
	Label       string       `json:"label,omitempty" yaml:"label,omitempty"`
	Type        FieldType    `json:"type" yaml:"type"`
	Required    bool         `json:"required,omitempty" yaml:"required,omitempty"`
	Default     any          `json:"default,omitempty" yaml:"default,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Options     []Option     `json:"options,omitempty" yaml:"options,omitempty"`
	ItemSchema  *FieldSet    `json:"itemSchema,omitempty" yaml:"itemSchema,omitempty"`
}

// Constraints are optional per-field (or per-section) rules. Nil pointers mean
// "not set".
type Constraints struct {
	MaxLength  *int        `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinLength  *int        `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MinItems   *int        `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems   *int        `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	HTTPSOnly  bool        `json:"httpsOnly,omitempty" yaml:"httpsOnly,omitempty"`
	Pattern    string      `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	RequiredIf *RequiredIf `json:"requiredIf,omitempty" yaml:"requiredIf,omitempty"`
}

// RequiredIf makes a field required when the sibling at When equals Is.
type RequiredIf struct {
	When string `json:"when" yaml:"when"`
	Is   any    `json:"is" yaml:"is"`
}

// Option is one choice of a select field. It decodes from a plain string
// (label and value equal) or from {label, value}.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

func (o *Option) UnmarshalJSON(b []byte) error {
	var s string
	if err := jsonx.UnmarshalInto(b, &s); err == nil {
		o.Label, o.Value = s, s
		return nil
	}
	type plain Option
	var p plain
	if err := jsonx.UnmarshalInto(b, &p); err != nil {
		return fmt.Errorf("schema: option must be a string or {label,value}: %w", err)
	}
	*o = Option(p)
	return nil
}

func (o *Option) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		o.Label, o.Value = n.Value, n.Value
		return nil
	}
	type plain Option
	var p plain
	if err := n.Decode(&p); err != nil {
		return fmt.Errorf("schema: option must be a string or {label,value}: %w", err)
	}
	p.Value = jsonx.Normalize(p.Value)
	*o = Option(p)
	return nil
}

// MinItemsOr0 returns the minimum item count, or 0 when unset.
func (c *Constraints) MinItemsOr0() int {
	if c == nil || c.MinItems == nil {
		return 0
	}
	return *c.MinItems
}

// Int is a convenience for building constraints in code.
func Int(n int) *int { return &n }

// Check reports structural problems in the descriptor: duplicate or empty
// section ids, sections mixing plain and repeatable shapes, unknown field
// types, repeatable fields without an item schema and invalid patterns.
func (d *Descriptor) Check() error {
	if d == nil {
		return errors.New("schema: nil descriptor")
	}
	var errs []error
	seen := map[string]bool{}
	for i, s := range d.Sections {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("sections[%d]: id is required", i))
		} else if seen[s.ID] {
			errs = append(errs, fmt.Errorf("sections[%d]: duplicate id %q", i, s.ID))
		}
		seen[s.ID] = true
		if err := s.Check(); err != nil {
			errs = append(errs, fmt.Errorf("sections[%d] (%s): %w", i, s.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Check enforces the plain-xor-repeatable invariant of a section.
func (s *Section) Check() error {
	if s.Repeatable {
		var errs []error
		if len(s.Fields) > 0 {
			errs = append(errs, errors.New("repeatable section must not declare fields"))
		}
		if s.Key == "" {
			errs = append(errs, errors.New("repeatable section requires key"))
		}
		if s.ItemSchema == nil {
			errs = append(errs, errors.New("repeatable section requires itemSchema"))
		} else {
			errs = append(errs, checkFields(s.ItemSchema.Fields, "itemSchema.fields"))
		}
		return errors.Join(errs...)
	}
	if s.ItemSchema != nil {
		return errors.New("plain section must not declare itemSchema")
	}
	return checkFields(s.Fields, "fields")
}

func checkFields(fields []Field, where string) error {
	var errs []error
	for i, f := range fields {
		loc := fmt.Sprintf("%s[%d]", where, i)
		if f.Key == "" {
			errs = append(errs, fmt.Errorf("%s: key is required", loc))
		}
		if !f.Type.Valid() {
			errs = append(errs, fmt.Errorf("%s (%s): unknown type %q", loc, f.Key, f.Type))
		}
		if f.Type == TypeRepeatable {
			if f.ItemSchema == nil {
				errs = append(errs, fmt.Errorf("%s (%s): repeatable field requires itemSchema", loc, f.Key))
			} else {
				errs = append(errs, checkFields(f.ItemSchema.Fields, loc+".itemSchema.fields"))
			}
		}
		if f.Constraints != nil && f.Constraints.Pattern != "" {
			if _, err := regexp.Compile(f.Constraints.Pattern); err != nil {
				errs = append(errs, fmt.Errorf("%s (%s): invalid pattern: %w", loc, f.Key, err))
			}
		}
	}
	return errors.Join(errs...)
}
