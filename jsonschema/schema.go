// Package jsonschema is a minimal JSON Schema document model used to export a
// form descriptor to editors and other tooling.
package jsonschema

// Draft is the dialect emitted by exporters.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	Dialect string `json:"$schema,omitempty"`

	// Core
	Type        string `json:"type,omitempty"`
	Title       string `json:"title,omitempty"`
	Format      string `json:"format,omitempty"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	MinLength   *int   `json:"minLength,omitempty"`
	MaxLength   *int   `json:"maxLength,omitempty"`
	Description string `json:"description,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
}

// Object returns an empty object schema.
func Object() *Schema {
	return &Schema{Type: "object", Properties: map[string]*Schema{}}
}

// Child returns the object-typed property name of s, creating it when absent.
func (s *Schema) Child(name string) *Schema {
	if s.Properties == nil {
		s.Properties = map[string]*Schema{}
	}
	c, ok := s.Properties[name]
	if !ok || c.Type != "object" {
		c = Object()
		s.Properties[name] = c
	}
	return c
}

// Require adds name to the required list once.
func (s *Schema) Require(name string) {
	for _, r := range s.Required {
		if r == name {
			return
		}
	}
	s.Required = append(s.Required, name)
}
