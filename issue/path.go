package issue

import (
	"fmt"
	"strconv"
)

// Path builds dotted/bracketed locators in a chain-safe way and creates
// ValidationErrors. The zero value is the root.
type Path struct {
	s string
}

// Root returns the empty locator.
func Root() Path { return Path{} }

// At starts a locator from an already rendered string such as "pages[0]".
func At(s string) Path { return Path{s: s} }

// Field appends a (possibly dotted) key.
func (p Path) Field(name string) Path {
	if name == "" {
		return p
	}
	if p.s == "" {
		return Path{s: name}
	}
	return Path{s: p.s + "." + name}
}

// Index appends an array index.
func (p Path) Index(i int) Path {
	return Path{s: p.s + "[" + strconv.Itoa(i) + "]"}
}

// String renders the locator; the root renders as "root".
func (p Path) String() string {
	if p.s == "" {
		return PathRoot
	}
	return p.s
}

// IsRoot reports whether no segment has been appended.
func (p Path) IsRoot() bool { return p.s == "" }

// Error creates a ValidationError at p. kv are alternating param keys and values.
func (p Path) Error(code, msg string, kv ...any) ValidationError {
	var m map[string]any
	if len(kv) >= 2 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return ValidationError{Path: p.String(), Code: code, Message: msg, Params: m}
}

// FieldError is like Error but also records the schema key of the field.
func (p Path) FieldError(fieldKey, code, msg string, kv ...any) ValidationError {
	e := p.Error(code, msg, kv...)
	e.FieldKey = fieldKey
	return e
}
