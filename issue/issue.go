// Package issue holds the single error shape shared by schema validation,
// rendering and message-structure checks.
//
// Every problem found while compiling a form into a message is reported as a
// ValidationError carrying a dotted/bracketed Path (for example
// "pages[0].cta[1].label") that the editing UI uses to highlight the offending
// input. Callers decide "can I publish" by checking the List is empty.
package issue

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired     = "required"
	CodeTooShort     = "too_short"
	CodeTooLong      = "too_long"
	CodeMinItems     = "min_items"
	CodeMaxItems     = "max_items"
	CodeInvalidType  = "invalid_type"
	CodeInvalidColor = "invalid_color"
	CodeInvalidJSON  = "invalid_json"
	CodeInvalidURL   = "invalid_url"
	CodeInsecureURL  = "insecure_url"
	CodePattern      = "pattern"
	// Render-time failures (message is not produced)
	CodeRenderError     = "render_error"
	CodeMissingVariable = "missing_variable"
	CodeParseError      = "parse_error"
	CodePatchDepth      = "patch_depth"
	// Optional envelope check against the platform message shape
	CodeEnvelope = "envelope"
)

// Well-known locators for errors that do not point into the form data.
const (
	PathTemplateText = "templateText"
	PathRoot         = "root"
)

// ValidationError represents a single validation entry.
type ValidationError struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	FieldKey string `json:"fieldKey,omitempty"`
	Code     string `json:"code"`
	// Params carries structured parameters (e.g., {"max":40, "got":52})
	// for i18n and UI hints.
	Params map[string]any `json:"params,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
}

// List is an ordered collection of validation errors that implements error.
type List []ValidationError

// Error summarizes the first few entries.
func (l List) Error() string {
	if len(l) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(l)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", l[i].Code, l[i].Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Paths returns the locator of every entry, in order.
func (l List) Paths() []string {
	out := make([]string, 0, len(l))
	for _, e := range l {
		out = append(out, e.Path)
	}
	return out
}

// Has reports whether an entry with the given path and code exists.
func (l List) Has(path, code string) bool {
	for _, e := range l {
		if e.Path == path && e.Code == code {
			return true
		}
	}
	return false
}

// Concat joins lists preserving order. The result is never nil so it encodes
// as an empty JSON array.
func Concat(lists ...List) List {
	out := List{}
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// AsList extracts a List from an error using errors.As internally.
func AsList(err error) (List, bool) {
	if err == nil {
		return nil, false
	}
	var l List
	if errors.As(err, &l) {
		return l, true
	}
	return nil, false
}
