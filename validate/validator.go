package validate

import (
	"github.com/reoring/flexform/i18n"
	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/schema"
)

// Validator runs the checks in this package and phrases their messages with a
// fixed Translator.
type Validator struct {
	tr i18n.Translator
}

// New returns a Validator using tr. A nil tr captures the process-wide
// translator at the time of the call.
func New(tr i18n.Translator) *Validator {
	if tr == nil {
		tr = i18n.Current()
	}
	return &Validator{tr: tr}
}

// Field is Validator.Field with the process-wide translator.
func Field(f schema.Field, value any, path issue.Path, scope any) issue.List {
	return New(nil).Field(f, value, path, scope)
}

// SchemaData is Validator.SchemaData with the process-wide translator.
func SchemaData(d *schema.Descriptor, data map[string]any) issue.List {
	return New(nil).SchemaData(d, data)
}

// MessageStructure is Validator.MessageStructure with the process-wide
// translator.
func MessageStructure(msg map[string]any) issue.List {
	return New(nil).MessageStructure(msg)
}

// Envelope is Validator.Envelope with the process-wide translator.
func Envelope(msg map[string]any) issue.List {
	return New(nil).Envelope(msg)
}
