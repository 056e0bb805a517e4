package validate

import (
	"bytes"
	_ "embed"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/issue"
)

//go:embed flex_envelope.schema.json
var envelopeSchemaJSON []byte

const envelopeSchemaURL = "flex-envelope.schema.json"

var compileEnvelope = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(envelopeSchemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(envelopeSchemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(envelopeSchemaURL)
})

var printer = message.NewPrinter(language.English)

// Envelope checks the coarse shape of the platform message envelope
// (type "flex", contents a bubble or a carousel of bubbles, boxes with a
// layout) against an embedded JSON Schema. It complements MessageStructure,
// which only looks at altText and actions.
func (vr *Validator) Envelope(msg map[string]any) issue.List {
	out := issue.List{}
	sch, err := compileEnvelope()
	if err != nil {
		return append(out, issue.Root().Error(issue.CodeEnvelope, err.Error()))
	}
	// round-trip so the validator sees its own number representation
	b, err := jsonx.Marshal(msg)
	if err != nil {
		return append(out, issue.Root().Error(issue.CodeEnvelope, err.Error()))
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return append(out, issue.Root().Error(issue.CodeEnvelope, err.Error()))
	}
	err = sch.Validate(inst)
	if err == nil {
		return out
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return append(out, issue.Root().Error(issue.CodeEnvelope, err.Error()))
	}
	for _, leaf := range leaves(ve) {
		detail := leaf.ErrorKind.LocalizedString(printer)
		out = append(out, instancePath(leaf.InstanceLocation).Error(issue.CodeEnvelope,
			vr.tr.Message(issue.CodeEnvelope, nil)+": "+detail,
			"keyword", strings.Join(leaf.ErrorKind.KeywordPath(), "/")))
	}
	return out
}

func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

func instancePath(tokens []string) issue.Path {
	p := issue.Root()
	for _, t := range tokens {
		if n, err := strconv.Atoi(t); err == nil && n >= 0 {
			p = p.Index(n)
			continue
		}
		p = p.Field(t)
	}
	return p
}
