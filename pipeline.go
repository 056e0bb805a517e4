package flexform

import (
	"fmt"

	"github.com/reoring/flexform/i18n"
	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/render"
	"github.com/reoring/flexform/schema"
	"github.com/reoring/flexform/templates"
	"github.com/reoring/flexform/validate"
)

// Result is the outcome of one compile. Message is nil when rendering
// failed; Errors is never nil.
type Result struct {
	Message map[string]any `json:"message"`
	Errors  issue.List     `json:"errors"`
	// Kind records which template was actually compiled.
	Kind templates.Kind       `json:"kind"`
	Mode templates.RenderMode `json:"mode"`
}

// CanPublish reports whether the message may be persisted as canonical.
func (r Result) CanPublish() bool { return r.Message != nil && len(r.Errors) == 0 }

// Compiler runs the compile pipeline. The zero value is not usable; call
// NewCompiler. A Compiler is safe for concurrent use.
type Compiler struct {
	renderer  *render.Renderer
	resolver  *templates.Resolver
	validator *validate.Validator
	tr        i18n.Translator
	envelope  bool
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithRenderer replaces the default renderer (for custom helpers or a
// different patch depth). The renderer keeps its own translator.
func WithRenderer(r *render.Renderer) Option {
	return func(c *Compiler) {
		if r != nil {
			c.renderer = r
		}
	}
}

// WithResolver replaces the resolver (for alternative built-ins).
func WithResolver(r *templates.Resolver) Option {
	return func(c *Compiler) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithEnvelopeCheck also validates rendered messages against the embedded
// envelope JSON Schema. Its errors follow the message-structure errors.
func WithEnvelopeCheck(on bool) Option {
	return func(c *Compiler) { c.envelope = on }
}

// WithTranslator phrases validation and render messages with tr. Without it
// NewCompiler captures the process-wide translator.
func WithTranslator(tr i18n.Translator) Option {
	return func(c *Compiler) {
		if tr != nil {
			c.tr = tr
		}
	}
}

// NewCompiler builds a Compiler with the default renderer and resolver.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{resolver: templates.NewResolver()}
	for _, o := range opts {
		o(c)
	}
	if c.tr == nil {
		c.tr = i18n.Current()
	}
	if c.renderer == nil {
		c.renderer = render.New(render.WithTranslator(c.tr))
	}
	c.validator = validate.New(c.tr)
	return c
}

var defaultCompiler = NewCompiler(WithTranslator(i18n.Dictionary("en")))

// Compile runs the default Compiler, which reports English messages.
func Compile(t *templates.Template, data map[string]any) Result {
	return defaultCompiler.Compile(t, data)
}

// Compile resolves t, validates data against the resolved schema, renders
// the message and checks its structure. The error list is schema errors,
// then render errors, then message errors, in that order.
//
// data is copied up front and never mutated.
func (c *Compiler) Compile(t *templates.Template, data map[string]any) (res Result) {
	resolved := c.resolver.Resolve(t)
	res = Result{Kind: resolved.Kind, Mode: resolved.Mode, Errors: issue.List{}}
	snapshot := jsonx.CloneMap(data)

	schemaErrs := c.validator.SchemaData(resolved.Schema, snapshot)
	defer func() {
		if p := recover(); p != nil {
			res.Message = nil
			res.Errors = issue.Concat(schemaErrs, issue.List{issue.Root().Error(issue.CodeRenderError,
				c.tr.Message(issue.CodeRenderError, nil)+": "+fmt.Sprint(p))})
		}
	}()

	msg, renderErrs := c.renderer.Render(resolved.Mode, resolved.Text, snapshot)
	var msgErrs issue.List
	if msg != nil {
		msgErrs = c.validator.MessageStructure(msg)
		if c.envelope {
			msgErrs = append(msgErrs, c.validator.Envelope(msg)...)
		}
	}
	res.Message = msg
	res.Errors = issue.Concat(schemaErrs, renderErrs, msgErrs)
	return res
}

// Resolve exposes the resolver decision for t.
func (c *Compiler) Resolve(t *templates.Template) templates.Resolved {
	return c.resolver.Resolve(t)
}

// Defaults builds initial form data from the resolved schema of t.
func (c *Compiler) Defaults(t *templates.Template) map[string]any {
	return schema.Defaults(c.resolver.Resolve(t).Schema)
}
