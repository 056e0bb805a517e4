// Package render expands template text against form data into a Flex message
// and applies the patch overlays.
//
// A Renderer is immutable after New and safe for concurrent use. Rendering is
// a pure function of (mode, text, data): data is never mutated and no state
// is kept between calls.
package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/spf13/cast"

	"github.com/reoring/flexform/i18n"
	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/nestedpath"
)

// DefaultMaxPatchDepth bounds inline patch expansion.
const DefaultMaxPatchDepth = 32

// Renderer turns template text into a message.
type Renderer struct {
	funcs         template.FuncMap
	maxPatchDepth int
	tr            i18n.Translator
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHelpers adds grammar helpers, replacing defaults of the same name.
func WithHelpers(fm template.FuncMap) Option {
	return func(r *Renderer) {
		for k, v := range fm {
			r.funcs[k] = v
		}
	}
}

// WithMaxPatchDepth sets how many __patch expansions a path from the message
// root may accumulate before rendering fails. Values below 1 keep the default.
func WithMaxPatchDepth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxPatchDepth = n
		}
	}
}

// WithTranslator phrases error messages with tr. A nil tr is ignored.
func WithTranslator(tr i18n.Translator) Option {
	return func(r *Renderer) {
		if tr != nil {
			r.tr = tr
		}
	}
}

// New builds a Renderer with the default helpers. Without WithTranslator the
// process-wide translator is captured here and kept for the Renderer's life.
func New(opts ...Option) *Renderer {
	r := &Renderer{funcs: Helpers(), maxPatchDepth: DefaultMaxPatchDepth}
	for _, o := range opts {
		o(r)
	}
	if r.tr == nil {
		r.tr = i18n.Current()
	}
	return r
}

// Render expands text in the given mode, parses the result as a JSON object,
// expands inline __patch markers and finally merges data.advanced.messagePatch
// over the whole message.
//
// When the returned list is non-empty the message is nil: render failures are
// fatal to the call. An empty mode is resolved with Detect.
func (r *Renderer) Render(mode Mode, text string, data map[string]any) (msg map[string]any, errs issue.List) {
	defer func() {
		if p := recover(); p != nil {
			msg = nil
			errs = issue.List{renderFailure(r.tr, fmt.Errorf("panic: %v", p))}
		}
	}()

	if strings.TrimSpace(text) == "" {
		return nil, issue.List{issue.At(issue.PathTemplateText).Error(issue.CodeRenderError, r.tr.Message("template_empty", nil))}
	}
	if data == nil {
		data = map[string]any{}
	}
	if mode == "" {
		mode = Detect(text)
	}

	var out string
	switch mode {
	case Grammar:
		s, err := r.execute(text, data)
		if err != nil {
			return nil, issue.List{renderFailure(r.tr, err)}
		}
		out = s
	case Legacy:
		s, missing := substitute(r.tr, text, data)
		if len(missing) > 0 {
			return nil, missing
		}
		out = s
	case Raw:
		out = text
	default:
		return nil, issue.List{renderFailure(r.tr, fmt.Errorf("unknown render mode %q", mode))}
	}

	v, err := jsonx.UnmarshalString(out)
	if err != nil {
		return nil, issue.List{parseFailure(r.tr, err.Error())}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, issue.List{parseFailure(r.tr, "message must be a JSON object")}
	}

	expanded, perrs := applyInlinePatches(r.tr, obj, r.maxPatchDepth)
	if len(perrs) > 0 {
		return nil, perrs
	}
	return ApplyMessagePatch(expanded.(map[string]any), data), nil
}

func (r *Renderer) execute(text string, data map[string]any) (string, error) {
	t, err := template.New("message").Option("missingkey=default").Funcs(r.funcs).Parse(text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// substitute replaces every ${data.<path>} token. Each distinct unresolved
// path is reported once, in order of first appearance, and any miss fails the
// whole substitution.
func substitute(tr i18n.Translator, text string, data map[string]any) (string, issue.List) {
	var missing issue.List
	seen := map[string]bool{}
	out := legacyToken.ReplaceAllStringFunc(text, func(tok string) string {
		path := strings.TrimSpace(legacyToken.FindStringSubmatch(tok)[1])
		v, ok := nestedpath.Get(data, path)
		if !ok {
			if !seen[path] {
				seen[path] = true
				missing = append(missing, issue.At(issue.PathTemplateText).FieldError(path, issue.CodeMissingVariable,
					tr.Message(issue.CodeMissingVariable, map[string]string{"name": path}), "name", path))
			}
			return tok
		}
		return scalarText(v)
	})
	return out, missing
}

// scalarText inserts strings, booleans and numbers verbatim and JSON-encodes
// everything else.
func scalarText(v any) string {
	switch v.(type) {
	case string, bool, float64, float32, int, int64:
		return cast.ToString(v)
	}
	b, err := jsonx.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func renderFailure(tr i18n.Translator, err error) issue.ValidationError {
	return issue.Root().Error(issue.CodeRenderError, tr.Message(issue.CodeRenderError, nil)+": "+err.Error(), "cause", err.Error())
}

func parseFailure(tr i18n.Translator, cause string) issue.ValidationError {
	return issue.Root().Error(issue.CodeParseError, tr.Message(issue.CodeParseError, nil)+": "+cause, "cause", cause)
}
