// Package validate checks form data against a schema.Descriptor and checks a
// rendered message against the messaging platform's structural rules.
//
// Every check reports issue.ValidationError values; nothing here panics on
// malformed-but-well-typed input.
package validate

import (
	"net/url"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/nestedpath"
	"github.com/reoring/flexform/schema"
)

var colorRE = regexp.MustCompile(schema.ColorPattern)

// Field validates one value against its field definition. path locates the
// value for error reporting and scope is the object the field's siblings live
// in (used by requiredIf).
//
// A required value that is nil or "" yields exactly one error and nothing
// else. An optional empty value is valid. Otherwise every applicable check
// runs.
func (vr *Validator) Field(f schema.Field, value any, path issue.Path, scope any) issue.List {
	empty := isEmpty(value)
	c := f.Constraints
	if f.Required && empty {
		return issue.List{vr.required(f, path)}
	}
	if !f.Required && c != nil && c.RequiredIf != nil && empty {
		sib, ok := nestedpath.Get(scope, c.RequiredIf.When)
		if ok && jsonx.Equal(sib, c.RequiredIf.Is) {
			return issue.List{vr.required(f, path)}
		}
	}
	if empty {
		return nil
	}

	var out issue.List
	s, isString := value.(string)

	if f.Type == schema.TypeColor && (!isString || !colorRE.MatchString(s)) {
		out = append(out, path.FieldError(f.Key, issue.CodeInvalidColor, vr.tr.Message(issue.CodeInvalidColor, nil)))
	}
	if f.Type == schema.TypeJSON {
		if isString {
			if _, err := jsonx.UnmarshalString(s); err != nil {
				out = append(out, path.FieldError(f.Key, issue.CodeInvalidJSON, vr.tr.Message(issue.CodeInvalidJSON, nil), "cause", err.Error()))
			}
		} else if !isContainer(value) {
			out = append(out, path.FieldError(f.Key, issue.CodeInvalidJSON, vr.tr.Message(issue.CodeInvalidJSON, nil)))
		}
	}
	if isString && c != nil {
		n := utf8.RuneCountInString(s)
		if c.MaxLength != nil && n > *c.MaxLength {
			out = append(out, path.FieldError(f.Key, issue.CodeTooLong,
				vr.tr.Message(issue.CodeTooLong, map[string]string{"max": strconv.Itoa(*c.MaxLength)}),
				"max", *c.MaxLength, "got", n))
		}
		if c.MinLength != nil && n < *c.MinLength {
			out = append(out, path.FieldError(f.Key, issue.CodeTooShort,
				vr.tr.Message(issue.CodeTooShort, map[string]string{"min": strconv.Itoa(*c.MinLength)}),
				"min", *c.MinLength, "got", n))
		}
	}
	if f.Type.IsURL() {
		out = append(out, vr.checkURL(f, value, path)...)
	}
	if isString && c != nil && c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err != nil || !re.MatchString(s) {
			e := path.FieldError(f.Key, issue.CodePattern, vr.tr.Message(issue.CodePattern, nil), "pattern", c.Pattern)
			if err != nil {
				e.Params["cause"] = err.Error()
			}
			out = append(out, e)
		}
	}
	if f.Type == schema.TypeRepeatable {
		out = append(out, vr.repeatableField(f, value, path)...)
	}
	return out
}

func (vr *Validator) checkURL(f schema.Field, value any, path issue.Path) issue.List {
	s, _ := value.(string)
	u, ok := absoluteURL(s)
	if !ok {
		return issue.List{path.FieldError(f.Key, issue.CodeInvalidURL, vr.tr.Message(issue.CodeInvalidURL, nil))}
	}
	if f.Constraints != nil && f.Constraints.HTTPSOnly && u.Scheme != "https" {
		return issue.List{path.FieldError(f.Key, issue.CodeInsecureURL,
			vr.tr.Message(issue.CodeInsecureURL, nil), "scheme", u.Scheme)}
	}
	return nil
}

func (vr *Validator) repeatableField(f schema.Field, value any, path issue.Path) issue.List {
	items, ok := value.([]any)
	if !ok {
		return issue.List{path.FieldError(f.Key, issue.CodeInvalidType,
			vr.tr.Message(issue.CodeInvalidType, map[string]string{"expected": "list"}), "expected", "array")}
	}
	out := vr.itemCount(f.Key, f.Constraints, len(items), path)
	if f.ItemSchema != nil {
		for i, item := range items {
			out = append(out, vr.fieldSet(f.ItemSchema.Fields, item, path.Index(i))...)
		}
	}
	return out
}

// fieldSet validates fields against one scope, in declaration order.
func (vr *Validator) fieldSet(fields []schema.Field, scope any, base issue.Path) issue.List {
	var out issue.List
	for _, f := range fields {
		v, _ := nestedpath.Get(scope, f.Key)
		out = append(out, vr.Field(f, v, base.Field(f.Key), scope)...)
	}
	return out
}

// itemCount checks both bounds independently.
func (vr *Validator) itemCount(key string, c *schema.Constraints, n int, path issue.Path) issue.List {
	if c == nil {
		return nil
	}
	var out issue.List
	if c.MinItems != nil && n < *c.MinItems {
		out = append(out, path.FieldError(key, issue.CodeMinItems,
			vr.tr.Message(issue.CodeMinItems, map[string]string{"min": strconv.Itoa(*c.MinItems)}),
			"min", *c.MinItems, "got", n))
	}
	if c.MaxItems != nil && n > *c.MaxItems {
		out = append(out, path.FieldError(key, issue.CodeMaxItems,
			vr.tr.Message(issue.CodeMaxItems, map[string]string{"max": strconv.Itoa(*c.MaxItems)}),
			"max", *c.MaxItems, "got", n))
	}
	return out
}

func (vr *Validator) required(f schema.Field, path issue.Path) issue.ValidationError {
	return path.FieldError(f.Key, issue.CodeRequired, vr.tr.Message(issue.CodeRequired, nil))
}

// isEmpty treats null and "" as absent.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

// absoluteURL parses s and requires a scheme, plus a host for web URLs.
func absoluteURL(s string) (*url.URL, bool) {
	if s == "" {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return nil, false
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return nil, false
	}
	return u, true
}
