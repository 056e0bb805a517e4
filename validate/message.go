package validate

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/flexform/issue"
)

// MaxAltTextLength is the platform limit for altText, in characters.
const MaxAltTextLength = 400

// Action types understood by the platform.
const (
	ActionURI      = "uri"
	ActionMessage  = "message"
	ActionPostback = "postback"
)

// MessageStructure applies the platform's pre-flight rules to a rendered
// message: altText must be present (non-blank, at most 400 characters) and
// every object below contents that carries an action must have a label plus
// the companion field its type requires. uri actions must be absolute https
// URLs.
//
// Object keys are visited in sorted order so the result is deterministic.
func (vr *Validator) MessageStructure(msg map[string]any) issue.List {
	out := issue.List{}
	alt, _ := msg["altText"].(string)
	altPath := issue.Root().Field("altText")
	switch n := utf8.RuneCountInString(alt); {
	case strings.TrimSpace(alt) == "":
		out = append(out, altPath.Error(issue.CodeRequired, vr.tr.Message("alt_text_missing", nil)))
	case n > MaxAltTextLength:
		out = append(out, altPath.Error(issue.CodeTooLong,
			vr.tr.Message(issue.CodeTooLong, map[string]string{"max": strconv.Itoa(MaxAltTextLength)}),
			"max", MaxAltTextLength, "got", n))
	}
	if contents, ok := msg["contents"]; ok {
		out = vr.walkActions(contents, issue.Root().Field("contents"), out)
	}
	return out
}

func (vr *Validator) walkActions(v any, path issue.Path, out issue.List) issue.List {
	switch t := v.(type) {
	case map[string]any:
		if act, ok := t["action"]; ok {
			out = append(out, vr.checkAction(act, path.Field("action"))...)
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = vr.walkActions(t[k], path.Field(k), out)
		}
	case []any:
		for i, e := range t {
			out = vr.walkActions(e, path.Index(i), out)
		}
	}
	return out
}

func (vr *Validator) checkAction(v any, path issue.Path) issue.List {
	act, _ := v.(map[string]any)
	var out issue.List
	if !nonBlank(act["label"]) {
		out = append(out, path.Field("label").Error(issue.CodeRequired, vr.tr.Message("label_missing", nil)))
	}
	typ, _ := act["type"].(string)
	switch typ {
	case ActionURI:
		p := path.Field("uri")
		raw, _ := act["uri"].(string)
		if strings.TrimSpace(raw) == "" {
			out = append(out, p.Error(issue.CodeRequired, vr.tr.Message("uri_missing", nil)))
			break
		}
		u, ok := absoluteURL(raw)
		switch {
		case !ok:
			out = append(out, p.Error(issue.CodeInvalidURL, vr.tr.Message(issue.CodeInvalidURL, nil), "uri", raw))
		case u.Scheme != "https":
			out = append(out, p.Error(issue.CodeInsecureURL, vr.tr.Message(issue.CodeInsecureURL, nil), "uri", raw, "scheme", u.Scheme))
		}
	case ActionMessage:
		if !nonBlank(act["text"]) {
			out = append(out, path.Field("text").Error(issue.CodeRequired, vr.tr.Message("text_missing", nil)))
		}
	case ActionPostback:
		if !nonBlank(act["data"]) {
			out = append(out, path.Field("data").Error(issue.CodeRequired, vr.tr.Message("data_missing", nil)))
		}
	}
	return out
}

func nonBlank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}
