package render

import (
	"sort"
	"strconv"

	"dario.cat/mergo"

	"github.com/reoring/flexform/i18n"
	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/nestedpath"
)

// PatchKey marks an inline patch inside a rendered object.
const PatchKey = "__patch"

// MessagePatchPath locates the whole-message patch inside form data.
const MessagePatchPath = "advanced.messagePatch"

// DeepMerge merges patch into base and returns a new value. Two objects merge
// key-wise with patch winning on conflicts, null and empty values included;
// in every other case (arrays, scalars, mismatched kinds) the patch replaces
// base outright. Both inputs are cloned first, so neither is mutated and the
// result shares no containers with them.
func DeepMerge(base, patch any) any {
	if !jsonx.IsObject(base) || !jsonx.IsObject(patch) {
		return jsonx.Clone(patch)
	}
	dst := jsonx.Clone(base).(map[string]any)
	src := jsonx.Clone(patch).(map[string]any)
	// same map type on both sides, so Merge has no type error to report
	if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
		return src
	}
	return dst
}

// ApplyInlinePatches walks v and, for every object carrying __patch, removes
// the marker and deep-merges the patch into that object. Merged results are
// re-examined so patches that introduce further __patch markers are expanded
// too. Expansions are counted along each path from the root: an object whose
// ancestors and itself would need more than maxDepth merges reports
// patch_depth at that object's path. This bounds both a chain of markers on
// one object and patches that keep nesting new patched children.
//
// A __patch value may be a JSON string or an object; anything else (or a
// string that is not a JSON object) is dropped.
//
// Messages use the process-wide translator; a Renderer uses its own.
func ApplyInlinePatches(v any, maxDepth int) (any, issue.List) {
	return applyInlinePatches(i18n.Current(), v, maxDepth)
}

func applyInlinePatches(tr i18n.Translator, v any, maxDepth int) (any, issue.List) {
	if maxDepth < 1 {
		maxDepth = DefaultMaxPatchDepth
	}
	x := &expander{tr: tr, maxDepth: maxDepth}
	out := x.expand(v, issue.Root(), 0)
	return out, x.errs
}

type expander struct {
	tr       i18n.Translator
	maxDepth int
	errs     issue.List
}

func (x *expander) expand(v any, path issue.Path, used int) any {
	switch t := v.(type) {
	case map[string]any:
		obj := t
		for ; ; used++ {
			raw, ok := obj[PatchKey]
			if !ok {
				break
			}
			if used >= x.maxDepth {
				x.errs = append(x.errs, path.Error(issue.CodePatchDepth,
					x.tr.Message(issue.CodePatchDepth, map[string]string{"max": strconv.Itoa(x.maxDepth)}), "max", x.maxDepth))
				return without(obj, PatchKey)
			}
			rest := without(obj, PatchKey)
			if patch, ok := decodePatch(raw); ok {
				obj = DeepMerge(rest, patch).(map[string]any)
			} else {
				obj = rest
			}
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(obj))
		for _, k := range keys {
			out[k] = x.expand(obj[k], path.Field(k), used)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = x.expand(e, path.Index(i), used)
		}
		return out
	default:
		return v
	}
}

// ApplyMessagePatch merges data.advanced.messagePatch over msg when it is an
// object or a JSON string holding one. Otherwise msg is returned unchanged.
func ApplyMessagePatch(msg map[string]any, data map[string]any) map[string]any {
	raw, ok := nestedpath.Get(data, MessagePatchPath)
	if !ok {
		return msg
	}
	patch, ok := decodePatch(raw)
	if !ok {
		return msg
	}
	return DeepMerge(msg, patch).(map[string]any)
}

func decodePatch(raw any) (map[string]any, bool) {
	switch t := raw.(type) {
	case map[string]any:
		return t, true
	case string:
		v, err := jsonx.UnmarshalString(t)
		if err != nil {
			return nil, false
		}
		m, ok := v.(map[string]any)
		return m, ok
	}
	return nil, false
}

func without(m map[string]any, key string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k != key {
			out[k] = v
		}
	}
	return out
}
