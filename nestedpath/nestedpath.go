// Package nestedpath reads and writes values inside JSON-like trees
// (map[string]any / []any) addressed by dotted paths.
//
// An array index may be written either as a bracket suffix ("pages[0].title")
// or as a bare numeric segment ("pages.0.title"); both forms traverse the same
// way.
package nestedpath

import (
	"strconv"
	"strings"
)

// Split normalizes a path into its segments. Bracket indices become their own
// numeric segments and empty segments are dropped.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	var segs []string
	for _, part := range strings.Split(path, ".") {
		for part != "" {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				segs = append(segs, part)
				break
			}
			if open > 0 {
				segs = append(segs, part[:open])
			}
			rest := part[open+1:]
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				// unterminated bracket: keep the remainder verbatim
				segs = append(segs, rest)
				break
			}
			if idx := rest[:end]; idx != "" {
				segs = append(segs, idx)
			}
			part = rest[end+1:]
		}
	}
	return segs
}

// Get returns the value at path and whether it exists. Missing intermediate
// keys, out-of-range indices and scalar intermediates all report false; a
// present JSON null reports (nil, true). An empty path addresses obj itself.
func Get(obj any, path string) (any, bool) {
	cur := obj
	for _, seg := range Split(path) {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, ok := index(seg)
			if !ok || idx >= len(c) {
				return nil, false
			}
			cur = c[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Set assigns v at path inside obj, creating intermediate objects (or arrays
// when the next segment is numeric). Scalar intermediates are replaced and
// short arrays are padded with nulls up to the index. The last segment always
// overwrites.
func Set(obj map[string]any, path string, v any) {
	segs := Split(path)
	if obj == nil || len(segs) == 0 {
		return
	}
	setIn(obj, segs, v)
}

func setIn(cur any, segs []string, v any) any {
	seg := segs[0]
	last := len(segs) == 1
	switch c := cur.(type) {
	case map[string]any:
		if last {
			c[seg] = v
			return c
		}
		c[seg] = setIn(container(c[seg], segs[1]), segs[1:], v)
		return c
	case []any:
		idx, ok := index(seg)
		if !ok {
			return c
		}
		if idx >= len(c) {
			c = append(c, make([]any, idx+1-len(c))...)
		}
		if last {
			c[idx] = v
			return c
		}
		c[idx] = setIn(container(c[idx], segs[1]), segs[1:], v)
		return c
	default:
		return cur
	}
}

// container returns existing when it can hold children, otherwise a fresh
// array (numeric next segment) or object.
func container(existing any, next string) any {
	switch existing.(type) {
	case map[string]any, []any:
		return existing
	}
	if _, ok := index(next); ok {
		return []any{}
	}
	return map[string]any{}
}

func index(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	n, err := strconv.Atoi(seg)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
