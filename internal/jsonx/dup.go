package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
)

type frame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	path         string
	next         int
}

// DuplicateKeys returns the paths (a.b[0].c form) of object keys that occur
// more than once in data, in document order. A syntax error stops the scan
// and is returned with the paths found so far.
func DuplicateKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var (
		dups  []string
		stack []frame
	)
	// child returns the path of the value about to be read in the top frame.
	child := func(key string) string {
		if len(stack) == 0 {
			return ""
		}
		top := &stack[len(stack)-1]
		if !top.object {
			p := top.path + "[" + strconv.Itoa(top.next) + "]"
			top.next++
			return p
		}
		top.expectingKey = true
		if top.path == "" {
			return key
		}
		return top.path + "." + key
	}
	var pending string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return dups, io.ErrUnexpectedEOF
			}
			return dups, nil
		}
		if err != nil {
			return dups, err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				p := child(pending)
				stack = append(stack, frame{object: v == '{', keys: map[string]struct{}{}, expectingKey: v == '{', path: p})
			case '}', ']':
				stack = stack[:len(stack)-1]
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := &stack[n-1]
				if _, ok := top.keys[v]; ok {
					p := v
					if top.path != "" {
						p = top.path + "." + v
					}
					dups = append(dups, p)
				}
				top.keys[v] = struct{}{}
				top.expectingKey = false
				pending = v
				continue
			}
			child(pending)
		default:
			child(pending)
		}
	}
}
