// Package jsonx centralises JSON encoding on goccy/go-json and converts
// YAML-decoded values into the JSON value model (map[string]any, []any,
// float64, string, bool, nil) used throughout flexform.
package jsonx

import (
	stdjson "encoding/json"
	"fmt"
	"reflect"

	j "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// Unmarshal decodes a single JSON document into the generic value model.
// Numbers decode as float64. Input must be strict RFC 8259 JSON.
func Unmarshal(b []byte) (any, error) {
	var v any
	if err := UnmarshalInto(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// UnmarshalString is Unmarshal over a string.
func UnmarshalString(s string) (any, error) { return Unmarshal([]byte(s)) }

// UnmarshalInto decodes into a typed destination. The syntax is checked with
// encoding/json's scanner first: goccy's decoder tolerates some invalid
// input such as numbers with leading zeros.
func UnmarshalInto(b []byte, dst any) error {
	if err := checkSyntax(b); err != nil {
		return err
	}
	return j.Unmarshal(b, dst)
}

func checkSyntax(b []byte) error {
	if stdjson.Valid(b) {
		return nil
	}
	// a RawMessage target runs only the scanner and yields a positioned error
	var raw stdjson.RawMessage
	if err := stdjson.Unmarshal(b, &raw); err != nil {
		return err
	}
	return fmt.Errorf("invalid JSON")
}

// Marshal encodes v compactly.
func Marshal(v any) ([]byte, error) { return j.Marshal(v) }

// MarshalIndent encodes v for humans.
func MarshalIndent(v any) ([]byte, error) { return j.MarshalIndent(v, "", "  ") }

// Clone deep-copies maps and slices of the generic value model. Other values
// are returned as-is (they are immutable in this model).
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Clone(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Clone(t[i])
		}
		return out
	default:
		return v
	}
}

// CloneMap is Clone for object roots; nil yields an empty map.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return Clone(m).(map[string]any)
}

// Normalize converts YAML-decoded values (which may contain map[any]any and
// integer kinds) into the JSON value model recursively.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = Normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = Normalize(t[i])
		}
		return arr
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

// IsObject reports whether v is a JSON object.
func IsObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// Equal compares numbers numerically (YAML ints against JSON floats) and
// everything else structurally.
func Equal(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		return cast.ToFloat64(a) == cast.ToFloat64(b)
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}
