package render

import (
	"fmt"
	"reflect"
	"text/template"

	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/nestedpath"
)

// Helpers returns a fresh copy of the default grammar helpers:
//
//	json      encode any value as a JSON token ("null" for missing values)
//	default   value, or fallback when value is nil or ""
//	hasItems  true for a non-empty list
//	eq, ne    equality with numbers compared numerically
//	and       variadic, true when every argument is truthy
//	get       nested lookup by dotted path, nil when absent
//	dict      build an object from key/value pairs (for {{template}} calls)
//
// eq, ne and and replace the text/template builtins of the same name.
func Helpers() template.FuncMap {
	return template.FuncMap{
		"json":     toJSON,
		"default":  defaultValue,
		"hasItems": hasItems,
		"eq":       jsonx.Equal,
		"ne":       func(a, b any) bool { return !jsonx.Equal(a, b) },
		"and":      and,
		"get":      get,
		"dict":     dict,
	}
}

func toJSON(v any) (string, error) {
	b, err := jsonx.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func defaultValue(v, fallback any) any {
	if v == nil {
		return fallback
	}
	if s, ok := v.(string); ok && s == "" {
		return fallback
	}
	return v
}

func hasItems(v any) bool {
	l, ok := v.([]any)
	return ok && len(l) > 0
}

func and(args ...any) bool {
	for _, a := range args {
		if !truthy(a) {
			return false
		}
	}
	return true
}

func get(obj any, path string) any {
	v, _ := nestedpath.Get(obj, path)
	return v
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// truthy follows the template language: zero values, empty strings and empty
// containers are false.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
