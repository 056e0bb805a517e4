package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/templates"
)

// loadTemplate accepts a built-in id or a template file path.
func loadTemplate(ref string) (*templates.Template, error) {
	if t, ok := templates.Builtin(ref); ok {
		return t, nil
	}
	return templates.Load(ref)
}

// readData reads a JSON or YAML object from path, or stdin for "-".
func readData(path string, stdin io.Reader) (map[string]any, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return decodeData(b)
}

func decodeData(b []byte) (map[string]any, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return map[string]any{}, nil
	}
	var v any
	if b[0] == '{' {
		if dups, _ := jsonx.DuplicateKeys(b); len(dups) > 0 {
			return nil, fmt.Errorf("data: duplicate key %q", dups[0])
		}
		if err := jsonx.UnmarshalInto(b, &v); err != nil {
			return nil, fmt.Errorf("failed to decode data: %w", err)
		}
	} else if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	m, ok := jsonx.Normalize(v).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("data must be an object")
	}
	return m, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := jsonx.MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
