// Package templates holds message templates: the stored record, its render
// mode, the embedded built-in templates and the Resolver that upgrades old
// stored records to the built-ins.
package templates

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/render"
	"github.com/reoring/flexform/schema"
)

// Status is the lifecycle state of a template.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// RenderMode is fixed when a template is loaded or migrated.
type RenderMode = render.Mode

const (
	ModeGrammar = render.Grammar
	ModeLegacy  = render.Legacy
	ModeRaw     = render.Raw
)

// Template is a stored message template. TemplateText and Schema are
// immutable per Version.
type Template struct {
	ID           string             `json:"id" yaml:"id"`
	Name         string             `json:"name" yaml:"name"`
	Description  string             `json:"description,omitempty" yaml:"description,omitempty"`
	Status       Status             `json:"status" yaml:"status"`
	Version      int                `json:"version" yaml:"version"`
	Mode         RenderMode         `json:"mode,omitempty" yaml:"mode,omitempty"`
	TemplateText string             `json:"templateText" yaml:"templateText"`
	Schema       *schema.Descriptor `json:"schema,omitempty" yaml:"schema,omitempty"`
	SampleData   map[string]any     `json:"sampleData,omitempty" yaml:"sampleData,omitempty"`
}

// DetectMode is the one-time migration rule for records without a mode.
func DetectMode(text string) RenderMode { return render.Detect(text) }

// EffectiveMode returns the stored mode, or the sniffed one for records that
// predate the field.
func (t *Template) EffectiveMode() RenderMode {
	if t.Mode.Valid() {
		return t.Mode
	}
	return DetectMode(t.TemplateText)
}

// Publish marks t published and bumps its version.
func (t *Template) Publish() {
	t.Status = StatusPublished
	t.Version++
}

// Parse decodes a template file. Input starting with '{' is JSON, anything
// else YAML; duplicate keys are rejected in both. A missing status defaults to draft and a missing mode is
// detected once from the text.
func Parse(data []byte) (*Template, error) {
	var t Template
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		if dups, _ := jsonx.DuplicateKeys(trimmed); len(dups) > 0 {
			return nil, fmt.Errorf("template: duplicate key %q", dups[0])
		}
		if err := jsonx.UnmarshalInto(trimmed, &t); err != nil {
			return nil, fmt.Errorf("template: decode json: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("template: decode yaml: %w", err)
	}
	if err := t.prepare(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads and parses a template file.
func Load(path string) (*Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	return Parse(b)
}

func (t *Template) prepare() error {
	if t.Status == "" {
		t.Status = StatusDraft
	}
	m, err := render.ParseMode(string(t.Mode))
	if err != nil {
		return fmt.Errorf("template %q: %w", t.ID, err)
	}
	if m == "" {
		m = DetectMode(t.TemplateText)
	}
	t.Mode = m
	if t.Schema == nil {
		t.Schema = &schema.Descriptor{}
	}
	t.Schema.Normalize()
	if err := t.Schema.Check(); err != nil {
		return fmt.Errorf("template %q: %w", t.ID, err)
	}
	if t.SampleData != nil {
		t.SampleData, _ = jsonx.Normalize(t.SampleData).(map[string]any)
	}
	return nil
}
