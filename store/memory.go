// Package store provides docs.TemplateStore and docs.DocStore
// implementations: an in-process Memory store and a SQL store on sqlx.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/reoring/flexform/docs"
	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/templates"
)

// Memory keeps records in maps. Values are copied on the way in and out so
// callers never share state with the store.
type Memory struct {
	mu        sync.RWMutex
	templates map[string]*templates.Template
	docs      map[string]*docs.Doc
}

var (
	_ docs.TemplateStore = (*Memory)(nil)
	_ docs.DocStore      = (*Memory)(nil)
)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{templates: map[string]*templates.Template{}, docs: map[string]*docs.Doc{}}
}

// GetTemplate returns a copy of the template, or docs.ErrNotFound.
func (m *Memory) GetTemplate(_ context.Context, id string) (*templates.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.templates[id]
	if !ok {
		return nil, fmt.Errorf("template %s: %w", id, docs.ErrNotFound)
	}
	return copyTemplate(t), nil
}

// PutTemplate stores a copy of t, assigning an ID when it has none.
func (m *Memory) PutTemplate(_ context.Context, t *templates.Template) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = copyTemplate(t)
	return nil
}

// ListTemplates returns copies of every template ordered by name, then ID.
func (m *Memory) ListTemplates(_ context.Context) ([]*templates.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*templates.Template, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, copyTemplate(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetDoc returns a copy of the document, or docs.ErrNotFound.
func (m *Memory) GetDoc(_ context.Context, id string) (*docs.Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("doc %s: %w", id, docs.ErrNotFound)
	}
	return copyDoc(d), nil
}

// PutDoc stores a copy of d, assigning an ID when it has none.
func (m *Memory) PutDoc(_ context.Context, d *docs.Doc) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[d.ID] = copyDoc(d)
	return nil
}

// ListDocs returns copies of every document ordered by creation time, then ID.
func (m *Memory) ListDocs(_ context.Context) ([]*docs.Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*docs.Doc, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, copyDoc(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// templates are immutable per version, so the schema pointer is shared.
func copyTemplate(t *templates.Template) *templates.Template {
	cp := *t
	if t.SampleData != nil {
		cp.SampleData = jsonx.CloneMap(t.SampleData)
	}
	return &cp
}

func copyDoc(d *docs.Doc) *docs.Doc {
	cp := *d
	cp.Data = jsonx.CloneMap(d.Data)
	if d.PreviewJSON != nil {
		cp.PreviewJSON = jsonx.CloneMap(d.PreviewJSON)
	}
	cp.ValidationErrors = append(issue.List{}, d.ValidationErrors...)
	return &cp
}

// SeedBuiltins stores a copy of every built-in template.
func SeedBuiltins(ctx context.Context, ts docs.TemplateStore) error {
	for _, t := range templates.Builtins() {
		if err := ts.PutTemplate(ctx, copyTemplate(t)); err != nil {
			return fmt.Errorf("failed to seed %s: %w", t.ID, err)
		}
	}
	return nil
}
