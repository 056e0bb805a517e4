// Package docs manages concrete message documents built from templates:
// creation from schema defaults, edits validated through the compile
// pipeline, publishing and delivery.
package docs

import (
	"context"
	"errors"
	"time"

	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/templates"
)

// Mode is the shape of a document's message.
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeCarousel Mode = "carousel"
)

// Status is the lifecycle state of a document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

var (
	// ErrNotFound is returned (wrapped) by stores for unknown ids.
	ErrNotFound = errors.New("not found")
	// ErrNotPublishable wraps the issue.List that blocked a publish or a
	// delivery. Use issue.AsList to get the entries.
	ErrNotPublishable = errors.New("document has validation errors")
	// ErrNotPublished is returned when delivering a draft.
	ErrNotPublished = errors.New("document is not published")
)

// Doc is one concrete message instance.
type Doc struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	TemplateID       string         `json:"templateId"`
	Data             map[string]any `json:"data"`
	Mode             Mode           `json:"mode"`
	Status           Status         `json:"status"`
	PreviewJSON      map[string]any `json:"previewJson,omitempty"`
	IsValid          bool           `json:"isValid"`
	ValidationErrors issue.List     `json:"validationErrors"`
	LastValidatedAt  *time.Time     `json:"lastValidatedAt,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	PublishedAt      *time.Time     `json:"publishedAt,omitempty"`
}

// TemplateStore reads and writes templates.
type TemplateStore interface {
	GetTemplate(ctx context.Context, id string) (*templates.Template, error)
	// PutTemplate inserts or replaces t, assigning an id when empty.
	PutTemplate(ctx context.Context, t *templates.Template) error
	ListTemplates(ctx context.Context) ([]*templates.Template, error)
}

// DocStore reads and writes documents. Writes are last-write-wins.
type DocStore interface {
	GetDoc(ctx context.Context, id string) (*Doc, error)
	// PutDoc inserts or replaces d, assigning an id when empty.
	PutDoc(ctx context.Context, d *Doc) error
	ListDocs(ctx context.Context) ([]*Doc, error)
}
