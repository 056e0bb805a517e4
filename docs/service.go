package docs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reoring/flexform"
	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/templates"
	"github.com/reoring/flexform/validate"
)

// Service runs documents through the compile pipeline and persists them.
type Service struct {
	templates TemplateStore
	docs      DocStore
	compiler  *flexform.Compiler
	log       *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCompiler replaces the default compiler.
func WithCompiler(c *flexform.Compiler) Option {
	return func(s *Service) {
		if c != nil {
			s.compiler = c
		}
	}
}

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a document service.
func NewService(ts TemplateStore, ds DocStore, opts ...Option) *Service {
	s := &Service{
		templates: ts,
		docs:      ds,
		compiler:  flexform.NewCompiler(),
		log:       slog.Default(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create starts a draft from the template's schema defaults and validates it
// once so the editor can show what still needs filling in.
func (s *Service) Create(ctx context.Context, templateID, title string) (*Doc, error) {
	tpl, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	now := s.now().UTC()
	d := &Doc{
		Title:      title,
		TemplateID: templateID,
		Data:       s.compiler.Defaults(tpl),
		Status:     StatusDraft,
		CreatedAt:  now,
	}
	res := s.apply(d, tpl, now)
	d.Mode = modeOf(res)
	if err := s.docs.PutDoc(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create doc: %w", err)
	}
	s.log.InfoContext(ctx, "doc created", "doc_id", d.ID, "template_id", templateID, "kind", res.Kind)
	return d, nil
}

// Get returns a document by id.
func (s *Service) Get(ctx context.Context, id string) (*Doc, error) {
	d, err := s.docs.GetDoc(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get doc: %w", err)
	}
	return d, nil
}

// UpdateData replaces the document's form data and recompiles it. Editing a
// published document returns it to draft until it is published again.
func (s *Service) UpdateData(ctx context.Context, id string, data map[string]any) (*Doc, error) {
	d, tpl, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	d.Data = jsonx.CloneMap(data)
	res := s.apply(d, tpl, now)
	if d.Status == StatusPublished {
		d.Status = StatusDraft
		d.PublishedAt = nil
	}
	if err := s.docs.PutDoc(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update doc: %w", err)
	}
	s.log.DebugContext(ctx, "doc updated", "doc_id", id, "valid", d.IsValid, "errors", len(res.Errors))
	return d, nil
}

// Publish recompiles the stored data and, when it yields no errors, stores
// the message as the definitive preview. Otherwise the validation state is
// saved and an error wrapping ErrNotPublishable and the issue list is
// returned.
func (s *Service) Publish(ctx context.Context, id string) (*Doc, error) {
	d, tpl, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	res := s.apply(d, tpl, now)
	if !res.CanPublish() {
		if err := s.docs.PutDoc(ctx, d); err != nil {
			return nil, fmt.Errorf("failed to update doc: %w", err)
		}
		s.log.InfoContext(ctx, "publish refused", "doc_id", id, "errors", len(res.Errors))
		return d, fmt.Errorf("%w: %w", ErrNotPublishable, res.Errors)
	}
	d.Status = StatusPublished
	d.PublishedAt = &now
	if err := s.docs.PutDoc(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to publish doc: %w", err)
	}
	s.log.InfoContext(ctx, "doc published", "doc_id", id, "template_id", d.TemplateID)
	return d, nil
}

// Deliverable returns the message to send for a published document. The
// cached preview is re-validated first; if it no longer passes, the message
// is recompiled from the stored data on the fly.
func (s *Service) Deliverable(ctx context.Context, id string) (map[string]any, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != StatusPublished {
		return nil, ErrNotPublished
	}
	if d.PreviewJSON != nil && len(validate.MessageStructure(d.PreviewJSON)) == 0 {
		return d.PreviewJSON, nil
	}
	tpl, err := s.templates.GetTemplate(ctx, d.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	res := s.compiler.Compile(tpl, d.Data)
	if !res.CanPublish() {
		s.log.WarnContext(ctx, "cached message invalid and recompile failed", "doc_id", id, "errors", len(res.Errors))
		return nil, fmt.Errorf("%w: %w", ErrNotPublishable, res.Errors)
	}
	s.log.WarnContext(ctx, "cached message invalid, recompiled", "doc_id", id)
	return res.Message, nil
}

func (s *Service) load(ctx context.Context, id string) (*Doc, *templates.Template, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tpl, err := s.templates.GetTemplate(ctx, d.TemplateID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get template: %w", err)
	}
	return d, tpl, nil
}

// apply compiles d.Data and records the outcome on d. A failed render keeps
// the last good preview.
func (s *Service) apply(d *Doc, tpl *templates.Template, now time.Time) flexform.Result {
	res := s.compiler.Compile(tpl, d.Data)
	if res.Message != nil {
		d.PreviewJSON = res.Message
	}
	d.IsValid = res.CanPublish()
	d.ValidationErrors = res.Errors
	d.LastValidatedAt = &now
	d.UpdatedAt = now
	return res
}

func modeOf(res flexform.Result) Mode {
	switch res.Kind {
	case templates.KindBuiltinCarousel:
		return ModeCarousel
	case templates.KindBuiltinPoster:
		return ModeSingle
	}
	if contents, ok := res.Message["contents"].(map[string]any); ok && contents["type"] == "carousel" {
		return ModeCarousel
	}
	return ModeSingle
}
