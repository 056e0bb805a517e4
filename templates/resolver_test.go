package templates_test

import (
	"testing"

	"github.com/reoring/flexform/schema"
	"github.com/reoring/flexform/templates"
)

func TestResolve(t *testing.T) {
	custom := &schema.Descriptor{Sections: []schema.Section{{ID: "c"}}}
	stored := &schema.Descriptor{Sections: []schema.Section{{ID: "s"}}}
	legacy := `{"type":"flex","altText":"${data.altText}"}`

	cases := []struct {
		name string
		tpl  *templates.Template
		want templates.Kind
	}{
		{"grammar text is custom", &templates.Template{Name: "My carousel", TemplateText: `{"a": {{json .a}}}`, Schema: custom}, templates.KindCustom},
		{"carousel marker", &templates.Template{Name: "Spring Carousel", TemplateText: legacy}, templates.KindBuiltinCarousel},
		{"multi-page in description", &templates.Template{Name: "Promo", Description: "Multi-Page promo", TemplateText: legacy}, templates.KindBuiltinCarousel},
		{"carousel checked before poster", &templates.Template{Name: "Single poster slides", TemplateText: legacy}, templates.KindBuiltinCarousel},
		{"poster marker", &templates.Template{Name: "Event POSTER", TemplateText: legacy}, templates.KindBuiltinPoster},
		{"japanese marker", &templates.Template{Name: "カルーセル告知", TemplateText: legacy}, templates.KindBuiltinCarousel},
		{"no marker keeps stored", &templates.Template{Name: "Coupon", TemplateText: legacy, Schema: stored}, templates.KindStored},
	}
	r := templates.NewResolver()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := r.Resolve(c.tpl)
			if got.Kind != c.want {
				t.Fatalf("got %s want %s", got.Kind, c.want)
			}
			switch c.want {
			case templates.KindCustom, templates.KindStored:
				if got.Text != c.tpl.TemplateText || got.Schema != c.tpl.Schema {
					t.Fatalf("stored text/schema not kept")
				}
			case templates.KindBuiltinCarousel:
				if got.Text != templates.Carousel().TemplateText || got.Mode != templates.ModeGrammar {
					t.Fatalf("carousel built-in not used")
				}
			case templates.KindBuiltinPoster:
				if got.Text != templates.Poster().TemplateText {
					t.Fatalf("poster built-in not used")
				}
			}
		})
	}
}

func TestResolve_StoredKeepsLegacyMode(t *testing.T) {
	got := templates.NewResolver().Resolve(&templates.Template{Name: "Coupon", TemplateText: `{"a":"${data.a}"}`})
	if got.Mode != templates.ModeLegacy || got.Schema == nil {
		t.Fatalf("got %+v", got)
	}
	// an explicit stored mode is honored even when the text would sniff otherwise
	got = templates.NewResolver().Resolve(&templates.Template{Name: "Coupon", Mode: templates.ModeRaw, TemplateText: `{"a":"${data.a}"}`})
	if got.Mode != templates.ModeRaw {
		t.Fatalf("got %+v", got)
	}
}

func TestResolverWith(t *testing.T) {
	p := &templates.Template{ID: "p", TemplateText: "P", Mode: templates.ModeRaw}
	c := &templates.Template{ID: "c", TemplateText: "C", Mode: templates.ModeRaw}
	r := templates.NewResolverWith(p, c)
	if got := r.Resolve(&templates.Template{Name: "poster", TemplateText: "{}"}); got.Text != "P" {
		t.Fatalf("got %+v", got)
	}
	if got := r.Resolve(&templates.Template{Name: "slides", TemplateText: "{}"}); got.Text != "C" {
		t.Fatalf("got %+v", got)
	}
	if got := r.Resolve(nil); got.Kind != templates.KindStored || got.Text != "" {
		t.Fatalf("got %+v", got)
	}
}
