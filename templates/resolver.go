package templates

import (
	"strings"

	"github.com/reoring/flexform/schema"
)

// Kind says where the effective template text came from.
type Kind string

const (
	// KindCustom is a grammar-mode template compiled as written.
	KindCustom Kind = "custom"
	// KindBuiltinPoster routes to the built-in single-bubble poster.
	KindBuiltinPoster Kind = "builtin-poster"
	// KindBuiltinCarousel routes to the built-in carousel.
	KindBuiltinCarousel Kind = "builtin-carousel"
	// KindStored is a non-grammar template compiled with its own text and schema.
	KindStored Kind = "stored"
)

// Resolved is the (text, schema) pair a compile runs against.
type Resolved struct {
	Kind   Kind
	Mode   RenderMode
	Text   string
	Schema *schema.Descriptor
}

// Markers matched case-insensitively against name and description. Carousel
// markers are checked first.
var (
	CarouselMarkers = []string{"carousel", "multi-page", "multipage", "multi page", "slides", "カルーセル", "複数ページ"}
	PosterMarkers   = []string{"single", "poster", "one-page", "ポスター", "単一"}
)

// Resolver upgrades stored records of the known built-in families to the
// current built-ins and leaves everything else alone.
type Resolver struct {
	poster, carousel *Template
}

// NewResolver uses the embedded built-ins.
func NewResolver() *Resolver {
	return &Resolver{poster: Poster(), carousel: Carousel()}
}

// NewResolverWith substitutes the two built-in definitions.
func NewResolverWith(poster, carousel *Template) *Resolver {
	return &Resolver{poster: poster, carousel: carousel}
}

// Resolve picks the effective template:
//
//   - grammar-mode templates are used as-is (custom)
//   - otherwise name/description markers route to a built-in
//   - anything else keeps its stored text and schema
func (r *Resolver) Resolve(t *Template) Resolved {
	if t == nil {
		return Resolved{Kind: KindStored, Mode: ModeRaw, Schema: &schema.Descriptor{}}
	}
	mode := t.EffectiveMode()
	if mode == ModeGrammar {
		return Resolved{Kind: KindCustom, Mode: mode, Text: t.TemplateText, Schema: schemaOf(t)}
	}
	switch classify(t.Name + " " + t.Description) {
	case KindBuiltinCarousel:
		return builtin(KindBuiltinCarousel, r.carousel)
	case KindBuiltinPoster:
		return builtin(KindBuiltinPoster, r.poster)
	}
	return Resolved{Kind: KindStored, Mode: mode, Text: t.TemplateText, Schema: schemaOf(t)}
}

func builtin(k Kind, t *Template) Resolved {
	return Resolved{Kind: k, Mode: t.EffectiveMode(), Text: t.TemplateText, Schema: schemaOf(t)}
}

func classify(s string) Kind {
	s = strings.ToLower(s)
	for _, m := range CarouselMarkers {
		if strings.Contains(s, m) {
			return KindBuiltinCarousel
		}
	}
	for _, m := range PosterMarkers {
		if strings.Contains(s, m) {
			return KindBuiltinPoster
		}
	}
	return ""
}

func schemaOf(t *Template) *schema.Descriptor {
	if t.Schema == nil {
		return &schema.Descriptor{}
	}
	return t.Schema
}
