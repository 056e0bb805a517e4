package templates

import (
	"embed"
	"fmt"
	"sync"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Built-in template ids.
const (
	PosterID   = "builtin-poster"
	CarouselID = "builtin-carousel"
)

type builtinSet struct {
	poster, carousel *Template
}

var loadBuiltins = sync.OnceValues(func() (builtinSet, error) {
	poster, err := parseBuiltin("builtin/poster.yaml")
	if err != nil {
		return builtinSet{}, err
	}
	carousel, err := parseBuiltin("builtin/carousel.yaml")
	if err != nil {
		return builtinSet{}, err
	}
	return builtinSet{poster: poster, carousel: carousel}, nil
})

func parseBuiltin(name string) (*Template, error) {
	b, err := builtinFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	t, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("builtin %s: %w", name, err)
	}
	return t, nil
}

// Poster returns the single-page built-in. The returned value is shared and
// must not be modified.
func Poster() *Template { return mustBuiltins().poster }

// Carousel returns the multi-page built-in. The returned value is shared and
// must not be modified.
func Carousel() *Template { return mustBuiltins().carousel }

// Builtins lists the built-in templates in a stable order.
func Builtins() []*Template {
	s := mustBuiltins()
	return []*Template{s.poster, s.carousel}
}

// Builtin looks up a built-in by id.
func Builtin(id string) (*Template, bool) {
	for _, t := range Builtins() {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// the embedded files are part of the binary; failing to parse them is a
// programming error caught by the package tests.
func mustBuiltins() builtinSet {
	s, err := loadBuiltins()
	if err != nil {
		panic(err)
	}
	return s
}
