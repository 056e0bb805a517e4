package issue_test

import (
	"fmt"
	"testing"

	"github.com/reoring/flexform/issue"
)

func TestPath_Rendering(t *testing.T) {
	p := issue.Root().Field("pages").Index(0).Field("cta").Index(1).Field("label")
	if got := p.String(); got != "pages[0].cta[1].label" {
		t.Fatalf("unexpected path: %q", got)
	}
	if got := issue.Root().String(); got != issue.PathRoot {
		t.Fatalf("root should render as %q, got %q", issue.PathRoot, got)
	}
	if got := issue.Root().Field("style.headline.size").String(); got != "style.headline.size" {
		t.Fatalf("dotted keys must be kept verbatim, got %q", got)
	}
}

func TestPath_ErrorParams(t *testing.T) {
	e := issue.At("title").FieldError("title", issue.CodeTooLong, "too long", "max", 10, "got", 12)
	if e.Path != "title" || e.FieldKey != "title" || e.Code != issue.CodeTooLong {
		t.Fatalf("unexpected error: %+v", e)
	}
	if e.Params["max"] != 10 || e.Params["got"] != 12 {
		t.Fatalf("unexpected params: %+v", e.Params)
	}
	if e2 := issue.At("x").Error(issue.CodeRequired, "required"); e2.Params != nil {
		t.Fatalf("expected nil params without kv, got %+v", e2.Params)
	}
}

func TestList_ErrorAndAsList(t *testing.T) {
	var l issue.List
	for i := 0; i < 5; i++ {
		l = append(l, issue.Root().Field("f").Index(i).Error(issue.CodeRequired, "required"))
	}
	if got := l.Error(); got != "required at f[0]; required at f[1]; required at f[2]; ... (total 5)" {
		t.Fatalf("unexpected summary: %q", got)
	}
	wrapped := fmt.Errorf("publish: %w", l)
	got, ok := issue.AsList(wrapped)
	if !ok || len(got) != 5 {
		t.Fatalf("expected AsList to unwrap, got %v %v", got, ok)
	}
	if _, ok := issue.AsList(nil); ok {
		t.Fatalf("nil error must not yield a list")
	}
}

func TestConcat_KeepsOrderAndIsNonNil(t *testing.T) {
	a := issue.List{{Path: "a"}}
	b := issue.List{{Path: "b"}, {Path: "c"}}
	got := issue.Concat(a, nil, b)
	want := []string{"a", "b", "c"}
	if fmt.Sprint(got.Paths()) != fmt.Sprint(want) {
		t.Fatalf("got %v want %v", got.Paths(), want)
	}
	if empty := issue.Concat(); empty == nil {
		t.Fatalf("Concat must return a non-nil list")
	}
	if !got.Has("b", "") || got.Has("z", "") {
		t.Fatalf("Has mismatch")
	}
}
