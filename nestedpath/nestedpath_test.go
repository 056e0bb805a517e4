package nestedpath_test

import (
	"reflect"
	"testing"

	"github.com/reoring/flexform/nestedpath"
)

func TestSplit_NormalizesBracketsAndDots(t *testing.T) {
	cases := map[string][]string{
		"a.b.c":            {"a", "b", "c"},
		"pages[0].title":   {"pages", "0", "title"},
		"pages.0.title":    {"pages", "0", "title"},
		"m[1][2]":          {"m", "1", "2"},
		"[3].x":            {"3", "x"},
		"a..b":             {"a", "b"},
		"style.headline.s": {"style", "headline", "s"},
	}
	for in, want := range cases {
		if got := nestedpath.Split(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("Split(%q) = %v, want %v", in, got, want)
		}
	}
	if got := nestedpath.Split(""); got != nil {
		t.Fatalf("empty path should split to nil, got %v", got)
	}
}

func TestGet_MissingNeverPanics(t *testing.T) {
	obj := map[string]any{
		"a":    map[string]any{"b": "x"},
		"list": []any{"zero", map[string]any{"k": nil}},
		"s":    "scalar",
	}
	if v, ok := nestedpath.Get(obj, "a.b"); !ok || v != "x" {
		t.Fatalf("a.b = %v %v", v, ok)
	}
	if v, ok := nestedpath.Get(obj, "list[1].k"); !ok || v != nil {
		t.Fatalf("present null should be (nil,true), got %v %v", v, ok)
	}
	for _, p := range []string{"a.c", "list[5]", "list.x", "s.t", "a.b.c", "nope.deeper"} {
		if v, ok := nestedpath.Get(obj, p); ok {
			t.Fatalf("expected %q to be missing, got %v", p, v)
		}
	}
	if v, ok := nestedpath.Get(obj, "list.0"); !ok || v != "zero" {
		t.Fatalf("bare numeric segment should index arrays, got %v %v", v, ok)
	}
	if _, ok := nestedpath.Get(nil, "a"); ok {
		t.Fatalf("nil root must report missing")
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	paths := []string{
		"title",
		"style.headline.size",
		"pages[0].title",
		"pages[2].cta[1].label",
		"pages.1.cta.0.url",
		"grid[1][2]",
		"a[10001]",
		"x.y[20000].z",
	}
	for i, p := range paths {
		obj := map[string]any{}
		val := float64(i) + 0.5
		nestedpath.Set(obj, p, val)
		got, ok := nestedpath.Get(obj, p)
		if !ok || got != val {
			t.Fatalf("round trip %q: got %v %v", p, got, ok)
		}
	}
}

func TestSet_LargeIndexPadsExisting(t *testing.T) {
	obj := map[string]any{"a": []any{"first"}}
	nestedpath.Set(obj, "a.12000", "last")
	a := obj["a"].([]any)
	if len(a) != 12001 || a[0] != "first" || a[12000] != "last" || a[500] != nil {
		t.Fatalf("unexpected array: len=%d", len(a))
	}
}

func TestSet_CreatesArraysForNumericSegments(t *testing.T) {
	obj := map[string]any{}
	nestedpath.Set(obj, "pages[1].title", "T")
	pages, ok := obj["pages"].([]any)
	if !ok || len(pages) != 2 || pages[0] != nil {
		t.Fatalf("expected padded array, got %#v", obj["pages"])
	}
	if !reflect.DeepEqual(pages[1], map[string]any{"title": "T"}) {
		t.Fatalf("unexpected element: %#v", pages[1])
	}
}

func TestSet_OverwritesAndReplacesScalars(t *testing.T) {
	obj := map[string]any{"a": "scalar", "b": map[string]any{"keep": true}}
	nestedpath.Set(obj, "a.x", 1.0)
	nestedpath.Set(obj, "b.new", 2.0)
	nestedpath.Set(obj, "b.keep", false)
	want := map[string]any{
		"a": map[string]any{"x": 1.0},
		"b": map[string]any{"keep": false, "new": 2.0},
	}
	if !reflect.DeepEqual(obj, want) {
		t.Fatalf("got %#v", obj)
	}
	nestedpath.Set(obj, "", "ignored")
	nestedpath.Set(nil, "a", 1)
}
