package validate_test

import (
	"reflect"
	"testing"

	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/schema"
	"github.com/reoring/flexform/validate"
)

func descriptor() *schema.Descriptor {
	return &schema.Descriptor{Sections: []schema.Section{
		{ID: "meta", Fields: []schema.Field{
			{Key: "altText", Type: schema.TypeText, Required: true, Constraints: &schema.Constraints{MaxLength: schema.Int(400)}},
			{Key: "style.titleColor", Type: schema.TypeColor},
		}},
		{ID: "pages", Repeatable: true, Key: "pages",
			Constraints: &schema.Constraints{MinItems: schema.Int(1), MaxItems: schema.Int(2)},
			ItemSchema: &schema.FieldSet{Fields: []schema.Field{
				{Key: "title", Type: schema.TypeText, Required: true},
				{Key: "imageUrl", Type: schema.TypeImageURL, Constraints: &schema.Constraints{HTTPSOnly: true}},
			}}},
	}}
}

func TestSchemaData_Valid(t *testing.T) {
	data := map[string]any{
		"altText": "hello",
		"pages":   []any{map[string]any{"title": "p1", "imageUrl": "https://i/1.png"}},
	}
	if got := validate.SchemaData(descriptor(), data); len(got) != 0 {
		t.Fatalf("expected no errors, got %+v", got)
	}
}

func TestSchemaData_OrderAndBounds(t *testing.T) {
	data := map[string]any{
		"style": map[string]any{"titleColor": "blue"},
		"pages": []any{
			map[string]any{"title": "a"},
			map[string]any{"imageUrl": "http://i/2.png"},
			map[string]any{"title": "c"},
		},
	}
	got := validate.SchemaData(descriptor(), data)
	wantPaths := []string{"altText", "style.titleColor", "pages", "pages[1].title", "pages[1].imageUrl"}
	if !reflect.DeepEqual(got.Paths(), wantPaths) {
		t.Fatalf("got %v want %v", got.Paths(), wantPaths)
	}
	if got[2].Code != issue.CodeMaxItems || got[2].FieldKey != "pages" {
		t.Fatalf("expected max_items for pages, got %+v", got[2])
	}
}

func TestSchemaData_EmptyPagesBelowMin(t *testing.T) {
	got := validate.SchemaData(descriptor(), map[string]any{"altText": "x", "pages": []any{}})
	if len(got) != 1 || !got.Has("pages", issue.CodeMinItems) {
		t.Fatalf("expected min_items at pages, got %+v", got)
	}
}

func TestSchemaData_AbsentRepeatable(t *testing.T) {
	got := validate.SchemaData(descriptor(), map[string]any{"altText": "x"})
	if len(got) != 1 || !got.Has("pages", issue.CodeMinItems) {
		t.Fatalf("expected one min_items error, got %+v", got)
	}
	d := descriptor()
	d.Sections[1].Constraints.MinItems = nil
	if got := validate.SchemaData(d, map[string]any{"altText": "x", "pages": "oops"}); len(got) != 0 {
		t.Fatalf("non-list without minItems is not reported, got %+v", got)
	}
}

func TestSchemaData_NonObjectItems(t *testing.T) {
	got := validate.SchemaData(descriptor(), map[string]any{"altText": "x", "pages": []any{"str"}})
	if len(got) != 1 || got[0].Path != "pages[0].title" || got[0].Code != issue.CodeRequired {
		t.Fatalf("expected required for item field, got %+v", got)
	}
}

func TestSchemaData_NilDescriptor(t *testing.T) {
	if got := validate.SchemaData(nil, nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}
