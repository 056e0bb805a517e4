package validate_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/validate"
)

func button(action map[string]any) map[string]any {
	return map[string]any{"type": "button", "style": "primary", "action": action}
}

func bubble(buttons ...any) map[string]any {
	if buttons == nil {
		buttons = []any{}
	}
	return map[string]any{
		"type": "bubble",
		"body": map[string]any{"type": "box", "layout": "vertical", "contents": []any{
			map[string]any{"type": "text", "text": "hi"},
		}},
		"footer": map[string]any{"type": "box", "layout": "vertical", "contents": buttons},
	}
}

func TestMessageStructure_HTTPSEnforced(t *testing.T) {
	msg := map[string]any{"type": "flex", "altText": "alt", "contents": bubble(
		button(map[string]any{"type": "uri", "label": "Go", "uri": "http://example.com"}),
	)}
	got := validate.MessageStructure(msg)
	if len(got) != 1 || got[0].Code != issue.CodeInsecureURL || got[0].Path != "contents.footer.contents[0].action.uri" {
		t.Fatalf("expected insecure_url at the action, got %+v", got)
	}

	msg["contents"] = bubble(button(map[string]any{"type": "uri", "label": "Go", "uri": "https://example.com"}))
	if got := validate.MessageStructure(msg); len(got) != 0 {
		t.Fatalf("expected no errors, got %+v", got)
	}
}

func TestMessageStructure_AltText(t *testing.T) {
	got := validate.MessageStructure(map[string]any{"type": "flex", "altText": "   ", "contents": bubble()})
	if len(got) != 1 || got[0].Path != "altText" || got[0].Code != issue.CodeRequired {
		t.Fatalf("expected blank altText error, got %+v", got)
	}
	got = validate.MessageStructure(map[string]any{"type": "flex", "contents": bubble()})
	if len(got) != 1 || got[0].Path != "altText" {
		t.Fatalf("expected missing altText error, got %+v", got)
	}
	long := strings.Repeat("あ", validate.MaxAltTextLength+1)
	got = validate.MessageStructure(map[string]any{"altText": long, "contents": bubble()})
	if len(got) != 1 || got[0].Code != issue.CodeTooLong {
		t.Fatalf("expected too_long altText, got %+v", got)
	}
	ok := strings.Repeat("あ", validate.MaxAltTextLength)
	if got := validate.MessageStructure(map[string]any{"altText": ok, "contents": bubble()}); len(got) != 0 {
		t.Fatalf("400 characters is within the limit, got %+v", got)
	}
}

func TestMessageStructure_ActionCompanions(t *testing.T) {
	msg := map[string]any{"altText": "a", "contents": map[string]any{
		"type": "carousel",
		"contents": []any{
			bubble(
				button(map[string]any{"type": "message", "label": "Say"}),
				button(map[string]any{"type": "postback", "label": " ", "data": ""}),
			),
			bubble(
				button(map[string]any{"type": "uri", "label": "x"}),
				button(map[string]any{"type": "uri", "label": "y", "uri": "not a url"}),
				button(map[string]any{"type": "message", "label": "ok", "text": "hello"}),
			),
		},
	}}
	got := validate.MessageStructure(msg)
	want := []string{
		"contents.contents[0].footer.contents[0].action.text",
		"contents.contents[0].footer.contents[1].action.label",
		"contents.contents[0].footer.contents[1].action.data",
		"contents.contents[1].footer.contents[0].action.uri",
		"contents.contents[1].footer.contents[1].action.uri",
	}
	if !reflect.DeepEqual(got.Paths(), want) {
		t.Fatalf("got %v\nwant %v", got.Paths(), want)
	}
	if got[4].Code != issue.CodeInvalidURL {
		t.Fatalf("expected invalid_url for malformed uri, got %s", got[4].Code)
	}
}

func TestMessageStructure_DeepNestingAndDeterminism(t *testing.T) {
	var node any = map[string]any{"action": map[string]any{"type": "uri", "label": "", "uri": "https://x.y"}}
	for i := 0; i < 500; i++ {
		node = map[string]any{"type": "box", "contents": []any{node}, "z": map[string]any{}, "a": 1.0}
	}
	msg := map[string]any{"altText": "a", "contents": node}
	first := validate.MessageStructure(msg)
	if len(first) != 1 || !strings.HasSuffix(first[0].Path, ".action.label") {
		t.Fatalf("expected one label error deep in the tree, got %+v", first)
	}
	for i := 0; i < 5; i++ {
		if again := validate.MessageStructure(msg); !reflect.DeepEqual(first, again) {
			t.Fatalf("non-deterministic result")
		}
	}
}
