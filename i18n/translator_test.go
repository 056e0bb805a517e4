package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("required", nil); msg == "required" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", nil); msg == "this field is required" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_Placeholders(t *testing.T) {
	if msg := T("too_long", map[string]string{"max": "40"}); msg != "must be at most 40 characters" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown codes fall back to the code, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestTranslator_Custom(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("required", nil); msg != "X:required" {
		t.Fatalf("custom translator not used: %q", msg)
	}
}

func TestDictionary_IsIndependentOfGlobal(t *testing.T) {
	ja := Dictionary("ja")
	en := Dictionary("xx")
	SetLanguage("ja")
	defer SetLanguage("en")
	if msg := en.Message("required", nil); msg != "this field is required" {
		t.Fatalf("unknown language should be english, got %q", msg)
	}
	SetLanguage("en")
	if msg := ja.Message("required", nil); msg != "必須項目です" {
		t.Fatalf("got %q", msg)
	}
	if Current().Message("required", nil) != "this field is required" {
		t.Fatalf("Current should follow SetLanguage")
	}
}
