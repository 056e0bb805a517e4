package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for issue codes.
// data provides optional values substituted into "{name}" placeholders
// (for example "max" or "scheme").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"required":         "this field is required",
		"too_short":        "must be at least {min} characters",
		"too_long":         "must be at most {max} characters",
		"min_items":        "at least {min} item(s) required",
		"max_items":        "at most {max} item(s) allowed",
		"invalid_type":     "expected {expected}",
		"invalid_color":    "must be a hex color like #RRGGBB or #RRGGBBAA",
		"invalid_json":     "must be valid JSON",
		"invalid_url":      "must be an absolute URL",
		"insecure_url":     "must use https",
		"pattern":          "does not match the required format",
		"render_error":     "template could not be rendered",
		"missing_variable": "template variable {name} is not set",
		"parse_error":      "rendered template is not valid JSON",
		"patch_depth":      "patch nesting exceeds {max} levels",
		"envelope":         "message does not match the platform envelope",
		"alt_text_missing": "alt text is required",
		"label_missing":    "action label is required",
		"uri_missing":      "action uri is required",
		"text_missing":     "action text is required",
		"data_missing":     "action data is required",
		"template_empty":   "template text is empty",
	},
	"ja": {
		"required":         "必須項目です",
		"too_short":        "{min}文字以上で入力してください",
		"too_long":         "{max}文字以内で入力してください",
		"min_items":        "{min}件以上必要です",
		"max_items":        "{max}件までです",
		"invalid_type":     "{expected}である必要があります",
		"invalid_color":    "#RRGGBB または #RRGGBBAA 形式の色を指定してください",
		"invalid_json":     "JSONとして不正です",
		"invalid_url":      "絶対URLを指定してください",
		"insecure_url":     "httpsを使用してください",
		"pattern":          "形式が正しくありません",
		"render_error":     "テンプレートを描画できません",
		"missing_variable": "テンプレート変数 {name} が未設定です",
		"parse_error":      "描画結果がJSONとして不正です",
		"patch_depth":      "パッチの入れ子が{max}段を超えています",
		"envelope":         "メッセージの形式がプラットフォームの仕様に合いません",
		"alt_text_missing": "代替テキストは必須です",
		"label_missing":    "アクションのラベルは必須です",
		"uri_missing":      "アクションのURIは必須です",
		"text_missing":     "アクションのテキストは必須です",
		"data_missing":     "アクションのデータは必須です",
		"template_empty":   "テンプレートが空です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		msg, ok = dictionaries["en"][code]
	}
	if !ok {
		return code
	}
	return fill(msg, data)
}

func fill(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Dictionary returns the built-in Translator for lang ("en"/"ja"); unknown
// languages get English.
func Dictionary(lang string) Translator {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the process-wide Translator language ("en"/"ja").
// Components built with an explicit Translator are not affected.
func SetLanguage(lang string) {
	tr := Dictionary(lang)
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// Current returns the process-wide Translator.
func Current() Translator {
	mu.RLock()
	defer mu.RUnlock()
	return currentTranslator
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return Current().Message(code, data)
}
