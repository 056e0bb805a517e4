package render

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode selects how template text is turned into JSON text.
type Mode string

const (
	// Grammar executes the text as a Go text/template.
	Grammar Mode = "grammar"
	// Legacy replaces ${data.<path>} tokens and nothing else.
	Legacy Mode = "legacy"
	// Raw treats the text as finished JSON.
	Raw Mode = "raw"
)

// legacyToken matches ${data.<path>}; the path is captured.
var legacyToken = regexp.MustCompile(`\$\{data\.([^}]*)\}`)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case Grammar, Legacy, Raw:
		return true
	}
	return false
}

// ParseMode converts a stored value into a Mode. The empty string is accepted
// and returned as-is so callers can fall back to Detect.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" || m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("unknown render mode %q", s)
}

// Detect sniffs text: "{{" selects Grammar, a ${data.x} token selects Legacy,
// anything else is Raw. It is meant to run once when a template is loaded or
// migrated, not on every render.
func Detect(text string) Mode {
	if strings.Contains(text, "{{") {
		return Grammar
	}
	if legacyToken.MatchString(text) {
		return Legacy
	}
	return Raw
}
