package validators

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes every HTML element from free-text input.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize strips markup from in and trims surrounding whitespace. The
// policy output is unescaped once, so text such as "Smith & Sons" or a
// literal "&lt;b&gt;" keeps its meaning as plain text.
func (s *Sanitizer) Sanitize(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}
