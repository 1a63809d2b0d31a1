// Package sanitize cleans free-form client text before it is stored or shown
// to administrators.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer interface {
	Sanitize(s string) string
}

type strictSanitizer struct {
	policy *bluemonday.Policy
}

// NewStrictSanitizer strips all markup and collapses whitespace. Entities
// bluemonday produces are unescaped again since output is stored as plain text.
func NewStrictSanitizer() Sanitizer {
	return &strictSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *strictSanitizer) Sanitize(in string) string {
	out := html.UnescapeString(s.policy.Sanitize(in))
	return strings.Join(strings.Fields(out), " ")
}
