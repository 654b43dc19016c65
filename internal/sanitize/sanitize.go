// Package sanitize strips markup from operator-entered free text before it
// is stored and later rendered into PDFs.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	// literal undoes the escaping StrictPolicy applies to plain characters.
	// Angle brackets stay escaped.
	literal = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`, "&quot;", `"`)
)

// Text removes every HTML tag and trims surrounding blanks. Line breaks are
// kept; multi-line party blocks depend on them.
func Text(s string) string {
	if s == "" {
		return ""
	}
	// Entity-encoded markup is decoded first so that it is stripped too.
	return strings.TrimSpace(literal.Replace(strict.Sanitize(html.UnescapeString(s))))
}

// Fields applies Text to every pointed-to string.
func Fields(fields ...*string) {
	for _, f := range fields {
		*f = Text(*f)
	}
}
