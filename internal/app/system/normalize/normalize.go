// Package normalize trims and canonicalizes user-supplied values before they
// are stored or compared.
package normalize

import (
	"strings"
	"unicode"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses inner runs of spaces.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Status lowercases and trims a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query string value. Case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Slug turns a display name into a URL slug: diacritics are folded away,
// letters and digits are kept, and every other run becomes one hyphen.
// "Agricultura & Pescas" -> "agricultura-pescas".
func Slug(s string) string {
	folded := text.Fold(s)
	var b strings.Builder
	pendingDash := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingDash = true
	}
	return b.String()
}
