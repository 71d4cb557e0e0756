// Package htmlsanitize cleans admin-authored rich text (sector descriptions,
// program details, the site footer) before it is stored.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	rich   *bluemonday.Policy
	strict *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	once.Do(func() {
		rich = bluemonday.UGCPolicy()
		rich.AllowElements("u", "s", "mark")
		rich.AllowAttrs("class").OnElements("table", "tr", "td", "th", "p", "span")
		strict = bluemonday.StrictPolicy()
	})
	return rich, strict
}

// Sanitize keeps safe formatting (paragraphs, lists, tables, links) and drops
// scripts, event handlers and embedded frames.
func Sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	p, _ := policies()
	return strings.TrimSpace(p.Sanitize(s))
}

// StripTags removes every tag, leaving only text. Used for fields the front
// ends print as plain text.
func StripTags(s string) string {
	_, p := policies()
	return strings.TrimSpace(p.Sanitize(s))
}

// IsPlainText reports whether s contains nothing that looks like a tag.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<") || !strings.Contains(s, ">")
}
