package textutil

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy removes every tag and attribute and keeps only text content.
var strictPolicy = bluemonday.StrictPolicy()

var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// CleanText strips markup, collapses whitespace and truncates s to at most
// max runes. Angle brackets that were text (e.g. "&lt;b&gt;") stay escaped.
func CleanText(s string, max int) string {
	s = angleEscaper.Replace(StripMarkup(s))
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(Truncate(s, max))
}

// StripMarkup removes HTML tags and returns the unescaped text content.
// Whitespace, including newlines, is left alone.
func StripMarkup(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
