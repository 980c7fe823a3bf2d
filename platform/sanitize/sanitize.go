// Package sanitize turns upstream marketing HTML into plain display text.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags, including a trailing unterminated one.
	htmlTagRegex = regexp.MustCompile(`<[^>]*>?`)
)

// StripHTML removes all HTML tags from a string and decodes entities.
// It is a heuristic, not a parser; Steam descriptions are simple enough.
func StripHTML(s string) string {
	return replaceTags(s, "")
}

// StripHTMLSpaced replaces every tag with a single space and collapses the
// resulting whitespace. Use for markup where tags separate words, such as
// <br> and <li> in system requirement blocks.
func StripHTMLSpaced(s string) string {
	return strings.Join(strings.Fields(replaceTags(s, " ")), " ")
}

func replaceTags(s, repl string) string {
	result := htmlTagRegex.ReplaceAllString(s, repl)
	// Entities are decoded last so an escaped "&lt;" stays literal text.
	result = html.UnescapeString(result)
	return strings.TrimSpace(result)
}
