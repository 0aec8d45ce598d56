package llm

import (
	"regexp"
	"strings"
)

var (
	codeFenceRe  = regexp.MustCompile("(?s)```[a-zA-Z]*\n?|```")
	headingRe    = regexp.MustCompile(`(?m)^\s*#{1,6}\s+`)
	bulletRe     = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+\.)\s+`)
	emphasisRe   = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

var quoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
	"–", "-", "—", "-",
	"…", "...",
)

// Normalize cleans completion output into a single prose statement. It
// replaces typographic quotes and dashes with ASCII equivalents, strips
// markdown markup, collapses whitespace, and guarantees the result ends
// with sentence punctuation. Normalize is idempotent.
func Normalize(s string) string {
	s = quoteReplacer.Replace(s)
	// Markup can nest (emphasis wrapping a heading or list marker), so
	// strip until a fixed point is reached.
	for {
		next := codeFenceRe.ReplaceAllString(s, "")
		next = emphasisRe.ReplaceAllString(next, "$2")
		next = headingRe.ReplaceAllString(next, "")
		next = bulletRe.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
	default:
		s += "."
	}
	return s
}
