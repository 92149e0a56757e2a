// Package strutil provides small, pure string helpers used by views and
// route handlers. Helpers are explicitly imported; nothing here mutates
// shared state.
package strutil

import (
	"regexp"
	"strings"
	"unicode"
)

var wordRe = regexp.MustCompile(`[^\W_]+[^\s-]*`)

// Capitalize title-cases every word in s: the first letter of each word is
// uppercased and the rest lowercased. Word boundaries are whitespace and
// hyphens; underscores do not start a new word.
func Capitalize(s string) string {
	return wordRe.ReplaceAllStringFunc(s, func(word string) string {
		r := []rune(word)
		head := string(unicode.ToUpper(r[0]))
		return head + strings.ToLower(string(r[1:]))
	})
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return strings.TrimRight(string(r[:n-1]), " ") + "…"
}
