package reflow

import (
	"strings"
	"unicode"
)

// commaMarks is the comma-class punctuation recognized by the rewrite rules.
const commaMarks = "、，,"

// punctMarks covers every mark treated as a token boundary by the
// filler-word rules and as non-spaceable by the script-boundary rule.
const punctMarks = "、。！？，．,.!?「」『』（）()【】…・"

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isPunctMark(r rune) bool {
	return strings.ContainsRune(punctMarks, r)
}

// lastContentRune returns the last rune of s that is not whitespace or a
// closing quote, or 0 when there is none.
func lastContentRune(s string) rune {
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		if unicode.IsSpace(r) || strings.ContainsRune(closingMarks, r) {
			continue
		}
		return r
	}
	return 0
}

func endsWithTerminal(s string, terminal map[rune]bool) bool {
	return terminal[lastContentRune(s)]
}

// spaceScriptBoundaries inserts a single space at every boundary between an
// ASCII alphanumeric run and a non-Latin letter run, in either direction.
// Punctuation never gets a boundary space, and a digit directly followed by
// a unit word keeps its tight binding (3年, 10時) so the digit/unit rule of
// the post-pass is not undone.
func spaceScriptBoundaries(s string, unitWords []string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 16)

	for i, r := range runes {
		if i > 0 && needsBoundarySpace(runes[i-1], r) && !unitBound(runes, i, unitWords) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func needsBoundarySpace(prev, cur rune) bool {
	if unicode.IsSpace(prev) || unicode.IsSpace(cur) {
		return false
	}
	a, b := isASCIIAlnum(prev), isASCIIAlnum(cur)
	if a == b {
		return false
	}
	other := prev
	if a {
		other = cur
	}
	if isPunctMark(other) || (!unicode.IsLetter(other) && !unicode.IsDigit(other)) {
		return false
	}
	return true
}

// unitBound reports whether position i sits between a digit and a unit word.
func unitBound(runes []rune, i int, unitWords []string) bool {
	if !isASCIIDigit(runes[i-1]) {
		return false
	}
	rest := string(runes[i:])
	for _, u := range unitWords {
		if u != "" && strings.HasPrefix(rest, u) {
			return true
		}
	}
	return false
}

// dedupPunct collapses runs of the same terminal or comma mark (。。 → 。).
// Standard regexp has no backreferences, so this is a rune walk.
func dedupPunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var prev rune = -1
	for _, r := range s {
		if r == prev && (strings.ContainsRune(commaMarks, r) || strings.ContainsRune("。！？!?", r)) {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
