package reflow

import (
	"regexp"
	"strings"

	"github.com/transflow/transflow/internal/config"
)

var (
	reSpaceAfterPunct = regexp.MustCompile(`([、。！？，,!?])([^\s])`)
	reWhitespaceRun   = regexp.MustCompile(`\s+`)
)

// sentenceNormalizer applies the ordered per-sentence cleanup rules. Each
// rule is idempotent on its own, but the order is fixed: later rules assume
// the earlier ones already ran. Normalization never fails; characters the
// rules do not recognize pass through unchanged.
type sentenceNormalizer struct {
	terminal        map[rune]bool
	defaultTerminal string
	unitWords       []string
}

func newSentenceNormalizer(cfg config.ReflowConfig) *sentenceNormalizer {
	return &sentenceNormalizer{
		terminal:        TerminalSet(cfg.TerminalMarks),
		defaultTerminal: cfg.DefaultTerminal,
		unitWords:       cfg.UnitWords,
	}
}

func (n *sentenceNormalizer) Normalize(s string) string {
	// ASCII period and comma to the Japanese forms.
	s = strings.ReplaceAll(s, ".", "。")
	s = strings.ReplaceAll(s, ",", "、")

	// Guarantee a terminal mark on sentences that carry none at all, such as
	// the trailing fragment of an unpunctuated transcript.
	if trimmed := strings.TrimSpace(s); trimmed != "" && !containsTerminal(trimmed, n.terminal) {
		s = trimmed + n.defaultTerminal
	}

	// A single space after any punctuation mark the text continues past.
	s = reSpaceAfterPunct.ReplaceAllString(s, "$1 $2")

	// A single space at Latin/non-Latin script transitions.
	s = spaceScriptBoundaries(s, n.unitWords)

	// Collapse whitespace runs and trim.
	s = reWhitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func containsTerminal(s string, terminal map[rune]bool) bool {
	for _, r := range s {
		if terminal[r] {
			return true
		}
	}
	return false
}
