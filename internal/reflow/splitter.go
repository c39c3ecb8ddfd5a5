package reflow

import "strings"

// closingMarks are trailing characters that belong to the sentence whose
// terminal mark they follow.
const closingMarks = "」』）】》\"')]"

// TerminalSet builds the rune lookup used by the splitter from the
// configured terminal-mark string.
func TerminalSet(marks string) map[rune]bool {
	set := make(map[rune]bool, len(marks))
	for _, r := range marks {
		set[r] = true
	}
	return set
}

// SplitSentences segments text on terminal punctuation. Each sentence keeps
// its terminal mark plus any consecutive terminal marks or closing quotes
// that follow it. The run after the last terminal mark becomes a trailing
// sentence unless it is only whitespace; an input with no terminal marks at
// all comes back as a single sentence.
func SplitSentences(text string, terminal map[rune]bool) []string {
	runes := []rune(text)

	var sentences []string
	var cur []rune

	for i := 0; i < len(runes); i++ {
		cur = append(cur, runes[i])
		if !terminal[runes[i]] {
			continue
		}
		for i+1 < len(runes) && (terminal[runes[i+1]] || strings.ContainsRune(closingMarks, runes[i+1])) {
			i++
			cur = append(cur, runes[i])
		}
		sentences = append(sentences, string(cur))
		cur = cur[:0]
	}

	if strings.TrimSpace(string(cur)) != "" {
		sentences = append(sentences, string(cur))
	}

	return sentences
}
