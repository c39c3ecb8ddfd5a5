package reflow

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/transflow/transflow/internal/config"
)

// Paragraph is an ordered, non-empty run of sentences that reads as one unit.
type Paragraph []string

// breakRule decides whether a paragraph ends after cur when next follows it.
// Rules are evaluated in a fixed order and the first match wins, so they are
// arranged from highest precision (an explicit marker) down to the length
// heuristic. Transcripts carry no layout cues; these four signals are the
// cheapest proxies for a topic or speaker change available without semantic
// understanding.
type breakRule struct {
	name  string
	fires func(cur, next string) bool
}

func newBreakRules(cfg config.ReflowConfig, speaker *regexp.Regexp) []breakRule {
	markers := make([]string, 0, len(cfg.DialogueMarkers)+len(cfg.TopicShiftMarkers))
	markers = append(markers, cfg.DialogueMarkers...)
	markers = append(markers, cfg.TopicShiftMarkers...)

	return []breakRule{
		{
			name: "marker",
			fires: func(_, next string) bool {
				t := strings.TrimSpace(next)
				for _, m := range markers {
					if m != "" && strings.HasPrefix(t, m) {
						return true
					}
				}
				return false
			},
		},
		{
			name: "interrogative",
			fires: func(cur, _ string) bool {
				r := lastContentRune(cur)
				return r == '？' || r == '?'
			},
		},
		{
			name: "length-delta",
			fires: func(cur, next string) bool {
				a := utf8.RuneCountInString(cur)
				b := utf8.RuneCountInString(next)
				d := a - b
				if d < 0 {
					d = -d
				}
				// The minimum-length guard keeps short fragments from
				// triggering breaks on every pairing.
				return d > cfg.LengthDeltaThreshold && a > cfg.MinLengthForDeltaRule
			},
		},
		{
			name: "speaker",
			fires: func(_, next string) bool {
				return speaker.MatchString(strings.TrimSpace(next))
			},
		},
	}
}

// segmentParagraphs partitions sentences into paragraphs in a single
// left-to-right pass. For each adjacent pair the first firing rule ends the
// paragraph after the earlier sentence; the final sentence always closes its
// paragraph. trace, when non-nil, observes each break decision.
func segmentParagraphs(sentences []string, rules []breakRule, trace func(index int, rule string)) []Paragraph {
	if len(sentences) == 0 {
		return nil
	}

	var paras []Paragraph
	cur := Paragraph{sentences[0]}

	for i := 1; i < len(sentences); i++ {
		next := sentences[i]
		if name, ok := firstFiring(rules, sentences[i-1], next); ok {
			if trace != nil {
				trace(i-1, name)
			}
			paras = append(paras, cur)
			cur = Paragraph{next}
			continue
		}
		cur = append(cur, next)
	}

	return append(paras, cur)
}

func firstFiring(rules []breakRule, cur, next string) (string, bool) {
	for _, r := range rules {
		if r.fires(cur, next) {
			return r.name, true
		}
	}
	return "", false
}
