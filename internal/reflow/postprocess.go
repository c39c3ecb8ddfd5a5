package reflow

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/transflow/transflow/internal/config"
)

var (
	reSpaceBeforePunct = regexp.MustCompile(`(\S)[ \t]+([、。！？，,!?])`)
	reCommaNoSpace     = regexp.MustCompile(`([、，,])([^\s])`)
	reMultiSpace       = regexp.MustCompile(`[ \t]{2,}`)
	reLineLeadSpace    = regexp.MustCompile(`(?m)^[ \t]+`)
	reLineTrailSpace   = regexp.MustCompile(`(?m)[ \t]+$`)
	reNewlineRun       = regexp.MustCompile(`\n{3,}`)
)

// postProcessor applies the global rewrite rules once over the fully joined
// text, paragraphs separated by blank lines. Rule order is load-bearing:
// filler removal runs before whitespace collapse so the gaps it opens get
// cleaned up, and paragraph-terminal enforcement runs last because earlier
// rules can move or strip terminal punctuation. The whole pass is idempotent:
// running it on its own output changes nothing.
type postProcessor struct {
	terminal        map[rune]bool
	defaultTerminal string
	unitWords       []string
	fillers         []string
	digitUnit       *regexp.Regexp
}

func newPostProcessor(cfg config.ReflowConfig) *postProcessor {
	// Longest filler first so a filler that prefixes another cannot shadow it.
	fillers := make([]string, 0, len(cfg.FillerWords))
	for _, f := range cfg.FillerWords {
		if f != "" {
			fillers = append(fillers, f)
		}
	}
	sort.Slice(fillers, func(i, j int) bool { return len(fillers[i]) > len(fillers[j]) })

	return &postProcessor{
		terminal:        TerminalSet(cfg.TerminalMarks),
		defaultTerminal: cfg.DefaultTerminal,
		unitWords:       cfg.UnitWords,
		fillers:         fillers,
		digitUnit:       digitUnitPattern(cfg.UnitWords),
	}
}

func digitUnitPattern(unitWords []string) *regexp.Regexp {
	if len(unitWords) == 0 {
		return nil
	}
	quoted := make([]string, len(unitWords))
	for i, u := range unitWords {
		quoted[i] = regexp.QuoteMeta(u)
	}
	return regexp.MustCompile(`(\d)[ \t]+(` + strings.Join(quoted, "|") + `)`)
}

func (p *postProcessor) Process(text string) string {
	// 1. No whitespace before punctuation.
	text = reSpaceBeforePunct.ReplaceAllString(text, "$1$2")

	// 2. Digits bind tightly to their unit words.
	if p.digitUnit != nil {
		text = p.digitUnit.ReplaceAllString(text, "$1$2")
	}

	// 3. Script-boundary spacing, re-applied at paragraph-join seams.
	text = spaceScriptBoundaries(text, p.unitWords)

	// 4. Filler words out, then collapse any repeated marks the removal
	//    left behind (、、 after a filler that sat between two commas).
	text = p.stripFillers(text)
	text = dedupPunct(text)

	// 5. Whitespace collapse, per line.
	text = reNewlineRun.ReplaceAllString(text, "\n\n")
	text = reMultiSpace.ReplaceAllString(text, " ")
	text = reLineLeadSpace.ReplaceAllString(text, "")
	text = reLineTrailSpace.ReplaceAllString(text, "")

	// 6. A space after a comma the text continues past.
	text = reCommaNoSpace.ReplaceAllString(text, "$1 $2")

	// 7. Every paragraph ends in terminal punctuation.
	text = p.terminateParagraphs(text)

	return strings.TrimSpace(text)
}

// stripFillers removes each configured filler word on whole-token matches
// only: the occurrence must be bounded by whitespace, punctuation, or the
// text edge on both sides, so fillers embedded in longer tokens survive.
// The removal leaves a single space unless a punctuation mark or text edge
// sits right next to the gap.
func (p *postProcessor) stripFillers(text string) string {
	for _, f := range p.fillers {
		text = stripToken(text, f)
	}
	return text
}

func stripToken(text, token string) string {
	var b strings.Builder
	for {
		i := strings.Index(text, token)
		if i < 0 {
			break
		}

		prev, prevSize := utf8.DecodeLastRuneInString(text[:i])
		hasPrev := prevSize > 0
		next, hasNext := rune(0), false
		if rest := text[i+len(token):]; rest != "" {
			next, _ = utf8.DecodeRuneInString(rest)
			hasNext = true
		}

		prevBound := !hasPrev || isTokenBoundary(prev)
		nextBound := !hasNext || isTokenBoundary(next)

		if !prevBound || !nextBound {
			// Inside a longer token; keep it and move past.
			b.WriteString(text[:i+len(token)])
			text = text[i+len(token):]
			continue
		}

		gap := " "
		if !hasPrev || !hasNext || isPunctMark(prev) || isPunctMark(next) || prev == '\n' || next == '\n' {
			gap = ""
		}
		b.WriteString(text[:i])
		b.WriteString(gap)
		text = text[i+len(token):]
	}
	b.WriteString(text)
	return b.String()
}

func isTokenBoundary(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || isPunctMark(r)
}

func (p *postProcessor) terminateParagraphs(text string) string {
	paras := strings.Split(text, "\n\n")
	out := paras[:0]
	for _, para := range paras {
		trimmed := strings.TrimSpace(para)
		if trimmed == "" {
			continue
		}
		if !endsWithTerminal(trimmed, p.terminal) {
			trimmed += p.defaultTerminal
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n\n")
}
