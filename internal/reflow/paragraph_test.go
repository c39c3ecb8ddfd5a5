package reflow

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/transflow/transflow/internal/config"
)

func testRules(t *testing.T) []breakRule {
	t.Helper()
	cfg := config.DefaultReflow()
	speaker, err := regexp.Compile(cfg.SpeakerPattern)
	if err != nil {
		t.Fatalf("compile speaker pattern: %v", err)
	}
	return newBreakRules(cfg, speaker)
}

func TestBreakRuleOrder(t *testing.T) {
	rules := testRules(t)

	tests := []struct {
		name     string
		cur      string
		next     string
		wantRule string
		wantFire bool
	}{
		{
			name:     "topic shift marker wins",
			cur:      "結果はこうです。",
			next:     "ところで次の話題ですが…",
			wantRule: "marker",
			wantFire: true,
		},
		{
			name:     "dialogue opener",
			cur:      "彼が来ました。",
			next:     "「おはようございます。」",
			wantRule: "marker",
			wantFire: true,
		},
		{
			name:     "interrogative ending",
			cur:      "これは何ですか？",
			next:     "答えはこれです。",
			wantRule: "interrogative",
			wantFire: true,
		},
		{
			name:     "interrogative behind closing quote",
			cur:      "「これは何ですか？」",
			next:     "答えはこれです。",
			wantRule: "interrogative",
			wantFire: true,
		},
		{
			name:     "length delta over threshold",
			cur:      "これはとても長い文章でありまして内容が続いています。",
			next:     "はい。",
			wantRule: "length-delta",
			wantFire: true,
		},
		{
			name:     "length delta guarded for short sentences",
			cur:      "はい。",
			next:     "これはとても長い文章でありまして内容が続いています。",
			wantFire: false,
		},
		{
			name:     "speaker label on next sentence",
			cur:      "こんにちは。",
			next:     "田中:おはようございます。",
			wantRule: "speaker",
			wantFire: true,
		},
		{
			name:     "speaker label with fullwidth colon",
			cur:      "こんにちは。",
			next:     "タナカ：おはようございます。",
			wantRule: "speaker",
			wantFire: true,
		},
		{
			name:     "no rule fires for similar statements",
			cur:      "今日は晴れです。",
			next:     "明日も晴れです。",
			wantFire: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, fired := firstFiring(rules, tt.cur, tt.next)
			if fired != tt.wantFire {
				t.Fatalf("fired = %v, want %v (rule %q)", fired, tt.wantFire, rule)
			}
			if fired && rule != tt.wantRule {
				t.Errorf("rule = %q, want %q", rule, tt.wantRule)
			}
		})
	}
}

func TestSegmentParagraphs(t *testing.T) {
	rules := testRules(t)

	tests := []struct {
		name  string
		input []string
		want  []Paragraph
	}{
		{
			name:  "marker break splits paragraphs",
			input: []string{"こんにちは。", "今日は晴れです。", "ところで明日の予定ですが。"},
			want: []Paragraph{
				{"こんにちは。", "今日は晴れです。"},
				{"ところで明日の予定ですが。"},
			},
		},
		{
			name:  "single sentence single paragraph",
			input: []string{"今日は晴れです。"},
			want:  []Paragraph{{"今日は晴れです。"}},
		},
		{
			name:  "no input no paragraphs",
			input: nil,
			want:  nil,
		},
		{
			name:  "question closes a paragraph",
			input: []string{"準備はいいですか？", "始めましょう。", "続けます。"},
			want: []Paragraph{
				{"準備はいいですか？"},
				{"始めましょう。", "続けます。"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := segmentParagraphs(tt.input, rules, nil)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("segmentParagraphs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentParagraphsCoverage(t *testing.T) {
	rules := testRules(t)

	input := []string{
		"これは一文目です。",
		"短い。",
		"ところで話題が変わります。",
		"これは何ですか？",
		"田中:答えます。",
		"最後の文です。",
	}

	paras := segmentParagraphs(input, rules, nil)

	var flattened []string
	for _, p := range paras {
		if len(p) == 0 {
			t.Fatal("empty paragraph emitted")
		}
		flattened = append(flattened, p...)
	}

	if !reflect.DeepEqual(flattened, input) {
		t.Errorf("paragraph flattening = %v, want source order %v", flattened, input)
	}
}

func TestSegmentParagraphsTrace(t *testing.T) {
	rules := testRules(t)

	var traced []string
	segmentParagraphs(
		[]string{"結果はこうです。", "ところで次の話です。"},
		rules,
		func(_ int, rule string) { traced = append(traced, rule) },
	)

	if len(traced) != 1 || traced[0] != "marker" {
		t.Errorf("traced rules = %v, want [marker]", traced)
	}
}
