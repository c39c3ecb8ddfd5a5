package reflow

import (
	"reflect"
	"strings"
	"testing"
)

func TestPlanChunks(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		maxBytes int
		want     [][]string
	}{
		{
			name:     "greedy packing up to the budget",
			input:    []string{"aaaa", "bbbb", "cc"},
			maxBytes: 8,
			want:     [][]string{{"aaaa", "bbbb"}, {"cc"}},
		},
		{
			name:     "oversized sentence emitted alone",
			input:    []string{"bb", "aaaaaaaaaa", "cc"},
			maxBytes: 4,
			want:     [][]string{{"bb"}, {"aaaaaaaaaa"}, {"cc"}},
		},
		{
			name:     "everything fits in one chunk",
			input:    []string{"a", "b", "c"},
			maxBytes: 100,
			want:     [][]string{{"a", "b", "c"}},
		},
		{
			name:     "zero budget disables chunking",
			input:    []string{"a", "b"},
			maxBytes: 0,
			want:     [][]string{{"a", "b"}},
		},
		{
			name:     "no sentences",
			input:    nil,
			maxBytes: 10,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanChunks(tt.input, tt.maxBytes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PlanChunks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanChunksBudgetAndCoverage(t *testing.T) {
	// ~200-byte sentences totaling just over 50KB against a 35KB budget:
	// at least two chunks, none over budget, nothing dropped or reordered.
	sentence := strings.Repeat("あ", 66) + "。" // 201 bytes
	var sentences []string
	for i := 0; i < 250; i++ {
		sentences = append(sentences, sentence)
	}

	const maxBytes = 35000
	chunks := PlanChunks(sentences, maxBytes)

	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}

	var flattened []string
	for i, c := range chunks {
		if len(c) == 0 {
			t.Fatalf("chunk %d is empty", i)
		}
		if size := len(ChunkText(c)); size > maxBytes && len(c) > 1 {
			t.Errorf("chunk %d is %d bytes with %d sentences, budget %d", i, size, len(c), maxBytes)
		}
		flattened = append(flattened, c...)
	}

	if !reflect.DeepEqual(flattened, sentences) {
		t.Error("chunk concatenation does not reproduce the sentence sequence")
	}
}

func TestPlanChunksMultibyteBudget(t *testing.T) {
	// Budget is bytes of the encoded form, not runes.
	s := strings.Repeat("あ", 10) // 30 bytes
	chunks := PlanChunks([]string{s, s}, 40)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2 (30+30 bytes over a 40-byte budget)", len(chunks))
	}
}

func TestChunkText(t *testing.T) {
	got := ChunkText([]string{"一文目。", "二文目。"})
	if got != "一文目。二文目。" {
		t.Errorf("ChunkText() = %q", got)
	}
}
