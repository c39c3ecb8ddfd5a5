package segment

import (
	"context"
	"fmt"

	prose "github.com/jdkato/prose/v2"
)

type proseSegmenter struct{}

// NewProse returns a Segmenter backed by the prose linguistic parser.
// Tokenization, tagging, and entity extraction are disabled; only sentence
// segmentation runs. The parser's boundary model is weakest on unpunctuated
// CJK text, which is exactly the case the engine's rule-based fallback
// covers.
func NewProse() Segmenter {
	return proseSegmenter{}
}

func (proseSegmenter) Segment(_ context.Context, text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose segment: %w", err)
	}

	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		if s.Text != "" {
			out = append(out, s.Text)
		}
	}
	return out, nil
}
