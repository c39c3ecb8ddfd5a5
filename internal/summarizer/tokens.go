package summarizer

import (
	"github.com/pkoukk/tiktoken-go"
)

// tokenCounter measures and trims text by token count so transcripts fit
// within the model's context window. The cl100k_base encoding is not the
// Gemini tokenizer, but it tracks closely enough for a budget check.
type tokenCounter struct {
	encoding *tiktoken.Tiktoken
}

func newTokenCounter() (*tokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &tokenCounter{encoding: enc}, nil
}

func (c *tokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// Truncate cuts text down to at most maxTokens tokens. The head of the
// transcript is kept; summaries of a truncated lecture should cover its
// opening rather than a random tail.
func (c *tokenCounter) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}
	tokens := c.encoding.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return c.encoding.Decode(tokens[:maxTokens])
}
