package summarizer

import (
	"fmt"

	"github.com/transflow/transflow/internal/config"
	"github.com/transflow/transflow/internal/logger"
)

type implSummarizer struct {
	apiKeys        []string
	currentKey     int
	logger         logger.Logger
	model          string
	maxInputTokens int
	counter        *tokenCounter
}

// New creates a Summarizer that rotates through the configured Gemini API
// keys and trims transcripts to the model's input token budget.
func New(cfg config.GeminiConfig, log logger.Logger) (Summarizer, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("at least one Gemini API key is required")
	}

	counter, err := newTokenCounter()
	if err != nil {
		return nil, fmt.Errorf("init token counter: %w", err)
	}

	return &implSummarizer{
		apiKeys:        cfg.APIKeys,
		logger:         log,
		model:          cfg.Model,
		maxInputTokens: cfg.MaxInputTokens,
		counter:        counter,
	}, nil
}
