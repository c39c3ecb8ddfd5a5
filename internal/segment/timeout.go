package segment

import (
	"context"
	"fmt"
	"time"
)

type timeoutSegmenter struct {
	inner   Segmenter
	timeout time.Duration
}

// WithTimeout decorates a Segmenter with a bounded deadline. The wrapped
// call runs in its own goroutine because segmenter implementations are
// CPU-bound and do not poll the context themselves; when the deadline
// passes, the caller gets an error and the stray goroutine finishes into
// the void.
func WithTimeout(inner Segmenter, timeout time.Duration) Segmenter {
	if timeout <= 0 {
		return inner
	}
	return &timeoutSegmenter{inner: inner, timeout: timeout}
}

type segmentResult struct {
	sentences []string
	err       error
}

func (t *timeoutSegmenter) Segment(ctx context.Context, text string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan segmentResult, 1)
	go func() {
		// A panicking segmenter must surface as an error, not kill the
		// process from a goroutine the engine's recover cannot reach.
		defer func() {
			if r := recover(); r != nil {
				done <- segmentResult{err: fmt.Errorf("segmenter panic: %v", r)}
			}
		}()
		sents, err := t.inner.Segment(ctx, text)
		done <- segmentResult{sentences: sents, err: err}
	}()

	select {
	case res := <-done:
		return res.sentences, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("segmenter: %w", ctx.Err())
	}
}
