// Package segment wraps the optional external sentence-segmentation
// capability behind a one-method interface, so its presence or absence is a
// wiring concern rather than a branch inside the reflow algorithm. The
// engine falls back to its rule-based splitter whenever a Segmenter errors,
// times out, or returns nothing.
package segment

import "context"

// Segmenter splits a text span into an ordered sequence of sentences.
type Segmenter interface {
	Segment(ctx context.Context, text string) ([]string, error)
}

// Func adapts a plain function to the Segmenter interface.
type Func func(ctx context.Context, text string) ([]string, error)

func (f Func) Segment(ctx context.Context, text string) ([]string, error) {
	return f(ctx, text)
}
