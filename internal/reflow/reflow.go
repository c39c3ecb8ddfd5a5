// Package reflow turns a raw, weakly punctuated transcript into
// paragraph-structured, punctuation-normalized prose.
//
// The pipeline inside Format is: split the text into sentences (optionally
// via an external segmenter, with chunking to respect its input-size limit),
// normalize each sentence, partition the full ordered sentence sequence into
// paragraphs with a priority-ordered rule chain, join, and run the global
// post-pass. The engine is a pure computation over in-memory text; progress
// reporting and diagnostics are side-effecting observers with no control-flow
// coupling to the algorithm.
package reflow

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/transflow/transflow/internal/config"
	"github.com/transflow/transflow/internal/logger"
	"github.com/transflow/transflow/internal/progress"
	"github.com/transflow/transflow/internal/segment"
)

// Stage is the name this engine reports progress under.
const Stage = "formatting"

// Result is the engine's failure surface. Format never panics past its
// boundary: on any internal fault the original input text comes back with an
// error annotation, because losing transcript data is worse than imperfect
// formatting.
type Result struct {
	Success           bool   `json:"success"`
	Text              string `json:"result"`
	FormattedByEngine bool   `json:"formattedByEngine"`
	Err               string `json:"error,omitempty"`
}

// Engine is the text reflow engine. Construct with New; the zero value is
// not usable.
type Engine struct {
	cfg      config.ReflowConfig
	terminal map[rune]bool
	norm     *sentenceNormalizer
	post     *postProcessor
	rules    []breakRule
	seg      segment.Segmenter
	log      logger.Logger
	reporter progress.Reporter
}

// Option configures an Engine.
type Option func(*Engine)

// WithSegmenter installs the optional external sentence-segmentation
// capability. The engine works without one, and falls back to its rule-based
// splitter whenever the capability errors or times out.
func WithSegmenter(s segment.Segmenter) Option {
	return func(e *Engine) { e.seg = s }
}

// WithLogger installs the diagnostic sink.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithReporter installs the progress event sink.
func WithReporter(r progress.Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// New validates the configuration and builds an Engine. Configuration errors
// are the only fatal errors in this package; everything after construction
// is recovered.
func New(cfg config.ReflowConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	speaker, err := regexp.Compile(cfg.SpeakerPattern)
	if err != nil {
		return nil, fmt.Errorf("compile speaker pattern: %w", err)
	}

	e := &Engine{
		cfg:      cfg,
		terminal: TerminalSet(cfg.TerminalMarks),
		norm:     newSentenceNormalizer(cfg),
		post:     newPostProcessor(cfg),
		rules:    newBreakRules(cfg, speaker),
		log:      logger.Nop(),
		reporter: progress.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Format reflows text into formatted prose.
func (e *Engine) Format(ctx context.Context, text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error(ctx, "reflow fault recovered, returning original text: %v", r)
			res = Result{Success: false, Text: text, Err: fmt.Sprintf("reflow: %v", r)}
		}
	}()

	e.reporter.Report(ctx, Stage, 10)

	sentences := e.collectSentences(ctx, text)
	e.reporter.Report(ctx, Stage, 60)

	normalized := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if ns := e.norm.Normalize(s); ns != "" {
			normalized = append(normalized, ns)
		}
	}

	paras := segmentParagraphs(normalized, e.rules, func(i int, rule string) {
		e.log.Debug(ctx, "paragraph break after sentence %d (rule: %s)", i, rule)
	})
	e.reporter.Report(ctx, Stage, 80)

	out := e.post.Process(joinParagraphs(paras))

	e.reporter.Report(ctx, Stage, 100)
	return Result{Success: true, Text: out, FormattedByEngine: true}
}

// collectSentences produces the full ordered sentence sequence. Text under
// the chunk budget goes to the external segmenter whole; anything larger is
// sentence-split first and chunked so no segmenter call exceeds the budget.
// Chunks are processed sequentially and their sentences concatenated in
// order; paragraphing always runs once over the reassembled sequence, never
// per chunk, because chunk boundaries are a size-limit artifact with no
// semantic meaning.
func (e *Engine) collectSentences(ctx context.Context, text string) []string {
	if e.seg != nil && len(text) <= e.cfg.MaxChunkBytes {
		return e.segmentOrFallback(ctx, text)
	}

	rough := SplitSentences(text, e.terminal)
	e.reporter.Report(ctx, Stage, 30)

	if e.seg == nil {
		return rough
	}

	chunks := PlanChunks(rough, e.cfg.MaxChunkBytes)
	e.log.Debug(ctx, "planned %d chunks for %d sentences (%d bytes)", len(chunks), len(rough), len(text))

	var out []string
	for i, c := range chunks {
		out = append(out, e.segmentOrFallback(ctx, ChunkText(c))...)
		e.reporter.Report(ctx, Stage, 30+(30*(i+1))/len(chunks))
	}
	return out
}

func (e *Engine) segmentOrFallback(ctx context.Context, text string) []string {
	timeout := time.Duration(e.cfg.SegmenterTimeoutMS) * time.Millisecond
	sents, err := segment.WithTimeout(e.seg, timeout).Segment(ctx, text)
	if err != nil {
		e.log.Warn(ctx, "external segmenter failed, using rule-based splitter: %v", err)
		return SplitSentences(text, e.terminal)
	}
	if len(sents) == 0 {
		return SplitSentences(text, e.terminal)
	}
	return sents
}

func joinParagraphs(paras []Paragraph) string {
	parts := make([]string, len(paras))
	for i, p := range paras {
		parts[i] = strings.Join(p, " ")
	}
	return strings.Join(parts, "\n\n")
}
