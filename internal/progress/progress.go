// Package progress emits structured progress events for pipeline stages.
//
// Each event is one JSON object per line on the configured writer, in the
// shape consumed by the host application:
//
//	{"progress":{"stage":"formatting","percent":60,"estimatedTimeRemaining":12}}
//
// Percent is clamped to be monotonically non-decreasing per stage, so a
// reporter can be shared across consecutive pipeline stages that each start
// at zero. Write failures never propagate: the pipeline must not abort
// because a progress consumer went away.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/transflow/transflow/internal/logger"
)

// Event is a single progress record.
type Event struct {
	Stage                  string `json:"stage"`
	Percent                int    `json:"percent"`
	EstimatedTimeRemaining *int   `json:"estimatedTimeRemaining,omitempty"`
}

type envelope struct {
	Progress Event `json:"progress"`
}

// Reporter receives stage progress. Implementations must be safe to call
// from the processing goroutine and must never fail the caller.
type Reporter interface {
	Report(ctx context.Context, stage string, percent int)
	ReportETA(ctx context.Context, stage string, percent int, secondsRemaining int)
}

type implReporter struct {
	mu     sync.Mutex
	w      io.Writer
	logger logger.Logger
	last   map[string]int
}

// New creates a Reporter writing JSON lines to w. Diagnostics for swallowed
// write errors go to log.
func New(w io.Writer, log logger.Logger) Reporter {
	return &implReporter{w: w, logger: log, last: make(map[string]int)}
}

func (r *implReporter) Report(ctx context.Context, stage string, percent int) {
	r.emit(ctx, Event{Stage: stage, Percent: percent})
}

func (r *implReporter) ReportETA(ctx context.Context, stage string, percent int, secondsRemaining int) {
	eta := secondsRemaining
	r.emit(ctx, Event{Stage: stage, Percent: percent, EstimatedTimeRemaining: &eta})
}

func (r *implReporter) emit(ctx context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.Percent < 0 {
		ev.Percent = 0
	}
	if ev.Percent > 100 {
		ev.Percent = 100
	}
	// Monotonic per stage: a callback reporting out of order must not make
	// the consumer's bar move backwards, but each stage starts its own bar.
	if ev.Percent < r.last[ev.Stage] {
		ev.Percent = r.last[ev.Stage]
	}
	r.last[ev.Stage] = ev.Percent

	data, err := json.Marshal(envelope{Progress: ev})
	if err != nil {
		r.logger.Warn(ctx, "progress marshal failed: %v", err)
		return
	}
	if _, err := fmt.Fprintf(r.w, "%s\n", data); err != nil {
		r.logger.Warn(ctx, "progress write failed: %v", err)
	}
}

type nopReporter struct{}

func (nopReporter) Report(context.Context, string, int)         {}
func (nopReporter) ReportETA(context.Context, string, int, int) {}

// Nop returns a Reporter that discards all events.
func Nop() Reporter {
	return nopReporter{}
}
