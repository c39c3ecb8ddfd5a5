package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/transflow/transflow/internal/logger"
)

func decodeLines(t *testing.T, raw string) []Event {
	t.Helper()

	var events []Event
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" {
			continue
		}
		var env struct {
			Progress Event `json:"progress"`
		}
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			t.Fatalf("line %q is not valid JSON: %v", line, err)
		}
		events = append(events, env.Progress)
	}
	return events
}

func TestReportEmitsJSONLines(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	r := New(&buf, logger.Nop())

	r.Report(ctx, "formatting", 10)
	r.ReportETA(ctx, "formatting", 60, 12)
	r.Report(ctx, "formatting", 100)

	events := decodeLines(t, buf.String())
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	if events[0].Stage != "formatting" || events[0].Percent != 10 {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].EstimatedTimeRemaining == nil || *events[1].EstimatedTimeRemaining != 12 {
		t.Errorf("second event ETA = %v, want 12", events[1].EstimatedTimeRemaining)
	}
	if events[0].EstimatedTimeRemaining != nil {
		t.Error("ETA should be omitted when not supplied")
	}
	if events[2].Percent != 100 {
		t.Errorf("terminal percent = %d, want 100", events[2].Percent)
	}
}

func TestPercentMonotonicAndClamped(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	r := New(&buf, logger.Nop())

	r.Report(ctx, "formatting", 50)
	r.Report(ctx, "formatting", 30)  // out of order
	r.Report(ctx, "formatting", 120) // over range
	r.Report(ctx, "formatting", -5)  // under range

	events := decodeLines(t, buf.String())
	want := []int{50, 50, 100, 100}
	for i, ev := range events {
		if ev.Percent != want[i] {
			t.Errorf("event %d percent = %d, want %d", i, ev.Percent, want[i])
		}
	}
}

func TestStagesClampIndependently(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	r := New(&buf, logger.Nop())

	// One reporter shared across consecutive stages: a finished stage must
	// not pin the next stage's opening report at 100.
	r.Report(ctx, "separation", 10)
	r.Report(ctx, "separation", 100)
	r.Report(ctx, "transcription", 5)
	r.Report(ctx, "transcription", 3) // out of order within its own stage
	r.Report(ctx, "transcription", 100)

	events := decodeLines(t, buf.String())
	want := []struct {
		stage   string
		percent int
	}{
		{"separation", 10},
		{"separation", 100},
		{"transcription", 5},
		{"transcription", 5},
		{"transcription", 100},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, ev := range events {
		if ev.Stage != want[i].stage || ev.Percent != want[i].percent {
			t.Errorf("event %d = %s/%d, want %s/%d",
				i, ev.Stage, ev.Percent, want[i].stage, want[i].percent)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestWriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	r := New(failingWriter{}, logger.Nop())

	// Must not panic or return anything; pipeline continues regardless.
	r.Report(ctx, "formatting", 10)
	r.ReportETA(ctx, "formatting", 20, 5)
}

func TestNopReporter(t *testing.T) {
	ctx := context.Background()
	r := Nop()
	r.Report(ctx, "x", 1)
	r.ReportETA(ctx, "x", 2, 3)
}
