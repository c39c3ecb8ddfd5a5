package segment

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFuncAdapter(t *testing.T) {
	s := Func(func(_ context.Context, text string) ([]string, error) {
		return []string{text}, nil
	})

	got, err := s.Segment(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("Segment() = %v, want [hello]", got)
	}
}

func TestWithTimeoutPassesThrough(t *testing.T) {
	inner := Func(func(_ context.Context, _ string) ([]string, error) {
		return []string{"a.", "b."}, nil
	})

	s := WithTimeout(inner, time.Second)
	got, err := s.Segment(context.Background(), "a.b.")
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d sentences, want 2", len(got))
	}
}

func TestWithTimeoutExpires(t *testing.T) {
	inner := Func(func(ctx context.Context, _ string) ([]string, error) {
		select {
		case <-time.After(5 * time.Second):
			return []string{"late"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	s := WithTimeout(inner, 20*time.Millisecond)
	_, err := s.Segment(context.Background(), "text")
	if err == nil {
		t.Fatal("Segment() should fail on timeout")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
}

func TestWithTimeoutPropagatesError(t *testing.T) {
	wantErr := errors.New("parser unavailable")
	inner := Func(func(_ context.Context, _ string) ([]string, error) {
		return nil, wantErr
	})

	s := WithTimeout(inner, time.Second)
	_, err := s.Segment(context.Background(), "text")
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}

func TestWithTimeoutZeroDisables(t *testing.T) {
	inner := NewProse()
	if s := WithTimeout(inner, 0); s != inner {
		t.Error("zero timeout should return the inner segmenter unchanged")
	}
}

func TestProseSegmentsEnglishText(t *testing.T) {
	s := NewProse()

	got, err := s.Segment(context.Background(), "This is one sentence. This is another one.")
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d sentences (%v), want 2", len(got), got)
	}
}
