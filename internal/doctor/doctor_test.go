package doctor_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/transflow/transflow/internal/doctor"
)

var errBinaryNotFound = errors.New("executable file not found in $PATH")

func modelFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggml-large-v3.bin")
	if err := os.WriteFile(path, []byte("model"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_AllChecksPass(t *testing.T) {
	cfg := doctor.Config{
		WhisperVersion: func() (string, error) { return "whisper.cpp v1.7.4", nil },
		DemucsVersion:  func() (string, error) { return "demucs 4.0.1", nil },
		FFmpegVersion:  func() (string, error) { return "ffmpeg version 7.1", nil },
		ModelPath:      modelFile(t),
		Directories:    []string{filepath.Join(t.TempDir(), "input")},
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected all checks to pass; failures: %v", result.Failures())
	}
	if !strings.Contains(out.String(), "whisper binary") {
		t.Error("output should mention the whisper binary")
	}
	if strings.Contains(out.String(), doctor.FailMark) {
		t.Errorf("output should not contain the fail mark:\n%s", out.String())
	}
}

func TestRun_WhisperMissingFails(t *testing.T) {
	cfg := doctor.Config{
		WhisperVersion: func() (string, error) { return "", errBinaryNotFound },
		DemucsVersion:  func() (string, error) { return "demucs 4.0.1", nil },
		ModelPath:      modelFile(t),
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !result.Failed() {
		t.Fatal("expected failure when whisper is not found")
	}
	if !strings.Contains(out.String(), doctor.FailMark) {
		t.Error("output should contain the fail mark")
	}
}

func TestRun_ModelChecks(t *testing.T) {
	pass := func() (string, error) { return "ok", nil }

	t.Run("missing file", func(t *testing.T) {
		cfg := doctor.Config{
			WhisperVersion: pass,
			DemucsVersion:  pass,
			ModelPath:      filepath.Join(t.TempDir(), "nope.bin"),
		}
		var out strings.Builder
		if result := doctor.Run(cfg, &out); !result.Failed() {
			t.Error("expected failure for a missing model file")
		}
	})

	t.Run("directory instead of file", func(t *testing.T) {
		cfg := doctor.Config{
			WhisperVersion: pass,
			DemucsVersion:  pass,
			ModelPath:      t.TempDir(),
		}
		var out strings.Builder
		if result := doctor.Run(cfg, &out); !result.Failed() {
			t.Error("expected failure when the model path is a directory")
		}
	})

	t.Run("empty path", func(t *testing.T) {
		cfg := doctor.Config{
			WhisperVersion: pass,
			DemucsVersion:  pass,
		}
		var out strings.Builder
		if result := doctor.Run(cfg, &out); !result.Failed() {
			t.Error("expected failure for an unconfigured model path")
		}
	})
}

func TestRun_SkipDemucs(t *testing.T) {
	cfg := doctor.Config{
		WhisperVersion: func() (string, error) { return "ok", nil },
		DemucsVersion:  func() (string, error) { return "", errBinaryNotFound },
		SkipDemucs:     true,
		ModelPath:      modelFile(t),
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("demucs check should be skipped; failures: %v", result.Failures())
	}
	if !strings.Contains(out.String(), "skipped") {
		t.Error("output should say the demucs check was skipped")
	}
}

func TestRun_DirectoryCreatedWhenAbsent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "input")
	cfg := doctor.Config{
		WhisperVersion: func() (string, error) { return "ok", nil },
		DemucsVersion:  func() (string, error) { return "ok", nil },
		ModelPath:      modelFile(t),
		Directories:    []string{dir},
	}

	var out strings.Builder
	if result := doctor.Run(cfg, &out); result.Failed() {
		t.Errorf("expected pass; failures: %v", result.Failures())
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory should have been created: %v", err)
	}
}

func TestResult_Failures(t *testing.T) {
	var result doctor.Result
	if result.Failed() {
		t.Error("zero-value Result should not be failed")
	}
	if got := result.Failures(); len(got) != 0 {
		t.Errorf("zero-value Result has failures: %v", got)
	}
}
