// Package doctor provides environment preflight checks for transflow.
package doctor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// VersionFunc returns a version string or an error if the component is unavailable.
type VersionFunc func() (string, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// WhisperVersion returns the output of the whisper binary's version flag.
	WhisperVersion VersionFunc
	// DemucsVersion returns the output of `demucs --version`.
	DemucsVersion VersionFunc
	// SkipDemucs skips the demucs check (vocal separation disabled).
	SkipDemucs bool
	// FFmpegVersion returns the ffmpeg version string; demucs and whisper
	// both decode through it.
	FFmpegVersion VersionFunc
	// ModelPath is the whisper model file to verify on disk.
	ModelPath string
	// Directories are the pipeline directories that must be writable.
	Directories []string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- whisper binary ---------------------------------------------------
	ver, err := cfg.WhisperVersion()
	if err != nil {
		res.fail(fmt.Sprintf("whisper binary: %v", err))
		fmt.Fprintf(w, "%s whisper binary: not found (%v)\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s whisper binary: %s\n", PassMark, ver)
	}

	// ---- whisper model ----------------------------------------------------
	if cfg.ModelPath == "" {
		res.fail("whisper model: no path configured")
		fmt.Fprintf(w, "%s whisper model: no path configured\n", FailMark)
	} else if info, err := os.Stat(cfg.ModelPath); err != nil {
		res.fail(fmt.Sprintf("whisper model %q: %v", cfg.ModelPath, err))
		fmt.Fprintf(w, "%s whisper model %s: not found\n", FailMark, cfg.ModelPath)
	} else if info.IsDir() {
		res.fail(fmt.Sprintf("whisper model %q: is a directory", cfg.ModelPath))
		fmt.Fprintf(w, "%s whisper model %s: is a directory, expected a file\n", FailMark, cfg.ModelPath)
	} else {
		fmt.Fprintf(w, "%s whisper model: %s\n", PassMark, cfg.ModelPath)
	}

	// ---- demucs binary ----------------------------------------------------
	if cfg.SkipDemucs {
		fmt.Fprintf(w, "%s demucs binary: skipped (separation disabled)\n", PassMark)
	} else {
		ver, err := cfg.DemucsVersion()
		if err != nil {
			res.fail(fmt.Sprintf("demucs binary: %v", err))
			fmt.Fprintf(w, "%s demucs binary: not found (%v)\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s demucs binary: %s\n", PassMark, ver)
		}
	}

	// ---- ffmpeg -----------------------------------------------------------
	if cfg.FFmpegVersion != nil {
		ver, err := cfg.FFmpegVersion()
		if err != nil {
			res.fail(fmt.Sprintf("ffmpeg: %v", err))
			fmt.Fprintf(w, "%s ffmpeg: not found (%v)\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s ffmpeg: %s\n", PassMark, ver)
		}
	}

	// ---- pipeline directories ---------------------------------------------
	for _, dir := range cfg.Directories {
		if err := checkWritableDir(dir); err != nil {
			res.fail(fmt.Sprintf("directory %q: %v", dir, err))
			fmt.Fprintf(w, "%s directory %s: %v\n", FailMark, dir, err)
		} else {
			fmt.Fprintf(w, "%s directory: %s\n", PassMark, dir)
		}
	}

	return res
}

// checkWritableDir verifies dir exists (creating it if absent) and accepts
// new files.
func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create: %w", err)
	}

	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	os.Remove(probe)
	return nil
}
