package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const stageSeparation = "separation"

// separateVocals runs demucs to isolate the vocal stem, which transcribes
// much more reliably than a full mix with background music. demucs prints
// progress bars on stderr; those lines are parsed into progress events.
// Returns the path to the isolated vocals file.
func (p *implProcessor) separateVocals(ctx context.Context, audioPath string) (string, error) {
	outDir, err := os.MkdirTemp(p.cfg.Paths.Temp, "separate-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	p.logger.Info(ctx, "Isolating vocals: %s", audioPath)
	p.reporter.Report(ctx, stageSeparation, 10)

	args := []string{
		"--two-stems", p.cfg.Separator.TwoStems,
		"-n", p.cfg.Separator.Model,
		"-o", outDir,
		audioPath,
	}

	started := time.Now()
	err = p.executor.ExecuteStream(ctx, func(line string) {
		if percent, ok := parseDemucsPercent(line); ok {
			// Cap below completion; the file move still has to happen.
			if percent > 90 {
				percent = 90
			}
			if eta, ok := estimateRemaining(started, percent); ok {
				p.reporter.ReportETA(ctx, stageSeparation, percent, eta)
			} else {
				p.reporter.Report(ctx, stageSeparation, percent)
			}
		}
	}, p.cfg.Separator.BinaryPath, args...)
	if err != nil {
		os.RemoveAll(outDir)
		return "", fmt.Errorf("demucs separate: %w", err)
	}

	trackName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	stemPath := filepath.Join(outDir, p.cfg.Separator.Model, trackName, p.cfg.Separator.TwoStems+".wav")
	if _, err := os.Stat(stemPath); err != nil {
		os.RemoveAll(outDir)
		return "", fmt.Errorf("vocal stem not found at %s: %w", stemPath, err)
	}

	// Lift the stem out of the demucs directory tree so the whole tree can
	// go away now rather than leaking temp space per track.
	vocalPath := filepath.Join(p.cfg.Paths.Temp, trackName+"_"+p.cfg.Separator.TwoStems+".wav")
	if err := os.Rename(stemPath, vocalPath); err != nil {
		os.RemoveAll(outDir)
		return "", fmt.Errorf("move vocal stem: %w", err)
	}
	os.RemoveAll(outDir)

	p.reporter.Report(ctx, stageSeparation, 100)
	p.logger.Info(ctx, "Vocals isolated: %s", vocalPath)
	return vocalPath, nil
}

// estimateRemaining projects seconds left by extrapolating the elapsed time
// over the reported percentage.
func estimateRemaining(started time.Time, percent int) (int, bool) {
	if percent <= 0 || percent >= 100 {
		return 0, false
	}
	elapsed := time.Since(started).Seconds()
	return int(elapsed * float64(100-percent) / float64(percent)), true
}

// parseDemucsPercent extracts the percentage from a demucs progress line,
// which looks like " 45%|████▌     | ..." on stderr.
func parseDemucsPercent(line string) (int, bool) {
	idx := strings.IndexRune(line, '%')
	if idx <= 0 {
		return 0, false
	}

	start := idx
	for start > 0 {
		c := line[start-1]
		if c < '0' || c > '9' {
			break
		}
		start--
	}
	if start == idx {
		return 0, false
	}

	percent, err := strconv.Atoi(line[start:idx])
	if err != nil || percent < 0 || percent > 100 {
		return 0, false
	}
	return percent, true
}
