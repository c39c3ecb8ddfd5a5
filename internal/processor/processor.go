package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Process runs the full pipeline for one audio file: isolate vocals,
// transcribe, reflow the transcript into formatted prose, and write the
// result next to the configured output directory. A failed reflow still
// produces output: the engine downgrades faults to the original transcript
// text, because losing a transcription is worse than shipping it unformatted.
func (p *implProcessor) Process(ctx context.Context, audioPath string) error {
	startTime := time.Now()
	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))

	p.logger.Info(ctx, "Starting audio processing: %s", audioPath)

	// Step 1: isolate vocals. Separation is best-effort; the raw audio is a
	// usable transcription source when demucs is missing or fails.
	sourcePath := audioPath
	if p.cfg.Separator.Enabled {
		vocalPath, err := p.separateVocals(ctx, audioPath)
		if err != nil {
			p.logger.Warn(ctx, "Vocal separation failed, transcribing original audio: %v", err)
		} else {
			sourcePath = vocalPath
			defer p.cleanupTempFile(ctx, vocalPath)
		}
	}

	// Step 2: transcribe.
	transcript, err := p.transcribe(ctx, sourcePath)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	// Step 3: reflow the raw transcript into formatted prose.
	res := p.engine.Format(ctx, transcript)
	if !res.Success {
		p.logger.Warn(ctx, "Reflow degraded to original text: %s", res.Err)
	}

	// Step 4: write the formatted transcript.
	outputPath := filepath.Join(p.cfg.Paths.Output, baseName+".txt")
	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(res.Text), 0644); err != nil {
		return fmt.Errorf("write formatted transcript: %w", err)
	}

	// Step 5: move the original audio to the archived folder.
	if err := p.moveToArchived(ctx, audioPath); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	p.logger.Info(ctx, "Processing completed: %s (%s, formatted=%v)",
		outputPath, time.Since(startTime), res.FormattedByEngine)

	return nil
}
