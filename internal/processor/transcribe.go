package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const stageTranscription = "transcription"

// transcribe runs whisper.cpp on the audio file and returns the raw
// transcript text. The transcript is intentionally left unformatted here;
// sentence and paragraph structure is the reflow engine's job.
func (p *implProcessor) transcribe(ctx context.Context, audioPath string) (string, error) {
	outputPrefix := filepath.Join(p.cfg.Paths.Temp,
		strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath)))

	p.logger.Info(ctx, "Starting transcription (%d threads): %s", p.cfg.Whisper.Threads, audioPath)
	p.reporter.Report(ctx, stageTranscription, 5)

	// -l forces the language to prevent hallucinated language switches;
	// --prompt biases decoding toward domain vocabulary.
	args := []string{
		"-m", p.cfg.Whisper.ModelPath,
		"-f", audioPath,
		"-otxt",
		"-l", p.cfg.Whisper.Language,
		"-t", strconv.Itoa(p.cfg.Whisper.Threads),
		"--output-file", outputPrefix,
	}
	if p.cfg.Whisper.Prompt != "" {
		args = append(args, "--prompt", p.cfg.Whisper.Prompt)
	}

	if _, err := p.executor.Execute(ctx, p.cfg.Whisper.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	txtPath := outputPrefix + ".txt"
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read transcript %s: %w", txtPath, err)
	}
	defer p.cleanupTempFile(ctx, txtPath)

	p.reporter.Report(ctx, stageTranscription, 100)
	p.logger.Info(ctx, "Transcription completed: %d bytes", len(data))
	return string(data), nil
}
