package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/transflow/transflow/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that external tools, the model and folders are usable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			dcfg := doctor.Config{
				WhisperVersion: func() (string, error) {
					return probeBinary(cfg.Whisper.BinaryPath)
				},
				DemucsVersion: func() (string, error) {
					return probeVersion(ctx, cfg.Separator.BinaryPath, "--version")
				},
				SkipDemucs: !cfg.Separator.Enabled,
				FFmpegVersion: func() (string, error) {
					return probeVersion(ctx, "ffmpeg", "-version")
				},
				ModelPath:   cfg.Whisper.ModelPath,
				Directories: []string{
					cfg.Paths.Input,
					cfg.Paths.Output,
					cfg.Paths.Archived,
					cfg.Paths.Temp,
				},
			}

			result := doctor.Run(dcfg, os.Stdout)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")

			return nil
		},
	}
}

// probeBinary resolves the binary on PATH. whisper.cpp builds have no stable
// version flag, so presence is the check.
func probeBinary(bin string) (string, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%s not found on PATH: %w", bin, err)
	}
	return path, nil
}

// probeVersion runs the binary with the given version flag and returns the
// first line of output.
func probeVersion(ctx context.Context, bin, flag string) (string, error) {
	out, err := exec.CommandContext(ctx, bin, flag).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s %s failed: %w", bin, flag, err)
	}
	return firstLine(string(out)), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
