package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/transflow/transflow/internal/config"
	"github.com/transflow/transflow/internal/logger"
	"github.com/transflow/transflow/internal/processor"
	"github.com/transflow/transflow/internal/progress"
	"github.com/transflow/transflow/internal/reflow"
	"github.com/transflow/transflow/internal/segment"
	"github.com/transflow/transflow/internal/watcher"
	"github.com/transflow/transflow/pkg/executor"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Watch the input folder and process audio files as they arrive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runPipeline(cmd.Context(), cfg)
		},
	}
}

func runPipeline(ctx context.Context, cfg *config.Config) error {
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Audio Transcription Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "CPU Cores: %d", runtime.NumCPU())
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	engineOpts := []reflow.Option{reflow.WithLogger(log)}
	if cfg.Reflow.UseSegmenter {
		engineOpts = append(engineOpts, reflow.WithSegmenter(segment.NewProse()))
	}
	engine, err := reflow.New(cfg.Reflow, engineOpts...)
	if err != nil {
		return fmt.Errorf("create reflow engine: %w", err)
	}

	proc := processor.New(cfg, executor.New(), log, engine, progress.Nop())

	w, err := watcher.New(cfg.Paths.Input, proc.Process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "Pipeline is ready")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Whisper: %d threads, language %s", cfg.Whisper.Threads, cfg.Whisper.Language)
	log.Info(ctx, "Vocal separation: %v", cfg.Separator.Enabled)
	log.Info(ctx, "Press Ctrl+C to stop")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
		cancel()
		return err
	}

	// Cancel and wait for in-flight processing to drain.
	log.Info(ctx, "Shutting down gracefully...")
	cancel()
	<-watcherDone

	log.Info(ctx, "Pipeline stopped")
	return nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
