package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/transflow/transflow/internal/logger"
	"github.com/transflow/transflow/internal/progress"
	"github.com/transflow/transflow/internal/reflow"
	"github.com/transflow/transflow/internal/segment"
)

func newFormatCmd() *cobra.Command {
	var (
		outPath      string
		asJSON       bool
		withProgress bool
		useSegmenter bool
		logLevel     string
	)

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Reflow a raw transcript into readable prose",
		Long: "format reads a raw transcript from a file (or stdin when the " +
			"argument is omitted or \"-\") and prints the reflowed text. With " +
			"--json the result is printed as a single JSON object; with " +
			"--progress, progress events are streamed to stdout as JSON lines.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}

			reflowCfg, err := loadReflowConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("segmenter") {
				reflowCfg.UseSegmenter = useSegmenter
			}

			log := logger.New(logLevel)
			opts := []reflow.Option{reflow.WithLogger(log)}
			if reflowCfg.UseSegmenter {
				opts = append(opts, reflow.WithSegmenter(segment.NewProse()))
			}
			if withProgress {
				opts = append(opts, reflow.WithReporter(progress.New(os.Stdout, log)))
			}

			engine, err := reflow.New(reflowCfg, opts...)
			if err != nil {
				return err
			}

			res := engine.Format(cmd.Context(), text)
			if !res.Success {
				log.Warn(cmd.Context(), "Reflow degraded to original text: %s", res.Err)
			}

			return writeResult(res, outPath, asJSON)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as a JSON object")
	cmd.Flags().BoolVar(&withProgress, "progress", false, "Stream progress events to stdout as JSON lines")
	cmd.Flags().BoolVar(&useSegmenter, "segmenter", false, "Use the statistical sentence segmenter")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	return cmd
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func writeResult(res reflow.Result, outPath string, asJSON bool) error {
	var payload []byte
	if asJSON {
		data, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		payload = append(data, '\n')
	} else {
		payload = append([]byte(res.Text), '\n')
	}

	if outPath == "" {
		_, err := os.Stdout.Write(payload)
		return err
	}
	return os.WriteFile(outPath, payload, 0644)
}
