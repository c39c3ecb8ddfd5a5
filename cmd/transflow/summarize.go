package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/transflow/transflow/internal/logger"
	"github.com/transflow/transflow/internal/summarizer"
)

func newSummarizeCmd() *cobra.Command {
	var destDir string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Generate Gemini summaries for formatted transcripts",
		Long: "summarize reads the formatted transcripts in the output folder " +
			"and writes a markdown summary plus docx renditions for each, " +
			"skipping transcripts that already have one.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log := logger.New(cfg.Logging.Level)

			s, err := summarizer.New(cfg.Gemini, log)
			if err != nil {
				return err
			}

			if destDir == "" {
				destDir = filepath.Join(cfg.Paths.Output, "summaries")
			}
			return s.SummarizeAll(cmd.Context(), cfg.Paths.Output, destDir)
		},
	}

	cmd.Flags().StringVar(&destDir, "dest", "", "Destination folder for summaries (default <output>/summaries)")

	return cmd
}
