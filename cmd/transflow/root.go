package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/transflow/transflow/internal/config"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transflow",
		Short: "Audio transcription pipeline with text reflow",
		Long: "transflow watches a folder for audio files, transcribes them with " +
			"whisper.cpp, and reflows the raw transcript into readable prose.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "Path to the YAML config file")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newFormatCmd())
	cmd.AddCommand(newSummarizeCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// loadReflowConfig returns the reflow section of the config file, or the
// built-in defaults when the file does not exist. The format command works
// standalone, without the whisper and paths sections a full pipeline needs.
func loadReflowConfig() (config.ReflowConfig, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		return config.DefaultReflow(), nil
	}

	return config.LoadReflow(cfgFile)
}
