package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Separator   SeparatorConfig   `yaml:"separator"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	Reflow      ReflowConfig      `yaml:"reflow"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

// SeparatorConfig controls the vocal isolation stage (demucs CLI).
type SeparatorConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Model      string `yaml:"model"`
	TwoStems   string `yaml:"two_stems"`
	Enabled    bool   `yaml:"enabled"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

// ReflowConfig carries every tunable of the text reflow engine. The defaults
// are tuned for Japanese transcripts; other languages supply their own tables.
type ReflowConfig struct {
	MaxChunkBytes         int      `yaml:"max_chunk_bytes"`
	LengthDeltaThreshold  int      `yaml:"length_delta_threshold"`
	MinLengthForDeltaRule int      `yaml:"min_length_for_delta_rule"`
	TerminalMarks         string   `yaml:"terminal_marks"`
	DefaultTerminal       string   `yaml:"default_terminal"`
	DialogueMarkers       []string `yaml:"dialogue_markers"`
	TopicShiftMarkers     []string `yaml:"topic_shift_markers"`
	FillerWords           []string `yaml:"filler_words"`
	UnitWords             []string `yaml:"unit_words"`
	SpeakerPattern        string   `yaml:"speaker_pattern"`
	SegmenterTimeoutMS    int      `yaml:"segmenter_timeout_ms"`
	UseSegmenter          bool     `yaml:"use_segmenter"`
}

type GeminiConfig struct {
	Model          string   `yaml:"model"`
	APIKeys        []string `yaml:"api_keys"`
	MaxInputTokens int      `yaml:"max_input_tokens"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads a YAML config file, applies defaults, and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadReflow reads only the reflow section of a YAML config file. Unlike
// Load it does not require the whisper and paths sections, so formatting can
// run standalone with a partial config.
func LoadReflow(path string) (ReflowConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReflowConfig{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ReflowConfig{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Reflow.Validate(); err != nil {
		return ReflowConfig{}, err
	}

	return cfg.Reflow, nil
}

func (c *Config) Validate() error {
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if c.Whisper.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if err := c.Reflow.Validate(); err != nil {
		return err
	}

	if c.Whisper.Language == "" {
		c.Whisper.Language = "ja"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Separator.BinaryPath == "" {
		c.Separator.BinaryPath = "demucs"
	}
	if c.Separator.Model == "" {
		c.Separator.Model = "htdemucs"
	}
	if c.Separator.TwoStems == "" {
		c.Separator.TwoStems = "vocals"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.MaxInputTokens == 0 {
		c.Gemini.MaxInputTokens = 200000
	}

	return nil
}

// Validate checks the reflow thresholds and fills the Japanese default
// tables for anything left unset.
func (r *ReflowConfig) Validate() error {
	if r.MaxChunkBytes < 0 {
		return fmt.Errorf("reflow.max_chunk_bytes must not be negative")
	}
	if r.LengthDeltaThreshold < 0 {
		return fmt.Errorf("reflow.length_delta_threshold must not be negative")
	}
	if r.MinLengthForDeltaRule < 0 {
		return fmt.Errorf("reflow.min_length_for_delta_rule must not be negative")
	}

	d := DefaultReflow()
	if r.MaxChunkBytes == 0 {
		r.MaxChunkBytes = d.MaxChunkBytes
	}
	if r.LengthDeltaThreshold == 0 {
		r.LengthDeltaThreshold = d.LengthDeltaThreshold
	}
	if r.MinLengthForDeltaRule == 0 {
		r.MinLengthForDeltaRule = d.MinLengthForDeltaRule
	}
	if r.TerminalMarks == "" {
		r.TerminalMarks = d.TerminalMarks
	}
	if r.DefaultTerminal == "" {
		r.DefaultTerminal = d.DefaultTerminal
	}
	if len(r.DialogueMarkers) == 0 {
		r.DialogueMarkers = d.DialogueMarkers
	}
	if len(r.TopicShiftMarkers) == 0 {
		r.TopicShiftMarkers = d.TopicShiftMarkers
	}
	if len(r.FillerWords) == 0 {
		r.FillerWords = d.FillerWords
	}
	if len(r.UnitWords) == 0 {
		r.UnitWords = d.UnitWords
	}
	if r.SpeakerPattern == "" {
		r.SpeakerPattern = d.SpeakerPattern
	}
	if r.SegmenterTimeoutMS == 0 {
		r.SegmenterTimeoutMS = d.SegmenterTimeoutMS
	}

	return nil
}

// DefaultReflow returns the reflow tables tuned for Japanese transcription
// output. The thresholds for the length-delta paragraph rule were chosen
// empirically for this register and are not assumed to generalize.
func DefaultReflow() ReflowConfig {
	return ReflowConfig{
		MaxChunkBytes:         35000,
		LengthDeltaThreshold:  20,
		MinLengthForDeltaRule: 15,
		TerminalMarks:         "。！？.!?",
		DefaultTerminal:       "。",
		DialogueMarkers: []string{
			"「", "『", "と言いました", "と答えました",
		},
		TopicShiftMarkers: []string{
			"ところで", "さて", "では", "それでは", "次に", "一方", "また",
		},
		FillerWords: []string{
			"あの", "えーと", "えっと", "まぁ", "あー", "えー", "んー", "そのー",
		},
		UnitWords: []string{
			"年", "月", "日", "時", "分", "秒", "円", "人", "個", "回",
		},
		SpeakerPattern:     `^([A-Z][A-Za-z0-9]{0,15}|[\p{Han}\p{Hiragana}\p{Katakana}]{1,8})[：:]`,
		SegmenterTimeoutMS: 10000,
	}
}
