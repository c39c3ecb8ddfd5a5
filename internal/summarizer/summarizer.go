package summarizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"google.golang.org/genai"
)

const summaryPrompt = `あなたは講義や会議の音声書き起こしを分析する専門家です。以下の書き起こし文をもとに、詳細な要約を日本語で書いてください。

要件:
- 全体のテーマを一文で述べる見出しから始める
- 主要な話題をすべて、登場した順に列挙する
- 各話題について、重要な注意点や補足を含めて詳しく説明する
- 専門用語が出てきた場合は、英語の原語を括弧内に残す
- markdown形式を使う: 見出し、箇条書き、重要なキーワードは太字
- 最後に、強調すべき情報があれば「重要事項」の節を追加する

書き起こし文:
---
%s
---`

// SummarizeAll reads formatted transcripts (.txt) from transcriptDir, calls
// Gemini for each, and writes a .md summary plus .docx renditions of both
// the summary and the transcript into destDir. Transcripts that already
// have a summary are skipped, so the operation is safe to re-run.
func (s *implSummarizer) SummarizeAll(ctx context.Context, transcriptDir, destDir string) error {
	transcripts, err := s.discoverTranscripts(transcriptDir)
	if err != nil {
		return fmt.Errorf("discover transcripts: %w", err)
	}

	if len(transcripts) == 0 {
		s.logger.Info(ctx, "No transcripts found in %s", transcriptDir)
		return nil
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	s.logger.Info(ctx, "Found %d transcripts to summarize", len(transcripts))

	successCount := 0
	failCount := 0

	for i, txtPath := range transcripts {
		name := strings.TrimSuffix(filepath.Base(txtPath), ".txt")
		mdPath := filepath.Join(destDir, name+".md")

		if _, err := os.Stat(mdPath); err == nil {
			s.logger.Debug(ctx, "Skipping %s: summary already exists", name)
			continue
		}

		s.logger.Info(ctx, "[%d/%d] Summarizing: %s", i+1, len(transcripts), name)

		content, err := os.ReadFile(txtPath)
		if err != nil {
			s.logger.Error(ctx, "Failed to read %s: %v", txtPath, err)
			failCount++
			continue
		}

		transcript := s.fitToBudget(ctx, name, string(content))

		summary, err := s.callGemini(ctx, transcript)
		if err != nil {
			s.logger.Error(ctx, "Failed to summarize %s: %v", name, err)
			failCount++
			continue
		}

		md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
			name,
			time.Now().Format("2006-01-02 15:04"),
			strings.TrimSpace(summary),
		)

		if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
			s.logger.Error(ctx, "Failed to write %s: %v", mdPath, err)
			failCount++
			continue
		}

		if err := markdownToDocx(name, md, filepath.Join(destDir, name+"_summary.docx")); err != nil {
			s.logger.Warn(ctx, "Failed to write summary docx for %s: %v", name, err)
		}
		if err := transcriptToDocx(name, string(content), filepath.Join(destDir, name+".docx")); err != nil {
			s.logger.Warn(ctx, "Failed to write transcript docx for %s: %v", name, err)
		}

		s.logger.Info(ctx, "[DONE] %s -> %s", name, mdPath)
		successCount++
	}

	s.logger.Info(ctx, "Summary complete: %d success, %d failed", successCount, failCount)
	return nil
}

// fitToBudget trims the transcript when it exceeds the model's input token
// budget, keeping the head.
func (s *implSummarizer) fitToBudget(ctx context.Context, name, transcript string) string {
	if s.maxInputTokens <= 0 {
		return transcript
	}
	count := s.counter.Count(transcript)
	if count <= s.maxInputTokens {
		return transcript
	}
	s.logger.Warn(ctx, "Transcript %s exceeds token budget (%d > %d), truncating",
		name, count, s.maxInputTokens)
	return s.counter.Truncate(transcript, s.maxInputTokens)
}

// callGemini sends the transcript to Gemini and returns the summary text.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, transcript string) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt, transcript)

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key := s.apiKeys[s.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", s.currentKey+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) rotateKey() {
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}

func (s *implSummarizer) discoverTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.ToLower(filepath.Ext(e.Name())) == ".txt" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
