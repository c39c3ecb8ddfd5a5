package summarizer

import "context"

// Summarizer reads formatted transcripts and produces LLM-generated
// markdown summaries plus docx renditions.
type Summarizer interface {
	SummarizeAll(ctx context.Context, transcriptDir, destDir string) error
}
