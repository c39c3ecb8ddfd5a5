package reflow

import "strings"

// PlanChunks groups sentences into byte-bounded chunks without ever splitting
// a sentence. Packing is greedy: a sentence that would push the current chunk
// past maxBytes starts a new one. A sentence whose own encoded length exceeds
// maxBytes is emitted alone in its own chunk rather than truncated, so every
// chunk holds at least one sentence and only that degenerate case may go over
// budget. maxBytes <= 0 disables chunking and returns a single chunk.
func PlanChunks(sentences []string, maxBytes int) [][]string {
	if len(sentences) == 0 {
		return nil
	}
	if maxBytes <= 0 {
		return [][]string{sentences}
	}

	var chunks [][]string
	var cur []string
	curBytes := 0

	for _, s := range sentences {
		if len(cur) > 0 && curBytes+len(s) > maxBytes {
			chunks = append(chunks, cur)
			cur = nil
			curBytes = 0
		}
		cur = append(cur, s)
		curBytes += len(s)
	}

	return append(chunks, cur)
}

// ChunkText reassembles a chunk into the text span handed to the external
// segmenter. Sentences carry their own punctuation, so no separator is added.
func ChunkText(chunk []string) string {
	return strings.Join(chunk, "")
}
