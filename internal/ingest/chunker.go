package ingest

import (
	"path/filepath"
	"strings"
	"unicode"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the look-back distance between consecutive windows.
	DefaultChunkOverlap = 200
)

// Chunk is a bounded segment of a source document, carrying positional and
// provenance metadata for indexing.
type Chunk struct {
	Text  string
	Index int
	Total int
	Meta  map[string]any
}

// SplitText splits text into overlapping chunks of roughly size characters.
// Each window is truncated at the last sentence terminator or blank line when
// that boundary lies past the window midpoint, so chunks prefer semantic
// boundaries over raw length. The next window starts overlap characters before
// the end of the previous one. A window reaching the end of the text is final.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}

	runes := []rune(text)
	var chunks []string
	start := 0

	for start < len(runes) {
		sliceEnd := start + size
		if sliceEnd > len(runes) {
			sliceEnd = len(runes)
		}
		window := runes[start:sliceEnd]

		// end is tracked unclamped so the advance matches the nominal window
		// even when the final window is short.
		end := start + size

		if sliceEnd < len(runes) {
			if boundary := lastBoundary(window); boundary > size/2 {
				window = window[:boundary+1]
				end = start + boundary + 1
			}
		}

		chunks = append(chunks, strings.TrimSpace(string(window)))

		if sliceEnd == len(runes) {
			// The window covered the remainder of the text.
			break
		}

		next := end - overlap
		if next <= start {
			// No forward progress is possible; stop rather than loop.
			break
		}
		start = next
	}

	return chunks
}

// lastBoundary returns the index of the best split point within the window:
// the later of the last '.' and the last blank line. Returns -1 when neither
// is present. For a blank line the index points at the first of the two
// newlines, matching the cut-after-boundary rule used by SplitText.
func lastBoundary(window []rune) int {
	lastPeriod := -1
	lastBlank := -1
	for i := len(window) - 1; i >= 0; i-- {
		if lastPeriod == -1 && window[i] == '.' {
			lastPeriod = i
		}
		if lastBlank == -1 && i > 0 && window[i] == '\n' && window[i-1] == '\n' {
			lastBlank = i - 1
		}
		if lastPeriod != -1 && lastBlank != -1 {
			break
		}
	}
	if lastPeriod > lastBlank {
		return lastPeriod
	}
	return lastBlank
}

// ChunkDocument splits a document's text and attaches per-chunk metadata:
// every key from the document plus chunk_index and total_chunks.
func ChunkDocument(doc Document, size, overlap int) []Chunk {
	pieces := SplitText(doc.Text, size, overlap)

	chunks := make([]Chunk, 0, len(pieces))
	for i, text := range pieces {
		meta := make(map[string]any, len(doc.Meta)+2)
		for k, v := range doc.Meta {
			meta[k] = v
		}
		meta["chunk_index"] = i
		meta["total_chunks"] = len(pieces)

		chunks = append(chunks, Chunk{
			Text:  text,
			Index: i,
			Total: len(pieces),
			Meta:  meta,
		})
	}
	return chunks
}

// TitleFromPath derives a human-readable title from a file path:
// base name without the .md extension, hyphens replaced by spaces, Title Case.
func TitleFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".md")
	name = strings.ReplaceAll(name, "-", " ")

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
