package ingest

import (
	"strings"
	"testing"
)

func TestSplitText_ShortText(t *testing.T) {
	text := "A short document that fits in one chunk."
	chunks := SplitText(text, DefaultChunkSize, DefaultChunkOverlap)

	if len(chunks) != 1 {
		t.Fatalf("SplitText() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("SplitText() = %q, want %q", chunks[0], text)
	}
}

func TestSplitText_EmptyText(t *testing.T) {
	chunks := SplitText("", DefaultChunkSize, DefaultChunkOverlap)
	if len(chunks) != 0 {
		t.Errorf("SplitText(empty) returned %d chunks, want 0", len(chunks))
	}
}

func TestSplitText_LongTextChunkCount(t *testing.T) {
	// 2500 characters with no sentence or paragraph boundaries: windows start
	// at 0, 800, and 1600, and the third window reaches the end of the text.
	text := strings.Repeat("a", 2500)
	chunks := SplitText(text, 1000, 200)

	if len(chunks) != 3 {
		t.Fatalf("SplitText() returned %d chunks, want 3", len(chunks))
	}
	if len(chunks[0]) != 1000 {
		t.Errorf("first chunk length = %d, want 1000", len(chunks[0]))
	}
	if len(chunks[1]) != 1000 {
		t.Errorf("second chunk length = %d, want 1000", len(chunks[1]))
	}
	if len(chunks[2]) != 900 {
		t.Errorf("final chunk length = %d, want 900", len(chunks[2]))
	}
}

func TestSplitText_Overlap(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := SplitText(text, 1000, 200)

	if len(chunks) < 2 {
		t.Fatalf("SplitText() returned %d chunks, want at least 2", len(chunks))
	}
	// Consecutive windows share their trailing/leading 200 characters.
	tail := chunks[0][len(chunks[0])-200:]
	head := chunks[1][:200]
	if tail != head {
		t.Error("consecutive chunks do not overlap by 200 characters")
	}
}

func TestSplitText_SentenceBoundary(t *testing.T) {
	// A period past the window midpoint truncates the window just after it.
	text := strings.Repeat("a", 15) + "." + strings.Repeat("b", 14)
	chunks := SplitText(text, 20, 5)

	if len(chunks) != 2 {
		t.Fatalf("SplitText() returned %d chunks, want 2", len(chunks))
	}
	want := strings.Repeat("a", 15) + "."
	if chunks[0] != want {
		t.Errorf("first chunk = %q, want %q", chunks[0], want)
	}
	if !strings.HasSuffix(chunks[1], strings.Repeat("b", 14)) {
		t.Errorf("final chunk %q does not cover the remainder", chunks[1])
	}
}

func TestSplitText_BlankLineBoundary(t *testing.T) {
	text := strings.Repeat("a", 15) + "\n\n" + strings.Repeat("b", 10)
	chunks := SplitText(text, 20, 5)

	if len(chunks) != 2 {
		t.Fatalf("SplitText() returned %d chunks, want 2", len(chunks))
	}
	// Chunk text is trimmed, so the kept newline disappears.
	if chunks[0] != strings.Repeat("a", 15) {
		t.Errorf("first chunk = %q, want 15 a's", chunks[0])
	}
}

func TestSplitText_BoundaryBeforeMidpointIgnored(t *testing.T) {
	// A period in the first half of the window must not truncate it.
	text := strings.Repeat("a", 5) + "." + strings.Repeat("b", 24)
	chunks := SplitText(text, 20, 5)

	if len(chunks) == 0 {
		t.Fatal("SplitText() returned no chunks")
	}
	if len(chunks[0]) != 20 {
		t.Errorf("first chunk length = %d, want full window of 20", len(chunks[0]))
	}
}

func TestSplitText_InvalidParamsUseDefaults(t *testing.T) {
	text := strings.Repeat("a", 100)

	for _, tt := range []struct {
		name          string
		size, overlap int
	}{
		{"zero size", 0, 200},
		{"negative overlap", 1000, -1},
		{"overlap not below size", 500, 500},
	} {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(text, tt.size, tt.overlap)
			if len(chunks) != 1 {
				t.Errorf("SplitText() returned %d chunks, want 1", len(chunks))
			}
		})
	}
}

func TestChunkDocument_Metadata(t *testing.T) {
	doc := Document{
		Text: strings.Repeat("a", 2500),
		Meta: map[string]string{"source": "ch1/intro.md", "title": "Intro"},
	}

	chunks := ChunkDocument(doc, 1000, 200)
	if len(chunks) != 3 {
		t.Fatalf("ChunkDocument() returned %d chunks, want 3", len(chunks))
	}

	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Errorf("chunk %d: Index = %d", i, chunk.Index)
		}
		if chunk.Total != 3 {
			t.Errorf("chunk %d: Total = %d, want 3", i, chunk.Total)
		}
		if got := chunk.Meta["chunk_index"]; got != i {
			t.Errorf("chunk %d: meta chunk_index = %v", i, got)
		}
		if got := chunk.Meta["total_chunks"]; got != 3 {
			t.Errorf("chunk %d: meta total_chunks = %v", i, got)
		}
		if got := chunk.Meta["source"]; got != "ch1/intro.md" {
			t.Errorf("chunk %d: meta source = %v", i, got)
		}
	}

	// Per-chunk metadata maps must be independent copies.
	chunks[0].Meta["source"] = "mutated"
	if chunks[1].Meta["source"] != "ch1/intro.md" {
		t.Error("chunk metadata maps share storage")
	}
}

func TestChunkDocument_EmptyDocument(t *testing.T) {
	chunks := ChunkDocument(Document{Text: "", Meta: map[string]string{"source": "x.md"}}, 1000, 200)
	if len(chunks) != 0 {
		t.Errorf("ChunkDocument(empty) returned %d chunks, want 0", len(chunks))
	}
}

func TestTitleFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"robot-kinematics.md", "Robot Kinematics"},
		{"ch1/intro-to-ros.md", "Intro To Ros"},
		{"overview.md", "Overview"},
		{"deeply/nested/path/sensors.md", "Sensors"},
		{"no-extension", "No Extension"},
	}

	for _, tt := range tests {
		if got := TitleFromPath(tt.path); got != tt.want {
			t.Errorf("TitleFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
