package rag

// Profile holds a user's experience levels, used only to bias prompt phrasing.
// Levels are categorical: "beginner", "intermediate", or "advanced".
type Profile struct {
	SoftwareExperience string `json:"software_experience"`
	HardwareExperience string `json:"hardware_experience"`
}

// Source is the provenance record for one context chunk that informed an answer.
type Source struct {
	// Text is a display excerpt of the chunk (first 200 characters).
	Text string `json:"text"`
	// Score is the cosine similarity of the chunk to the query.
	Score float32 `json:"score"`
	// Metadata is the chunk's stored metadata (source path, title, chunk_index, ...).
	Metadata map[string]any `json:"metadata"`
}

// Answer is the result of a retrieval-augmented question.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
