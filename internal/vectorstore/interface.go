package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks textbook-ai/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with its payload. The payload carries the
// chunk text under the "text" key alongside the chunk metadata.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// SearchResult represents a single hit from a similarity search. Meta holds
// the stored payload without the "text" key.
type SearchResult struct {
	Text  string
	Score float32
	Meta  map[string]any
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// CollectionExists reports whether the named collection exists. An error
	// means the probe itself failed and must not be read as "not found".
	CollectionExists(ctx context.Context, collection string) (bool, error)

	// EnsureCollection creates the collection if it does not exist. Idempotent.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// Upsert inserts or overwrites points by id.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the k nearest points by cosine similarity, ordered by
	// descending score.
	Search(ctx context.Context, collection string, vector []float32, k int) ([]SearchResult, error)
}
