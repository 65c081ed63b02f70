package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks textbook-ai/internal/rag Embedder

import (
	"context"
	"fmt"
	"strings"

	"textbook-ai/internal/contextutil"
	"textbook-ai/internal/vectorstore"
)

const (
	// DefaultSearchLimit is the chunk count for free-text retrieval.
	DefaultSearchLimit = 5
	// SelectionPoolSize is the candidate pool size for selection-constrained retrieval.
	SelectionPoolSize = 10
	// SelectionResultLimit is the result cap for selection-constrained retrieval.
	SelectionResultLimit = 3
)

// Embedder maps texts to fixed-length vectors. Implemented by llm.EmbeddingsClient.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever runs similarity searches against the vector store and produces
// ranked context sets for answer generation.
type Retriever struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string
}

// NewRetriever creates a new Retriever.
func NewRetriever(embedder Embedder, store vectorstore.VectorStore, collection string) *Retriever {
	return &Retriever{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// Search embeds a free-text query and returns the limit most similar chunks,
// ordered by descending similarity. No filtering is applied.
func (r *Retriever) Search(ctx context.Context, query string, limit int) ([]vectorstore.SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	vector, err := r.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := r.store.Search(ctx, r.collection, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	logger.InfoContext(ctx, "free-text retrieval completed", "limit", limit, "results", len(results))
	return results, nil
}

// SearchSelection retrieves context anchored on a user-highlighted passage.
// It embeds the selection, pulls a candidate pool near it, and keeps only
// candidates that contain the selection as a case-insensitive substring,
// truncated to limit in the pool's similarity order. The selection itself is
// the anchor, so lexical containment is the relevance signal here rather than
// re-scoring against the question. An empty filtered pool yields an empty
// result set; there is no fallback to free-text retrieval.
func (r *Retriever) SearchSelection(ctx context.Context, selectedText string, limit int) ([]vectorstore.SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if limit <= 0 {
		limit = SelectionResultLimit
	}

	vector, err := r.embedQuery(ctx, selectedText)
	if err != nil {
		return nil, err
	}

	pool, err := r.store.Search(ctx, r.collection, vector, SelectionPoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	needle := strings.ToLower(selectedText)
	filtered := make([]vectorstore.SearchResult, 0, limit)
	for _, candidate := range pool {
		if strings.Contains(strings.ToLower(candidate.Text), needle) {
			filtered = append(filtered, candidate)
		}
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	logger.InfoContext(ctx, "selection retrieval completed",
		"pool", len(pool), "matched", len(filtered), "limit", limit)
	return filtered, nil
}

// embedQuery embeds a single text and returns its vector.
func (r *Retriever) embedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := r.embedder.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}
	return vectors[0], nil
}
