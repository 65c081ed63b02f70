package ingest

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks textbook-ai/internal/ingest Embedder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"textbook-ai/internal/contextutil"
	"textbook-ai/internal/vectorstore"
)

// Embedder maps texts to fixed-length vectors. Implemented by llm.EmbeddingsClient.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// IngestDocument is a pre-chunked document submitted through the admin API.
type IngestDocument struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Pipeline orchestrates ingestion: chunk, embed, upsert into the vector store.
// Ingestion is a sequential batch job with no internal parallelism; an
// interrupted run leaves a partial index, but deterministic point ids make
// re-running it converge rather than duplicate.
type Pipeline struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string
	chunkSize  int
	overlap    int
}

// NewPipeline creates a new ingestion pipeline with default chunking parameters.
func NewPipeline(embedder Embedder, store vectorstore.VectorStore, collection string) *Pipeline {
	return &Pipeline{
		embedder:   embedder,
		store:      store,
		collection: collection,
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
	}
}

// IngestDir loads every markdown file under dir, chunks it, and indexes the
// chunks. Returns the number of chunks indexed.
func (p *Pipeline) IngestDir(ctx context.Context, dir string) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := NewLoader(dir).LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load docs: %w", err)
	}
	logger.InfoContext(ctx, "loaded documents", "dir", dir, "count", len(docs))

	total := 0
	for _, doc := range docs {
		chunks := ChunkDocument(doc, p.chunkSize, p.overlap)
		if len(chunks) == 0 {
			logger.WarnContext(ctx, "document produced no chunks", "source", doc.Meta["source"])
			continue
		}
		if err := p.IndexChunks(ctx, chunks); err != nil {
			return total, fmt.Errorf("failed to index %s: %w", doc.Meta["source"], err)
		}
		total += len(chunks)
	}

	logger.InfoContext(ctx, "ingestion completed", "documents", len(docs), "chunks", total)
	return total, nil
}

// IndexChunks embeds each chunk and upserts the resulting points in one batch.
// Embedding is sequential, one chunk at a time.
func (p *Pipeline) IndexChunks(ctx context.Context, chunks []Chunk) error {
	points := make([]vectorstore.Point, 0, len(chunks))
	for _, chunk := range chunks {
		vectors, err := p.embedder.EmbedTexts(ctx, []string{chunk.Text})
		if err != nil {
			return fmt.Errorf("failed to embed chunk: %w", err)
		}
		if len(vectors) == 0 {
			return fmt.Errorf("no embedding returned for chunk")
		}

		payload := make(map[string]any, len(chunk.Meta)+1)
		for k, v := range chunk.Meta {
			payload[k] = v
		}
		payload["text"] = chunk.Text

		points = append(points, vectorstore.Point{
			ID:      PointID(chunk.Meta),
			Vector:  vectors[0],
			Payload: payload,
		})
	}

	return p.store.Upsert(ctx, p.collection, points)
}

// AddDocuments indexes pre-chunked documents submitted through the admin API.
// Returns the number of points written.
func (p *Pipeline) AddDocuments(ctx context.Context, docs []IngestDocument) (int, error) {
	chunks := make([]Chunk, 0, len(docs))
	for _, doc := range docs {
		meta := doc.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		chunks = append(chunks, Chunk{Text: doc.Text, Meta: meta})
	}

	if err := p.IndexChunks(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// PointID derives the vector store id for a chunk. Chunks carrying a source
// and chunk_index get a deterministic UUID so re-ingestion overwrites the
// prior point instead of appending a duplicate; anything else gets a random id.
func PointID(meta map[string]any) string {
	source, ok := meta["source"].(string)
	if !ok || source == "" {
		return uuid.New().String()
	}
	index, ok := meta["chunk_index"]
	if !ok {
		return uuid.New().String()
	}

	name := fmt.Sprintf("textbook-ai/%s#%v", source, index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
