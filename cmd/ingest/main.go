package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"textbook-ai/internal/config"
	"textbook-ai/internal/ingest"
	"textbook-ai/internal/llm"
	"textbook-ai/internal/vectorstore"
)

func main() {
	docsDir := flag.String("dir", "./docs", "directory of markdown files to ingest")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	ctx := context.Background()

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbeddingDimension); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection)

	embedder := llm.NewEmbeddingsClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	pipeline := ingest.NewPipeline(embedder, vectorStore, cfg.QdrantCollection)

	slog.Info("Starting ingestion", "dir", *docsDir)
	total, err := pipeline.IngestDir(ctx, *docsDir)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}
	slog.Info("Ingestion complete", "chunks", total)
}
