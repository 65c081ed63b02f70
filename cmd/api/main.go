package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"textbook-ai/internal/auth"
	"textbook-ai/internal/config"
	"textbook-ai/internal/http"
	"textbook-ai/internal/ingest"
	"textbook-ai/internal/llm"
	"textbook-ai/internal/rag"
	"textbook-ai/internal/storage"
	"textbook-ai/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	userRepo := storage.NewUserRepo(db)
	historyRepo := storage.NewHistoryRepo(db)
	personalizationRepo := storage.NewPersonalizationRepo(db)

	// Initialize Qdrant vector store
	ctx := context.Background()
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbeddingDimension); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.EmbeddingDimension)

	// Create LLM clients
	embedder := llm.NewEmbeddingsClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	llmClient := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)

	// Create the retrieval and generation engine
	retriever := rag.NewRetriever(embedder, vectorStore, cfg.QdrantCollection)
	engine := rag.NewEngine(retriever, llmClient)
	slog.Info("RAG engine initialized", "model", cfg.OpenAIModel)

	// Create the ingestion pipeline for the admin endpoint
	pipeline := ingest.NewPipeline(embedder, vectorStore, cfg.QdrantCollection)

	// Create auth service
	authService := auth.NewService(userRepo, cfg.AuthSecret)

	// Create router with dependencies
	deps := &http.Deps{
		Engine:           engine,
		Auth:             authService,
		History:          historyRepo,
		Personalizations: personalizationRepo,
		Pipeline:         pipeline,
		VectorStore:      vectorStore,
		Collection:       cfg.QdrantCollection,
		AllowedOrigins:   cfg.AllowedOrigins(),
		RateLimit:        cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.OpenAIBaseURL, "model", cfg.OpenAIModel)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
