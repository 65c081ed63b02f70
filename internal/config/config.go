package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIModel        string
	EmbeddingModel     string
	EmbeddingDimension int
	QdrantURL          string
	QdrantAPIKey       string
	QdrantCollection   string
	DBPath             string
	AuthSecret         string
	FrontendURL        string
	APIPort            string
	RateLimitRPS       float64
	RateLimitBurst     int
	LogLevel           slog.Level
	LogFormat          string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantCollection: getEnv("QDRANT_COLLECTION_NAME", "physical_ai_textbook"),
		DBPath:           getEnv("DB_PATH", "./data/textbook-ai.db"),
		AuthSecret:       os.Getenv("AUTH_SECRET"),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:3000"),
		APIPort:          getEnv("API_PORT", "8000"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	// Parse EMBEDDING_DIMENSION
	// Note: This must match the output vector size of the embedding model.
	// For text-embedding-3-small this is 1536 dimensions. If the dimension
	// changes, the Qdrant collection must be recreated.
	dimensionStr := getEnv("EMBEDDING_DIMENSION", "1536")
	dimension, err := strconv.Atoi(dimensionStr)
	if err != nil {
		return nil, fmt.Errorf("EMBEDDING_DIMENSION must be a valid integer: %w", err)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIMENSION must be greater than 0")
	}
	cfg.EmbeddingDimension = dimension

	// Parse rate limiting settings. RATE_LIMIT_RPS of 0 disables rate limiting.
	rpsStr := getEnv("RATE_LIMIT_RPS", "10")
	rps, err := strconv.ParseFloat(rpsStr, 64)
	if err != nil || rps < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be a non-negative number")
	}
	cfg.RateLimitRPS = rps

	burstStr := getEnv("RATE_LIMIT_BURST", "30")
	burst, err := strconv.Atoi(burstStr)
	if err != nil || burst < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be a non-negative integer")
	}
	cfg.RateLimitBurst = burst

	// Parse LOG_LEVEL
	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	// Validate required fields
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}

	// Create the data directory if it doesn't exist (for the SQLite file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// AllowedOrigins returns the CORS origins permitted to call the API.
// Local development origins are always included alongside the configured frontend.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	for _, o := range origins {
		if o == c.FrontendURL {
			return origins
		}
	}
	return append(origins, c.FrontendURL)
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
