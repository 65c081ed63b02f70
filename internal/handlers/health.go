package handlers

import (
	"context"
	"net/http"
	"time"

	"textbook-ai/internal/vectorstore"
)

// Version is the API version reported by the root and health endpoints.
const Version = "1.0.0"

// RootHandler serves the service banner.
type RootHandler struct{}

// ServeHTTP returns the service banner.
func (RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Physical AI Textbook API",
		"status":  "running",
		"version": Version,
	})
}

// HealthHandler reports the health of the system and its dependencies.
type HealthHandler struct {
	vectorStore        vectorstore.VectorStore
	collection         string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(vectorStore vectorstore.VectorStore, collection string) *HealthHandler {
	return &HealthHandler{
		vectorStore:        vectorStore,
		collection:         collection,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

// ServeHTTP probes the vector store and reports overall health.
// Returns 200 when healthy, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]string{},
	}

	exists, err := h.vectorStore.CollectionExists(ctx, h.collection)
	switch {
	case err != nil:
		resp.Checks["vector_store"] = "error"
		resp.Issues = append(resp.Issues, "vector store unreachable: "+err.Error())
		resp.Status = "unhealthy"
	case !exists:
		resp.Checks["vector_store"] = "missing_collection"
		resp.Issues = append(resp.Issues, "collection "+h.collection+" does not exist")
		resp.Status = "degraded"
	default:
		resp.Checks["vector_store"] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
