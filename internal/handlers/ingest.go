package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"textbook-ai/internal/contextutil"
	"textbook-ai/internal/ingest"
)

// IngestHandler handles admin document ingestion requests.
type IngestHandler struct {
	pipeline *ingest.Pipeline
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(pipeline *ingest.Pipeline) *IngestHandler {
	return &IngestHandler{pipeline: pipeline}
}

// IngestRequest represents the ingestion request payload.
type IngestRequest struct {
	Documents []ingest.IngestDocument `json:"documents"`
}

// IngestResponse represents the ingestion response payload.
type IngestResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ServeHTTP embeds and indexes pre-chunked documents.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, "At least one document is required")
		return
	}

	count, err := h.pipeline.AddDocuments(ctx, req.Documents)
	if err != nil {
		logger.ErrorContext(ctx, "failed to ingest documents", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to ingest documents")
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		Message: fmt.Sprintf("Successfully ingested %d documents", count),
		Count:   count,
	})
}
