package handlers

import (
	"encoding/json"
	"net/http"

	"textbook-ai/internal/contextutil"
	"textbook-ai/internal/rag"
)

// TranslateHandler handles translation requests.
type TranslateHandler struct {
	engine rag.Engine
}

// NewTranslateHandler creates a new TranslateHandler.
func NewTranslateHandler(engine rag.Engine) *TranslateHandler {
	return &TranslateHandler{engine: engine}
}

// TranslateRequest represents the translation request payload.
type TranslateRequest struct {
	Content string `json:"content"`
}

// TranslateResponse represents the translation response payload.
type TranslateResponse struct {
	TranslatedContent string `json:"translated_content"`
}

// ServeHTTP translates page content to Urdu. No authentication required.
func (h *TranslateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	translated, err := h.engine.Translate(ctx, req.Content)
	if err != nil {
		logger.ErrorContext(ctx, "failed to translate content", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to translate content")
		return
	}

	writeJSON(w, http.StatusOK, TranslateResponse{TranslatedContent: translated})
}
