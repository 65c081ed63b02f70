package handlers

import (
	"encoding/json"
	"net/http"

	"textbook-ai/internal/auth"
	"textbook-ai/internal/contextutil"
	"textbook-ai/internal/rag"
	"textbook-ai/internal/storage"
)

// PersonalizeHandler handles content personalization requests.
type PersonalizeHandler struct {
	engine           rag.Engine
	auth             *auth.Service
	personalizations storage.PersonalizationStore
}

// NewPersonalizeHandler creates a new PersonalizeHandler.
func NewPersonalizeHandler(engine rag.Engine, authService *auth.Service, personalizations storage.PersonalizationStore) *PersonalizeHandler {
	return &PersonalizeHandler{
		engine:           engine,
		auth:             authService,
		personalizations: personalizations,
	}
}

// PersonalizeRequest represents the personalization request payload.
type PersonalizeRequest struct {
	Content  string `json:"content"`
	PagePath string `json:"page_path"`
}

// PersonalizeResponse represents the personalization response payload.
type PersonalizeResponse struct {
	PersonalizedContent string `json:"personalized_content"`
}

// ServeHTTP rewrites page content for the authenticated user's experience
// levels. Authentication is required: the profile is the whole point here.
func (h *PersonalizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	user := currentUser(r, h.auth)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req PersonalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	profile := rag.Profile{
		SoftwareExperience: user.SoftwareExperience,
		HardwareExperience: user.HardwareExperience,
	}

	personalized, err := h.engine.Personalize(ctx, req.Content, profile)
	if err != nil {
		logger.ErrorContext(ctx, "failed to personalize content", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to personalize content")
		return
	}

	record := &storage.PersonalizationRecord{
		UserID:              user.ID,
		PagePath:            req.PagePath,
		OriginalContent:     req.Content,
		PersonalizedContent: personalized,
		Language:            "en",
	}
	if err := h.personalizations.Insert(ctx, record); err != nil {
		// The rewrite succeeded; losing the log entry is not worth a 500.
		logger.ErrorContext(ctx, "failed to append personalization record", "error", err)
	}

	writeJSON(w, http.StatusOK, PersonalizeResponse{PersonalizedContent: personalized})
}
