package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"textbook-ai/internal/auth"
	"textbook-ai/internal/contextutil"
	"textbook-ai/internal/rag"
	"textbook-ai/internal/storage"
)

// ChatHandler handles retrieval-augmented chat requests.
type ChatHandler struct {
	engine  rag.Engine
	auth    *auth.Service
	history storage.HistoryStore
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine rag.Engine, authService *auth.Service, history storage.HistoryStore) *ChatHandler {
	return &ChatHandler{
		engine:  engine,
		auth:    authService,
		history: history,
	}
}

// ChatRequest represents the chat request payload.
type ChatRequest struct {
	Question     string `json:"question"`
	SelectedText string `json:"selected_text,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
}

// ChatResponse represents the chat response payload.
type ChatResponse struct {
	Answer    string       `json:"answer"`
	Sources   []rag.Source `json:"sources"`
	SessionID string       `json:"session_id"`
}

// ServeHTTP answers a question with retrieval-augmented generation.
// Anonymous requests are allowed; a valid bearer token attaches the user's
// experience profile to the prompt. Each exchange is appended to the chat
// history log; a failed log write does not fail the request.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	user := currentUser(r, h.auth)
	var profile *rag.Profile
	if user != nil {
		profile = &rag.Profile{
			SoftwareExperience: user.SoftwareExperience,
			HardwareExperience: user.HardwareExperience,
		}
	}

	answer, err := h.engine.Ask(ctx, req.Question, req.SelectedText, profile)
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to generate answer")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	record := &storage.ChatRecord{
		SessionID:   sessionID,
		Question:    req.Question,
		Answer:      answer.Answer,
		ContextUsed: marshalSources(answer.Sources),
	}
	if user != nil {
		record.UserID = &user.ID
	}
	if err := h.history.Insert(ctx, record); err != nil {
		// The answer was generated; losing the log entry is not worth a 500.
		logger.ErrorContext(ctx, "failed to append chat history", "error", err)
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Answer:    answer.Answer,
		Sources:   answer.Sources,
		SessionID: sessionID,
	})
}

// marshalSources renders sources as JSON for the history log.
func marshalSources(sources []rag.Source) string {
	data, err := json.Marshal(sources)
	if err != nil {
		return "[]"
	}
	return string(data)
}
