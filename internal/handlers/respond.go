package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"textbook-ai/internal/auth"
	"textbook-ai/internal/contextutil"
	"textbook-ai/internal/storage"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// bearerToken extracts the bearer token from the Authorization header, or ""
// when the header is absent or not a bearer credential.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// currentUser resolves the request's bearer token to a user, or nil for
// anonymous requests. An invalid or expired token is treated as anonymous;
// endpoints that require authentication must check for nil.
func currentUser(r *http.Request, authService *auth.Service) *storage.User {
	token := bearerToken(r)
	if token == "" {
		return nil
	}

	user, err := authService.UserFromToken(r.Context(), token)
	if err != nil {
		logger := contextutil.LoggerFromContext(r.Context())
		logger.DebugContext(r.Context(), "bearer token rejected", "error", err)
		return nil
	}
	return user
}
