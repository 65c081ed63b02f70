package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"textbook-ai/internal/auth"
	"textbook-ai/internal/contextutil"
	"textbook-ai/internal/storage"
)

// experienceLevels are the accepted profile values.
var experienceLevels = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

// AuthHandler handles signup, login, and profile retrieval.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignupRequest represents the signup request payload.
type SignupRequest struct {
	Email              string `json:"email"`
	Name               string `json:"name"`
	Password           string `json:"password"`
	SoftwareExperience string `json:"software_experience"`
	HardwareExperience string `json:"hardware_experience"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the user representation returned by auth endpoints.
type UserResponse struct {
	ID                 int64  `json:"id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	SoftwareExperience string `json:"software_experience"`
	HardwareExperience string `json:"hardware_experience"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// Signup registers a new user and returns a token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if req.Name == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name and password are required")
		return
	}
	if !experienceLevels[req.SoftwareExperience] || !experienceLevels[req.HardwareExperience] {
		writeError(w, http.StatusBadRequest, "Experience levels must be beginner, intermediate, or advanced")
		return
	}

	user, err := h.auth.Signup(ctx, req.Email, req.Name, req.Password, req.SoftwareExperience, req.HardwareExperience)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		logger.ErrorContext(ctx, "failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		logger.ErrorContext(ctx, "failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	logger.InfoContext(ctx, "user created", "user_id", user.ID)
	writeJSON(w, http.StatusOK, AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    userResponse(user),
	})
}

// Login authenticates a user and returns a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		logger.ErrorContext(ctx, "failed to authenticate user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		logger.ErrorContext(ctx, "failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    userResponse(user),
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r, h.auth)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, userResponse(user))
}

func userResponse(user *storage.User) UserResponse {
	return UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		SoftwareExperience: user.SoftwareExperience,
		HardwareExperience: user.HardwareExperience,
	}
}
