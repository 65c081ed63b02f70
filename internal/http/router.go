package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"textbook-ai/internal/auth"
	"textbook-ai/internal/handlers"
	"textbook-ai/internal/ingest"
	"textbook-ai/internal/rag"
	"textbook-ai/internal/storage"
	"textbook-ai/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine           rag.Engine
	Auth             *auth.Service
	History          storage.HistoryStore
	Personalizations storage.PersonalizationStore
	Pipeline         *ingest.Pipeline
	VectorStore      vectorstore.VectorStore
	Collection       string
	AllowedOrigins   []string

	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit      float64
	RateLimitBurst int
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(CORS(deps.AllowedOrigins))
	if deps.RateLimit > 0 {
		r.Use(RateLimit(deps.RateLimit, deps.RateLimitBurst))
	}

	chatHandler := handlers.NewChatHandler(deps.Engine, deps.Auth, deps.History)
	authHandler := handlers.NewAuthHandler(deps.Auth)
	personalizeHandler := handlers.NewPersonalizeHandler(deps.Engine, deps.Auth, deps.Personalizations)
	translateHandler := handlers.NewTranslateHandler(deps.Engine)
	ingestHandler := handlers.NewIngestHandler(deps.Pipeline)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Get("/me", authHandler.Me)
		})

		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodPost, "/personalize", personalizeHandler)
		r.Method(http.MethodPost, "/translate", translateHandler)
		r.Method(http.MethodPost, "/admin/ingest", ingestHandler)
	})

	r.Method(http.MethodGet, "/", handlers.RootHandler{})

	return r
}
