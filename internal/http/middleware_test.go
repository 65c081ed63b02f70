package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"textbook-ai/internal/contextutil"
)

func TestRequestLogger(t *testing.T) {
	var sawRequestLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The middleware stores a derived logger, not the process default.
		logger := contextutil.LoggerFromContext(r.Context())
		sawRequestLogger = logger != slog.Default()
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	RequestLogger(next).ServeHTTP(w, req)

	if !sawRequestLogger {
		t.Error("request context missing request-scoped logger")
	}
}

func TestCORS(t *testing.T) {
	allowed := []string{"http://localhost:3000", "https://textbook.example.com"}

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{"allowed origin", "http://localhost:3000", "http://localhost:3000"},
		{"allowed configured origin", "https://textbook.example.com", "https://textbook.example.com"},
		{"disallowed origin", "http://evil.example.com", ""},
		{"no origin", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()

			CORS(allowed)(next).ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if w.Header().Get("Access-Control-Allow-Methods") == "" {
				t.Error("missing Access-Control-Allow-Methods")
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight request reached the handler")
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	CORS([]string{"http://localhost:3000"})(next).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Tiny refill rate so the burst is the effective allowance.
	handler := RateLimit(0.001, 3)(next)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 after burst exhausted", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	// A different IP has its own bucket.
	req = httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for a fresh IP", w.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xRealIP    string
		want       string
	}{
		{"remote addr with port", "192.168.1.5:4321", "", "192.168.1.5"},
		{"x-real-ip preferred", "10.0.0.1:1234", "203.0.113.7", "203.0.113.7"},
		{"invalid x-real-ip ignored", "10.0.0.1:1234", "not-an-ip", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
