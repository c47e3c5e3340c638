// Package api provides the HTTP surface of the agent service.
//
// Endpoints:
//
//	POST   /api/v1/send_message          - chat pipeline (SSE stream)
//	POST   /api/v1/menu_gallery          - menu gallery flow (SSE stream)
//	GET    /api/v1/search                - formatted web search results
//	GET    /api/v1/threads               - list conversation threads
//	GET    /api/v1/threads/{id}/messages - conversation history
//	DELETE /api/v1/threads/{id}          - clear a thread
//	GET    /health, /ready               - probes (outside the middleware stack)
//	GET    /metrics                      - Prometheus
//
// File structure:
//   - server.go: server construction and middleware stack
//   - middleware.go: recovery, request ID, logging, CORS
//   - ratelimit.go: per-IP token bucket
//   - chat.go: SSE streaming endpoints
//   - threads.go: conversation store endpoints
//   - search.go: web search endpoint
//   - health.go: probes
//   - response.go: JSON response helpers
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lexia-ai/sous/internal/agent"
	"github.com/lexia-ai/sous/internal/metrics"
	"github.com/lexia-ai/sous/internal/search"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger       *slog.Logger
	Agent        *agent.Agent   // Required
	Searcher     *search.Client // Required for GET /api/v1/search
	SearchAPIKey string         // Server-side key for GET /api/v1/search (optional)
	CORSOrigins  []string       // Allowed origins for CORS
	TrustProxy   bool           // Trust X-Real-IP/X-Forwarded-For headers
	RateBurst    int            // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON/SSE HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Agent == nil {
		return nil, errors.New("agent is required")
	}
	if cfg.Searcher == nil {
		return nil, errors.New("search client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ch := &chatHandler{agent: cfg.Agent, logger: logger}
	th := &threadHandler{store: cfg.Agent.Store(), logger: logger}
	sh := &searchHandler{searcher: cfg.Searcher, apiKey: cfg.SearchAPIKey, logger: logger}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/send_message", ch.sendMessage)
	mux.HandleFunc("POST /api/v1/menu_gallery", ch.menuGallery)

	mux.HandleFunc("GET /api/v1/threads", th.list)
	mux.HandleFunc("GET /api/v1/threads/{id}/messages", th.messages)
	mux.HandleFunc("DELETE /api/v1/threads/{id}", th.clear)

	mux.HandleFunc("GET /api/v1/search", sh.searchWeb)

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newThrottle(1, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log attributes.
	// CORS must be before RateLimit so preflight OPTIONS gets proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probes and metrics sit outside the middleware stack so probes
	// are never rate limited.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.HandleFunc("GET /ready", readiness(cfg.Agent))
	topMux.Handle("GET /metrics", metrics.Handler())
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
