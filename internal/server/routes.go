package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)

	r.NotFound(s.handleNotFound)

	// API routes
	r.Get("/api/health", s.app.HealthHandler.ServeHTTP)
	r.Get("/api/version", s.app.VersionHandler.ServeHTTP)

	limit := s.rateLimitMiddleware(s.app.Config.Limits.RequestsPerSecond, s.app.Config.Limits.Burst)

	// Tool dispatch: GET and POST are equivalent, anything else is 405.
	tools := s.app.ToolsHandler.ServeHTTP
	r.Route(s.app.Config.Service.Prefix, func(r chi.Router) {
		r.Use(limit)
		r.Get("/", tools)
		r.Post("/", tools)
		r.Get("/*", tools)
		r.Post("/*", tools)
	})

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		r.With(limit).Handle(s.app.Config.MCP.Path, s.app.MCPHandler)
	}

	return r
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
