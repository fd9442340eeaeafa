package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/toolbridge/internal/app"
	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/go-chi/chi/v5"
)

// Server manages the HTTP server and routes.
type Server struct {
	app    *app.App
	router *chi.Mux
	server *http.Server
	logger *common.Logger
}

// New creates a new HTTP server with the given app.
func New(application *app.App) *Server {
	s := &Server{
		app:    application,
		logger: application.Logger,
	}

	s.router = s.setupRoutes()

	s.server = &http.Server{
		Addr:              application.Config.Addr(),
		Handler:           s.withMiddleware(s.router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // wait tool sleeps up to 30s
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Start starts the HTTP server. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Str("url", fmt.Sprintf("http://%s", s.server.Addr)).
		Str("prefix", s.app.Config.Service.Prefix).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
