// Package api exposes the budget engine over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sorenh/brandbudget-backend/internal/api/handlers"
	"github.com/sorenh/brandbudget-backend/internal/api/middleware"
	"github.com/sorenh/brandbudget-backend/internal/application/service"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	svc        *service.BudgetService
}

// NewServer creates a new API server over the budget service.
func NewServer(cfg Config, svc *service.BudgetService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
		svc:    svc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	corsConfig := middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}
	s.router.Use(middleware.CORS(corsConfig))
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		distributionsHandler := handlers.NewDistributionsHandler(s.svc)
		r.Get("/periods", distributionsHandler.Periods)
		r.Post("/distributions", distributionsHandler.Create)
		r.Get("/distributions/{runID}", distributionsHandler.Get)

		suggestionsHandler := handlers.NewSuggestionsHandler(s.svc)
		r.Post("/suggestions", suggestionsHandler.Create)

		reconciliationsHandler := handlers.NewReconciliationsHandler(s.svc)
		r.Post("/reconciliations", reconciliationsHandler.Create)
		r.Get("/reconciliations/{sessionID}", reconciliationsHandler.Get)
		r.Put("/reconciliations/{sessionID}/vendors/{vendor}", reconciliationsHandler.EditVendor)
		r.Delete("/reconciliations/{sessionID}/vendors/{vendor}", reconciliationsHandler.ReleaseVendor)
		r.Post("/reconciliations/{sessionID}/apply", reconciliationsHandler.Apply)
	})
}

// Router returns the underlying router, used by tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start begins listening for requests. Blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("api server listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
