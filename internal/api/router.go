// Package api provides the optional HTTP status endpoint for a running
// iteration loop.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ternarybob/gogo/internal/config"
	"github.com/ternarybob/gogo/internal/logger"
	"github.com/ternarybob/gogo/pkg/driver"
)

// Server exposes driver progress over HTTP.
type Server struct {
	cfg    *config.Config
	driver *driver.Driver
	router chi.Router
	http   *http.Server
}

// NewServer creates the status server for a driver.
func NewServer(cfg *config.Config, d *driver.Driver) *Server {
	s := &Server{
		cfg:    cfg,
		driver: d,
	}

	s.setupRouter()
	return s
}

// setupRouter configures all routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/status", s.handleStatus)
	r.Get("/iterations", s.handleIterations)

	// JSON error responses for unmatched requests
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving in the background. Listen errors after startup are
// logged, not fatal; the iteration loop keeps running without the monitor.
func (s *Server) Start() {
	log := logger.GetLogger()

	s.http = &http.Server{
		Addr:    s.cfg.Address(),
		Handler: s.router,
	}

	go func() {
		log.Info().Str("address", s.http.Addr).Msg("Status server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn().Err(err).Msg("Status server stopped")
		}
	}()
}

// Shutdown stops the server, waiting briefly for in-flight requests.
func (s *Server) Shutdown() {
	if s.http == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.http.Shutdown(ctx)
}
