// Package server provides the HTTP API for the VIVOHOME assistant.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vivohome/assistant/internal/catalog"
	"github.com/vivohome/assistant/internal/config"
	"github.com/vivohome/assistant/internal/rag"
	"github.com/vivohome/assistant/internal/vector"
)

// Server is the HTTP server for the assistant API.
type Server struct {
	engine *rag.Engine
	store  *catalog.Store
	index  *vector.Index
	config *config.ServerConfig
	full   *config.Config
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies. index and full may
// be nil; the status endpoint then reports what it can.
func NewServer(
	engine *rag.Engine,
	store *catalog.Store,
	index *vector.Index,
	cfg *config.ServerConfig,
	logger *zap.Logger,
	full *config.Config,
) *Server {
	return &Server{
		engine: engine,
		store:  store,
		index:  index,
		config: cfg,
		full:   full,
		logger: logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/chat", s.handleChat)
	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
