// Package server exposes the proposal pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/incidentops/graphmind/internal/config"
	"github.com/incidentops/graphmind/internal/graph"
	"github.com/incidentops/graphmind/internal/incident"
	"github.com/incidentops/graphmind/internal/pipeline"
	"github.com/incidentops/graphmind/internal/retrieval"
	"github.com/incidentops/graphmind/internal/types"
)

// Retriever is the search surface exposed by POST /api/search.
type Retriever interface {
	Retrieve(ctx context.Context, text string, topK int) (retrieval.RetrievalResult, error)
}

// HealthChecker reports per-component health for the health endpoint.
type HealthChecker interface {
	Health(ctx context.Context) map[string]types.HealthStatus
}

// Server wires the pipeline, retriever, saver, and graph client into an HTTP
// listener.
type Server struct {
	httpServer *http.Server
	proposer   pipeline.Proposer
	retriever  Retriever
	saver      *incident.Saver
	client     graph.GraphClient
	health     HealthChecker
	config     config.ServerConfig
	topK       int
	logger     *slog.Logger
}

// New creates a Server. The health checker may be nil, in which case the
// health endpoint reports only liveness.
func New(cfg config.ServerConfig, proposer pipeline.Proposer, retriever Retriever, saver *incident.Saver, client graph.GraphClient, health HealthChecker, topK int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if topK <= 0 {
		topK = retrieval.DefaultTopK
	}

	s := &Server{
		proposer:  proposer,
		retriever: retriever,
		saver:     saver,
		client:    client,
		health:    health,
		config:    cfg,
		topK:      topK,
		logger:    logger.With("component", "http-server"),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Routes builds the router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/propose", s.handlePropose)
		r.Post("/search", s.handleSearch)
		r.Post("/incidents", s.handleSaveIncident)
		r.Get("/nodes/{nodeID}/neighbors", s.handleNeighbors)
		r.Get("/health", s.handleHealth)
	})

	return r
}

// Start begins serving. Blocks until the listener stops.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
