package main

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/incidentops/graphmind/internal/config"
	"github.com/incidentops/graphmind/internal/embedder"
	"github.com/incidentops/graphmind/internal/graph"
	"github.com/incidentops/graphmind/internal/incident"
	"github.com/incidentops/graphmind/internal/llm"
	"github.com/incidentops/graphmind/internal/pipeline"
	"github.com/incidentops/graphmind/internal/prompt"
	"github.com/incidentops/graphmind/internal/retrieval"
	"github.com/incidentops/graphmind/internal/server"
)

// app holds the assembled pipeline and its dependencies for one process.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	client    graph.GraphClient
	embedder  embedder.Embedder
	completer llm.CompletionClient
	retriever *retrieval.HybridRetriever
	saver     *incident.Saver
	proposer  pipeline.Proposer
	health    *server.ComponentHealth
}

// buildApp constructs and connects every pipeline stage from configuration.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := config.NewLogger(cfg.Logging)

	client, err := graph.NewNeo4jClient(cfg.Graph)
	if err != nil {
		return nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}

	var emb embedder.Embedder
	if cfg.Embedder.Enabled() {
		emb, err = embedder.NewOpenAIEmbedder(cfg.Embedder)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Info("no embedding provider configured, vector search disabled")
	}

	completer, err := llm.NewOpenAIClient(cfg.LLM)
	if err != nil {
		return nil, err
	}

	retriever := retrieval.NewHybridRetriever(client, emb, logger)
	assembler := prompt.NewAssembler(cfg.Prompt)

	var proposer pipeline.Proposer = pipeline.New(retriever, client, assembler, completer,
		pipeline.Config{
			TopK:          cfg.Retrieval.TopK,
			NeighborLimit: cfg.Retrieval.NeighborLimit,
		}, logger)

	if cfg.Tracing.Enabled {
		proposer = pipeline.NewTracedPipeline(proposer, otel.Tracer(cfg.Tracing.ServiceName))
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		embedder:  emb,
		completer: completer,
		retriever: retriever,
		saver:     incident.NewSaver(client, logger),
		proposer:  proposer,
		health: &server.ComponentHealth{
			Client:    client,
			Embedder:  emb,
			Completer: completer,
		},
	}, nil
}

// Close releases the graph connection.
func (a *app) Close(ctx context.Context) {
	if err := a.client.Close(ctx); err != nil {
		a.logger.Warn("failed to close graph client", "error", err)
	}
}
