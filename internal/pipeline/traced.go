package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Proposer is the surface shared by Pipeline and TracedPipeline.
type Proposer interface {
	ProposeIncident(ctx context.Context, userText string) (*ProposalResponse, error)
}

// TracedPipeline wraps a Proposer with OpenTelemetry tracing. Each request
// gets a span named "graphmind.pipeline.propose" carrying retrieval and
// proposal attributes.
type TracedPipeline struct {
	inner  Proposer
	tracer trace.Tracer
}

// NewTracedPipeline wraps inner with tracing.
func NewTracedPipeline(inner Proposer, tracer trace.Tracer) *TracedPipeline {
	return &TracedPipeline{inner: inner, tracer: tracer}
}

// ProposeIncident delegates to the inner pipeline inside a span.
func (t *TracedPipeline) ProposeIncident(ctx context.Context, userText string) (*ProposalResponse, error) {
	ctx, span := t.tracer.Start(ctx, "graphmind.pipeline.propose")
	defer span.End()

	span.SetAttributes(attribute.Int("graphmind.request.text_length", len(userText)))

	start := time.Now()
	resp, err := t.inner.ProposeIncident(ctx, userText)
	span.SetAttributes(attribute.Float64("graphmind.pipeline.duration_ms",
		float64(time.Since(start).Milliseconds())))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("graphmind.retrieval.source", resp.Retrieval.Source),
		attribute.Bool("graphmind.retrieval.exhausted", resp.Retrieval.Exhausted),
		attribute.Int("graphmind.retrieval.documents", len(resp.Documents)),
		attribute.Int("graphmind.graph.nodes", len(resp.Graph.Nodes)),
		attribute.Int("graphmind.graph.edges", len(resp.Graph.Edges)),
	)
	span.SetStatus(codes.Ok, "proposal generated")
	return resp, nil
}
