package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer resolves through the global provider at span start time.
var tracer = otel.Tracer("appcore")

// SpanManager opens and closes the spans around outgoing HTTP requests.
type SpanManager interface {
	// StartRequestSpan starts a client span for an outgoing HTTP request.
	StartRequestSpan(ctx context.Context, method, url, requestID string) (context.Context, trace.Span)

	// EndSpanWithError sets the span status from err and ends it.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent annotates the span carried by ctx.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that records through the global
// tracer provider (see otel.SetTracerProvider).
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRequestSpan opens span "appcore.http.<METHOD>" of kind client.
func (m *otelSpanManager) StartRequestSpan(ctx context.Context, method, url, requestID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "appcore.http."+method,
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", url),
			attribute.String("request.id", requestID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpanWithError ends span with status Ok, or Error when err is set.
// A nil span is ignored.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	defer span.End()

	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddSpanEvent is a no-op when ctx carries no recording span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}
