package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics discards everything. It is the default recorder of every
// appcore component.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

func (NoopMetrics) RecordEmit(context.Context, string, int) {}
func (NoopMetrics) RecordHandlerPanic(context.Context, string) {}
func (NoopMetrics) RecordStorageOp(context.Context, string, bool) {}
func (NoopMetrics) RecordRequest(context.Context, string, int, time.Duration, error) {}

// NoopSpanManager hands out non-recording spans.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

// StartRequestSpan returns ctx unchanged together with a non-recording span.
func (NoopSpanManager) StartRequestSpan(ctx context.Context, _, _, _ string) (context.Context, trace.Span) {
	return ctx, noop.Span{}
}

func (NoopSpanManager) EndSpanWithError(trace.Span, error) {}
func (NoopSpanManager) AddSpanEvent(context.Context, string, ...attribute.KeyValue) {}
