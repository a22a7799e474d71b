package observability

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder receives counters and latencies from the event registry,
// the key/value store and the HTTP client.
type MetricsRecorder interface {
	// RecordEmit records an event dispatch and how many handlers it reached.
	RecordEmit(ctx context.Context, eventType string, handlers int)

	// RecordHandlerPanic records a recovered handler panic.
	RecordHandlerPanic(ctx context.Context, eventType string)

	// RecordStorageOp records a key/value store operation ("get", "set", "remove").
	RecordStorageOp(ctx context.Context, op string, ok bool)

	// RecordRequest records an HTTP request outcome.
	// status is 0 when the request failed at the transport level.
	RecordRequest(ctx context.Context, method string, status int, duration time.Duration, err error)
}

// otelMetrics holds the instruments created on the "appcore" meter.
type otelMetrics struct {
	emits           metric.Int64Counter
	handlerCalls    metric.Int64Counter
	handlerPanics   metric.Int64Counter
	storageOps      metric.Int64Counter
	requests        metric.Int64Counter
	requestErrors   metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// Instruments are created once per process; every recorder shares them.
var (
	sharedMetrics    *otelMetrics
	sharedMetricsErr error
	sharedOnce       sync.Once
)

func loadSharedMetrics() (*otelMetrics, error) {
	sharedOnce.Do(func() {
		sharedMetrics, sharedMetricsErr = newOtelMetrics()
	})
	return sharedMetrics, sharedMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("appcore")

	emits, err := meter.Int64Counter("appcore.event.emits",
		metric.WithDescription("Number of event emissions"),
	)
	if err != nil {
		return nil, err
	}

	handlerCalls, err := meter.Int64Counter("appcore.event.handler_calls",
		metric.WithDescription("Number of handler invocations"),
	)
	if err != nil {
		return nil, err
	}

	handlerPanics, err := meter.Int64Counter("appcore.event.handler_panics",
		metric.WithDescription("Number of recovered handler panics"),
	)
	if err != nil {
		return nil, err
	}

	storageOps, err := meter.Int64Counter("appcore.storage.operations",
		metric.WithDescription("Number of key/value store operations"),
	)
	if err != nil {
		return nil, err
	}

	requests, err := meter.Int64Counter("appcore.http.requests",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestErrors, err := meter.Int64Counter("appcore.http.errors",
		metric.WithDescription("Number of HTTP transport failures"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram("appcore.http.latency_ms",
		metric.WithDescription("HTTP request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		emits:           emits,
		handlerCalls:    handlerCalls,
		handlerPanics:   handlerPanics,
		storageOps:      storageOps,
		requests:        requests,
		requestErrors:   requestErrors,
		requestDuration: requestDuration,
	}, nil
}

// NewMetricsRecorder returns a recorder backed by the global meter provider.
// Install a provider with otel.SetMeterProvider before the first call; the
// instruments are bound to whichever provider is current at that point.
// Falls back to NoopMetrics when the instruments cannot be created.
func NewMetricsRecorder() MetricsRecorder {
	m, err := loadSharedMetrics()
	if err != nil {
		slog.Warn("appcore metrics disabled", slog.Any("error", err))
		return NoopMetrics{}
	}
	return m
}

// RecordEmit records an event dispatch.
func (m *otelMetrics) RecordEmit(ctx context.Context, eventType string, handlers int) {
	attrs := metric.WithAttributes(attribute.String("event_type", eventType))
	m.emits.Add(ctx, 1, attrs)
	if handlers > 0 {
		m.handlerCalls.Add(ctx, int64(handlers), attrs)
	}
}

// RecordHandlerPanic records a recovered handler panic.
func (m *otelMetrics) RecordHandlerPanic(ctx context.Context, eventType string) {
	m.handlerPanics.Add(ctx, 1, metric.WithAttributes(attribute.String("event_type", eventType)))
}

// RecordStorageOp records a key/value store operation.
func (m *otelMetrics) RecordStorageOp(ctx context.Context, op string, ok bool) {
	m.storageOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.Bool("ok", ok),
	))
}

// RecordRequest records an HTTP request outcome.
func (m *otelMetrics) RecordRequest(ctx context.Context, method string, status int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("method", method),
		attribute.String("status", strconv.Itoa(status)),
	}

	m.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.requestErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
	}
}
