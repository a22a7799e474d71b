package appcore

import (
	"log/slog"

	"github.com/randalmurphal/appcore/pkg/appcore/config"
	"github.com/randalmurphal/appcore/pkg/appcore/event"
	"github.com/randalmurphal/appcore/pkg/appcore/httpreq"
	"github.com/randalmurphal/appcore/pkg/appcore/observability"
)

// Option configures a Core or an Accessor.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	policy   event.Policy
	onPanic  func(*event.HandlerPanicError)
	config   *config.Store
	httpOpts []httpreq.Option
}

func defaultOptions() options {
	return options{
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		policy:  event.PolicyDedup,
	}
}

// WithLogger sets the logger shared by every component.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics enables metrics for events, storage and HTTP.
// Pass observability.NewMetricsRecorder() to record through OpenTelemetry.
// Default: observability.NoopMetrics{}
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithSpanManager enables tracing of HTTP requests.
// Default: observability.NoopSpanManager{}
func WithSpanManager(s observability.SpanManager) Option {
	return func(o *options) {
		if s != nil {
			o.spans = s
		}
	}
}

// WithPolicy sets the event registration policy.
// Default: event.PolicyDedup
func WithPolicy(p event.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithPanicHandler sets a callback for recovered handler panics.
func WithPanicHandler(fn func(*event.HandlerPanicError)) Option {
	return func(o *options) {
		o.onPanic = fn
	}
}

// WithConfig supplies the config store. Section "http" tunes the HTTP
// client: "timeout" (duration) and "user_agent" (string).
// Default: an empty store
func WithConfig(cfg *config.Store) Option {
	return func(o *options) {
		if cfg != nil {
			o.config = cfg
		}
	}
}

// WithHTTPOptions appends options for the HTTP client. They are applied
// after the values derived from the config store, so they take precedence.
func WithHTTPOptions(opts ...httpreq.Option) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, opts...)
	}
}

// httpOptions derives client options from o.
func (o *options) httpOptions() []httpreq.Option {
	opts := []httpreq.Option{
		httpreq.WithLogger(o.logger),
		httpreq.WithMetrics(o.metrics),
		httpreq.WithSpanManager(o.spans),
	}
	if o.config != nil {
		sec := o.config.Section("http")
		if d := sec.Duration("timeout", 0); d > 0 {
			opts = append(opts, httpreq.WithTimeout(d))
		}
		if ua := sec.String("user_agent", ""); ua != "" {
			opts = append(opts, httpreq.WithHeader("User-Agent", ua))
		}
	}
	return append(opts, o.httpOpts...)
}
