package httpreq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/appcore/pkg/appcore/observability"
)

// DefaultTimeout bounds a request issued through the default Doer.
const DefaultTimeout = 30 * time.Second

// Doer performs a single HTTP round trip. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues requests and hands back deferred Request values.
// A Client is safe for concurrent use.
type Client struct {
	doer    Doer
	timeout time.Duration
	headers http.Header
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the transport. Tests use this to inject a fake.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithTimeout sets the timeout of the default Doer. It has no effect when
// WithDoer is also given.
// Default: 30s
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

// WithLogger sets the logger.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpanManager sets the span manager.
// Default: observability.NoopSpanManager
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *Client) {
		if s != nil {
			c.spans = s
		}
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout: DefaultTimeout,
		headers: make(http.Header),
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Get issues a GET with query appended to rawURL.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) *Request {
	return c.start(ctx, http.MethodGet, withQuery(rawURL, query), func() (io.Reader, string, error) {
		return nil, "", nil
	})
}

// Delete issues a DELETE with query appended to rawURL.
func (c *Client) Delete(ctx context.Context, rawURL string, query url.Values) *Request {
	return c.start(ctx, http.MethodDelete, withQuery(rawURL, query), func() (io.Reader, string, error) {
		return nil, "", nil
	})
}

// Post issues a POST with body encoded as JSON.
func (c *Client) Post(ctx context.Context, rawURL string, body any) *Request {
	return c.start(ctx, http.MethodPost, rawURL, jsonBody(body))
}

// Put issues a PUT with body encoded as JSON.
func (c *Client) Put(ctx context.Context, rawURL string, body any) *Request {
	return c.start(ctx, http.MethodPut, rawURL, jsonBody(body))
}

// Upload issues a multipart/form-data POST built from form.
// A nil form sends an empty multipart body.
func (c *Client) Upload(ctx context.Context, rawURL string, form *FormData) *Request {
	return c.start(ctx, http.MethodPost, rawURL, form.encode)
}

// bodyFunc produces a request body and its content type.
type bodyFunc func() (io.Reader, string, error)

func jsonBody(v any) bodyFunc {
	return func() (io.Reader, string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// withQuery appends the encoded query, using '&' when rawURL already has one.
func withQuery(rawURL string, query url.Values) string {
	encoded := query.Encode()
	if encoded == "" {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + encoded
}

// start creates the Request and runs the call on its own goroutine.
// Body encoding happens before the goroutine so that an encoding failure is
// already settled when the factory returns.
func (c *Client) start(ctx context.Context, method, rawURL string, body bodyFunc) *Request {
	if ctx == nil {
		ctx = context.Background()
	}
	r := newRequest(uuid.New().String(), method, rawURL)

	reader, contentType, err := body()
	if err != nil {
		c.finish(ctx, r, nil, err, 0)
		return r
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		c.finish(ctx, r, nil, fmt.Errorf("build request: %w", err), 0)
		return r
	}
	for key, values := range c.headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	go c.do(ctx, r, httpReq)
	return r
}

func (c *Client) do(ctx context.Context, r *Request, httpReq *http.Request) {
	ctx, span := c.spans.StartRequestSpan(ctx, r.method, r.url, r.id)
	httpReq = httpReq.WithContext(ctx)

	observability.LogRequestStart(c.logger, r.id, r.method, r.url)
	start := time.Now()

	resp, err := c.doer.Do(httpReq)
	if err != nil {
		c.spans.EndSpanWithError(span, err)
		c.finish(ctx, r, nil, err, time.Since(start))
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("read response body: %w", err)
		c.spans.EndSpanWithError(span, err)
		c.finish(ctx, r, nil, err, time.Since(start))
		return
	}

	c.spans.AddSpanEvent(ctx, "response.received",
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.Int("http.response_size", len(data)),
	)
	c.spans.EndSpanWithError(span, nil)

	c.finish(ctx, r, &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
		Method:     r.method,
		URL:        r.url,
	}, nil, time.Since(start))
}

// finish records the outcome and settles the request.
func (c *Client) finish(ctx context.Context, r *Request, resp *Response, err error, elapsed time.Duration) {
	durationMs := float64(elapsed) / float64(time.Millisecond)
	if err != nil {
		reqErr := &RequestError{Method: r.method, URL: r.url, Err: err}
		observability.LogRequestError(c.logger, r.id, reqErr, durationMs)
		c.metrics.RecordRequest(ctx, r.method, 0, elapsed, reqErr)
		r.settle(nil, reqErr)
		return
	}
	observability.LogRequestComplete(c.logger, r.id, resp.StatusCode, durationMs)
	c.metrics.RecordRequest(ctx, r.method, resp.StatusCode, elapsed, nil)
	r.settle(resp, nil)
}
