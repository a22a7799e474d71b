package httpreq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// Response is a completed HTTP exchange. Any status code, including 4xx and
// 5xx, is a completed exchange.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Method     string
	URL        string
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// RequestError reports a request that produced no response: the body could
// not be encoded, the request could not be built, or the transport failed.
type RequestError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Request is an in-flight or settled call. It settles exactly once, either
// with a Response (Done) or a *RequestError (Fail).
type Request struct {
	id     string
	method string
	url    string

	mu      sync.Mutex
	settled bool
	resp    *Response
	err     error
	onDone  func(*Response)
	onFail  func(error)
	done    chan struct{}
}

func newRequest(id, method, url string) *Request {
	return &Request{
		id:     id,
		method: method,
		url:    url,
		done:   make(chan struct{}),
	}
}

// ID returns the request id used in logs and spans.
func (r *Request) ID() string { return r.id }

// Method returns the HTTP method.
func (r *Request) Method() string { return r.method }

// URL returns the final URL, including any encoded query.
func (r *Request) URL() string { return r.url }

// Done sets the success callback, replacing any previous one. If the request
// has already completed with a response, fn runs immediately on the calling
// goroutine. A nil fn is ignored.
func (r *Request) Done(fn func(*Response)) *Request {
	if fn == nil {
		return r
	}
	r.mu.Lock()
	if !r.settled {
		r.onDone = fn
		r.mu.Unlock()
		return r
	}
	resp, err := r.resp, r.err
	r.mu.Unlock()

	if err == nil {
		fn(resp)
	}
	return r
}

// Fail sets the failure callback, replacing any previous one. If the request
// has already failed, fn runs immediately on the calling goroutine. A nil fn
// is ignored.
func (r *Request) Fail(fn func(error)) *Request {
	if fn == nil {
		return r
	}
	r.mu.Lock()
	if !r.settled {
		r.onFail = fn
		r.mu.Unlock()
		return r
	}
	err := r.err
	r.mu.Unlock()

	if err != nil {
		fn(err)
	}
	return r
}

// Wait blocks until the request settles or ctx is done.
func (r *Request) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-r.done:
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// settle stores the outcome and runs the matching callback, if one is set.
// Callbacks registered later see the stored outcome instead.
func (r *Request) settle(resp *Response, err error) {
	r.mu.Lock()
	if r.settled {
		r.mu.Unlock()
		return
	}
	r.settled = true
	r.resp, r.err = resp, err
	onDone, onFail := r.onDone, r.onFail
	r.onDone, r.onFail = nil, nil
	r.mu.Unlock()

	close(r.done)

	if err != nil {
		if onFail != nil {
			onFail(err)
		}
		return
	}
	if onDone != nil {
		onDone(resp)
	}
}
