package httpreq_test

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
)

// fakeDoer answers every request with a fixed status or error. When gate is
// set, Do blocks until it is closed.
type fakeDoer struct {
	status int
	err    error
	gate   chan struct{}

	calls atomic.Int32
	mu    sync.Mutex
	reqs  []*http.Request
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Status:     http.StatusText(f.status),
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}

func (f *fakeDoer) last() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reqs) == 0 {
		return nil
	}
	return f.reqs[len(f.reqs)-1]
}
