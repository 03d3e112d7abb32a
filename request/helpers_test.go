package request

import (
	"context"
	"net/http"
	"sync"

	"github.com/stretchr/testify/mock"
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Submit(ctx context.Context, req *WireRequest, cb Callbacks) Task {
	args := m.Called(ctx, req, cb)
	if task, ok := args.Get(0).(Task); ok {
		return task
	}
	return TaskFunc(func() {})
}

type transportFunc func(ctx context.Context, req *WireRequest, cb Callbacks) Task

func (f transportFunc) Submit(ctx context.Context, req *WireRequest, cb Callbacks) Task {
	return f(ctx, req, cb)
}

// respond completes every request immediately with body and status.
func respond(status int, body string, header http.Header) transportFunc {
	return func(_ context.Context, req *WireRequest, cb Callbacks) Task {
		cb.Complete(Completion{
			Body: []byte(body),
			Response: &Response{
				StatusCode:    status,
				Status:        http.StatusText(status),
				Header:        header,
				URL:           req.URL,
				ContentLength: int64(len(body)),
			},
		})
		return TaskFunc(func() {})
	}
}

// recorder captures the wire requests it receives and completes them
// with an empty 200 response.
type recorder struct {
	mu       sync.Mutex
	requests []*WireRequest
}

func (r *recorder) Submit(ctx context.Context, req *WireRequest, cb Callbacks) Task {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	return respond(http.StatusOK, "", nil).Submit(ctx, req, cb)
}

func (r *recorder) last() *WireRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		return nil
	}
	return r.requests[len(r.requests)-1]
}

// pending holds submitted requests until the test completes them.
type pending struct {
	mu        sync.Mutex
	callbacks []Callbacks
	cancels   int
	submitted chan struct{}
}

func newPending() *pending {
	return &pending{submitted: make(chan struct{}, 16)}
}

func (p *pending) Submit(_ context.Context, _ *WireRequest, cb Callbacks) Task {
	p.mu.Lock()
	p.callbacks = append(p.callbacks, cb)
	p.mu.Unlock()
	p.submitted <- struct{}{}
	return TaskFunc(func() {
		p.mu.Lock()
		p.cancels++
		p.mu.Unlock()
	})
}

func (p *pending) callback(i int) Callbacks {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callbacks[i]
}

func (p *pending) cancelCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancels
}

func newTestClient(t Transport, mutate ...func(*Config)) *Client {
	cfg := DefaultConfig()
	cfg.Transport = t
	for _, m := range mutate {
		m(&cfg)
	}
	return NewClient(cfg)
}
