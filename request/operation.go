package request

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const bodyPreviewLimit = 1024

// Operation is one fired request. Exactly one of the success, error and
// cancel callbacks runs, after which Done is closed.
type Operation struct {
	id           string
	client       *Client
	desc         *Descriptor
	wire         *WireRequest
	responseType ResponseType
	onSuccess    func(Result)
	log          *zap.Logger

	state     atomic.Int32
	started   time.Time
	ctx       context.Context
	cancelCtx context.CancelFunc

	mu              sync.Mutex
	task            Task
	cancelRequested bool
	cancelOnce      sync.Once

	// completion is held from creation until the terminal callback ran.
	completion *semaphore.Weighted
	done       chan struct{}
	result     Result
}

func newOperation(c *Client, d *Descriptor, t ResponseType, onSuccess func(Result)) *Operation {
	op := &Operation{
		id:           c.cfg.NewID(),
		client:       c,
		desc:         d,
		responseType: t,
		onSuccess:    onSuccess,
		completion:   semaphore.NewWeighted(1),
		done:         make(chan struct{}),
	}
	op.log = c.debugLog().With(zap.String("op", op.id))
	op.completion.TryAcquire(1)
	return op
}

func (op *Operation) ID() string                 { return op.id }
func (op *Operation) Descriptor() *Descriptor    { return op.desc }
func (op *Operation) Request() *WireRequest      { return op.wire }
func (op *Operation) ResponseType() ResponseType { return op.responseType }
func (op *Operation) State() State               { return State(op.state.Load()) }

// Done is closed after the terminal callback has returned.
func (op *Operation) Done() <-chan struct{} { return op.done }

// Wait blocks until the operation is over or ctx ends.
func (op *Operation) Wait(ctx context.Context) (Result, error) {
	select {
	case <-op.done:
		return op.result, nil
	case <-ctx.Done():
		return Result{State: op.State()}, ctx.Err()
	}
}

// Cancel aborts the operation. The first call on an unfinished operation
// cancels the transport task and runs the cancel callback; every other
// call does nothing.
func (op *Operation) Cancel() {
	op.cancelOnce.Do(func() {
		if op.State().Terminal() {
			return
		}
		op.mu.Lock()
		op.cancelRequested = true
		task := op.task
		op.mu.Unlock()

		op.finish(StateCancelled, Completion{Err: ErrCanceled})
		if task != nil {
			task.Cancel()
		}
		if op.cancelCtx != nil {
			op.cancelCtx()
		}
	})
}

func (op *Operation) start() {
	d := op.desc
	op.ctx, op.cancelCtx = context.WithCancel(d.ctx)
	op.started = time.Now()
	op.state.Store(int32(StateDispatched))
	op.client.cfg.Observer.OperationStarted(d.method)

	op.log.Debug("Request dispatched",
		zap.String("method", d.method.String()),
		zap.String("url", op.wire.URL),
		zap.Stringer("dispatch", d.dispatch),
		zap.Stringer("response_type", op.responseType),
		zap.Duration("timeout", op.wire.Timeout),
		zap.Bool("pinned", op.wire.Challenge != nil))
	for _, h := range op.wire.Header {
		op.log.Debug("Request header", zap.String("key", h.Key), zap.String("value", h.Value))
	}
	op.log.Debug("Request body", zap.Int("bytes", len(op.wire.Body)), zap.String("preview", bodyPreview(op.wire.Body)))

	cb := Callbacks{Complete: op.complete}
	if d.onProgress != nil {
		cb.Progress = op.progress
	}
	op.setTask(op.client.cfg.Transport.Submit(op.ctx, op.wire, cb))

	if d.dispatch == Sync {
		// Background never ends, so Acquire only returns once released.
		_ = op.completion.Acquire(context.Background(), 1)
	}
}

func (op *Operation) setTask(task Task) {
	op.mu.Lock()
	op.task = task
	cancelled := op.cancelRequested
	op.mu.Unlock()

	if cancelled && task != nil {
		task.Cancel()
	}
}

func (op *Operation) complete(c Completion) {
	switch {
	case c.Err == nil:
		op.finish(StateCompleted, c)
	case errors.Is(c.Err, context.Canceled), errors.Is(c.Err, ErrCanceled):
		op.finish(StateCancelled, c)
	default:
		op.finish(StateFailed, c)
	}
}

func (op *Operation) progress(sent, total int64) {
	if op.State().Terminal() {
		return
	}
	var percent float64
	if total > 0 {
		percent = float64(sent) / float64(total) * 100
	}
	fn := op.desc.onProgress
	op.client.deliver(func() {
		// finish may have won while this event waited in the queue.
		if op.State().Terminal() {
			return
		}
		fn(sent, total, percent)
	})
}

// finish moves the operation to a terminal state. Only the first caller
// wins; later completions are dropped.
func (op *Operation) finish(state State, c Completion) {
	if !op.state.CompareAndSwap(int32(StateDispatched), int32(state)) {
		op.log.Debug("Late completion ignored", zap.Stringer("state", state), zap.Error(c.Err))
		return
	}
	if op.cancelCtx != nil && state != StateCancelled {
		defer op.cancelCtx()
	}

	result := Result{State: state, Response: c.Response}
	status := 0
	if c.Response != nil {
		status = c.Response.StatusCode
	}

	switch state {
	case StateCompleted:
		result.Data = c.Body
		if result.Data == nil {
			result.Data = []byte{}
		}
		decoderFor(op.responseType)(&result, c.Response.header(), op.log)
		op.log.Debug("Request completed", zap.Int("status", status), zap.Int("bytes", len(result.Data)))
	case StateFailed:
		result.Data = c.Body
		result.Err = &TransportError{Method: op.desc.method, URL: op.wire.URL, Response: c.Response, Err: c.Err}
		op.log.Debug("Request failed", zap.Int("status", status), zap.Error(c.Err))
	case StateCancelled:
		result.Err = ErrCanceled
		op.log.Debug("Request cancelled", zap.String("url", op.wire.URL))
	}

	op.client.cfg.Observer.OperationFinished(op.desc.method, state, time.Since(op.started), status)
	op.client.deliver(func() { op.deliver(result) })
}

func (op *Operation) deliver(result Result) {
	defer func() {
		op.result = result
		close(op.done)
		op.completion.Release(1)
	}()

	switch result.State {
	case StateCompleted:
		if op.onSuccess != nil {
			op.onSuccess(result)
		}
	case StateFailed:
		if op.desc.onError != nil {
			op.desc.onError(result.Response, result.Err)
		}
	case StateCancelled:
		if op.desc.onCancel != nil {
			op.desc.onCancel()
		}
	}
}

func bodyPreview(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	preview := body
	if len(preview) > bodyPreviewLimit {
		preview = preview[:bodyPreviewLimit]
	}
	if !utf8.Valid(preview) {
		return "<binary>"
	}
	return string(preview)
}
