package request

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// Client creates and executes requests with one Config. It is safe for
// concurrent use.
type Client struct {
	cfg    Config
	log    *zap.Logger
	queue  *deliveryQueue
	closed atomic.Bool
}

// NewClient creates a Client. Missing Config fields take the values of
// DefaultConfig; a nil Transport makes every Fire fail with ErrNoTransport.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	log := cfg.Logger.Named("volley")
	return &Client{
		cfg:   cfg,
		log:   log,
		queue: newDeliveryQueue(log),
	}
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// New starts a request. Relative targets are joined to the base URL.
func (c *Client) New(method Method, target string) *Builder {
	return &Builder{client: c, method: method, target: target}
}

// NewAbsolute starts a request that never uses the base URL.
func (c *Client) NewAbsolute(method Method, target string) *Builder {
	return &Builder{client: c, method: method, target: target, absolute: true}
}

func (c *Client) Get(target string) *Builder    { return c.New(GET, target) }
func (c *Client) Post(target string) *Builder   { return c.New(POST, target) }
func (c *Client) Put(target string) *Builder    { return c.New(PUT, target) }
func (c *Client) Delete(target string) *Builder { return c.New(DELETE, target) }

// Close stops accepting new operations and waits until every queued
// callback has run. Operations still in flight afterwards deliver their
// callbacks on the Transport's goroutine. Close must not be called from a
// callback.
func (c *Client) Close() {
	c.closed.Store(true)
	c.queue.close()
}

// debugLog returns the logger for request tracing, or a no-op logger when
// debugging is off.
func (c *Client) debugLog() *zap.Logger {
	if c.cfg.Debug {
		return c.log
	}
	return zap.NewNop()
}

// deliver runs fn on the delivery queue, or inline once the queue is
// closed.
func (c *Client) deliver(fn func()) {
	if !c.queue.post(fn) {
		c.queue.invoke(fn)
	}
}

func (c *Client) execute(d *Descriptor, t ResponseType, onSuccess func(Result)) (*Operation, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if c.cfg.Transport == nil {
		return nil, ErrNoTransport
	}

	body, err := c.cfg.Encoder.Build(string(d.method), d.params, d.files, d.raw, c.cfg.Boundary)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	for _, w := range body.Warnings {
		c.log.Warn("Request body warning", zap.String("method", d.method.String()), zap.String("url", d.url), zap.Error(w))
	}

	op := newOperation(c, d, t, onSuccess)
	op.wire = &WireRequest{
		ID:          op.id,
		Method:      d.method,
		URL:         d.requestURL(c.cfg.Encoder),
		Header:      d.headerLines(body),
		Body:        body.Data,
		Timeout:     d.timeout,
		CachePolicy: d.cachePolicy,
	}
	if len(d.pins) > 0 {
		op.wire.Challenge = NewPinning(d.pins, d.onMismatch, c.deliver).Evaluate
	}

	op.start()
	return op, nil
}
