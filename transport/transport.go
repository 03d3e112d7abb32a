package transport

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/GriffinCanCode/volley/request"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultMaxRedirects is used when Options.MaxRedirects is zero.
const DefaultMaxRedirects = 10

// Options configures a Transport.
type Options struct {
	Logger *zap.Logger
	// RateLimit caps requests per second; zero or less means unlimited.
	RateLimit float64
	// Burst defaults to max(1, RateLimit).
	Burst int
	// MaxRedirects defaults to DefaultMaxRedirects; negative disables
	// redirects.
	MaxRedirects int
	// RootCAs verifies server chains; nil means the system pool.
	RootCAs *x509.CertPool
}

// Transport implements request.Transport.
type Transport struct {
	opts    Options
	log     *zap.Logger
	pooled  *http.Transport
	client  *resty.Client
	limiter *rate.Limiter
}

var _ request.Transport = (*Transport)(nil)

// New creates a Transport. Requests are never retried.
func New(opts Options) *Transport {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	pooled, ok := retryClient.HTTPClient.Transport.(*http.Transport)
	if !ok {
		pooled = http.DefaultTransport.(*http.Transport).Clone()
	}
	if opts.RootCAs != nil {
		pooled.TLSClientConfig = tlsConfig(pooled.TLSClientConfig, opts.RootCAs)
	}

	t := &Transport{
		opts:    opts,
		log:     opts.Logger.Named("transport"),
		pooled:  pooled,
		limiter: newLimiter(opts.RateLimit, opts.Burst),
	}
	t.client = t.newResty(pooled)
	return t
}

func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = max(1, int(rps))
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func (t *Transport) newResty(rt http.RoundTripper) *resty.Client {
	c := resty.New().
		SetTransport(rt).
		SetAllowGetMethodPayload(true).
		SetLogger(t.log.Sugar()).
		SetPreRequestHook(trackUpload)

	switch {
	case t.opts.MaxRedirects < 0:
		c.SetRedirectPolicy(resty.NoRedirectPolicy())
	case t.opts.MaxRedirects == 0:
		c.SetRedirectPolicy(resty.FlexibleRedirectPolicy(DefaultMaxRedirects))
	default:
		c.SetRedirectPolicy(resty.FlexibleRedirectPolicy(t.opts.MaxRedirects))
	}
	return c
}

// Close releases idle connections.
func (t *Transport) Close() {
	t.pooled.CloseIdleConnections()
}

// Submit sends req on a new goroutine and reports the outcome through
// cb.Complete exactly once.
func (t *Transport) Submit(ctx context.Context, req *request.WireRequest, cb request.Callbacks) request.Task {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		cb.Complete(t.do(ctx, req, cb.Progress))
	}()
	return request.TaskFunc(cancel)
}

func (t *Transport) do(ctx context.Context, req *request.WireRequest, progress func(sent, total int64)) request.Completion {
	if err := t.limiter.Wait(ctx); err != nil {
		return request.Completion{Err: fmt.Errorf("rate limit: %w", err)}
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	if progress != nil {
		ctx = withProgress(ctx, progress)
	}

	client := t.client
	var rejected atomic.Bool
	if req.Challenge != nil {
		pinned := t.pinnedTransport(req.Challenge, &rejected)
		defer pinned.CloseIdleConnections()
		client = t.newResty(pinned)
	}

	r := client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	for _, h := range req.Header {
		r.Header.Add(h.Key, h.Value)
	}
	applyCachePolicy(r.Header, req.CachePolicy)
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(string(req.Method), req.URL)
	if err != nil {
		if rejected.Load() && !errors.Is(err, request.ErrPinMismatch) {
			err = fmt.Errorf("%w: %v", request.ErrPinMismatch, err)
		}
		return request.Completion{Response: responseMeta(resp, nil), Err: err}
	}

	raw := resp.RawBody()
	defer raw.Close()
	body, err := io.ReadAll(raw)
	if err != nil {
		return request.Completion{Response: responseMeta(resp, nil), Err: fmt.Errorf("read response body: %w", err)}
	}

	decoded, err := decodeBody(resp.Header().Get("Content-Encoding"), body)
	if err != nil {
		t.log.Warn("Response body decoding failed",
			zap.String("url", req.URL),
			zap.String("encoding", resp.Header().Get("Content-Encoding")),
			zap.Error(err))
		decoded = body
	}

	return request.Completion{Body: decoded, Response: responseMeta(resp, decoded)}
}

// applyCachePolicy maps a cache policy to request directives unless the
// caller set Cache-Control explicitly.
func applyCachePolicy(h http.Header, policy request.CachePolicy) {
	if h.Get("Cache-Control") != "" {
		return
	}
	switch policy {
	case request.ReloadIgnoringCache:
		h.Set("Cache-Control", "no-cache")
	case request.ReturnCacheDataElseLoad:
		h.Set("Cache-Control", "max-stale")
	}
}

func responseMeta(resp *resty.Response, body []byte) *request.Response {
	if resp == nil || resp.RawResponse == nil {
		return nil
	}
	meta := &request.Response{
		StatusCode:    resp.StatusCode(),
		Status:        resp.Status(),
		Header:        resp.Header().Clone(),
		ContentLength: resp.RawResponse.ContentLength,
		Elapsed:       resp.Time(),
	}
	if body != nil {
		meta.ContentLength = int64(len(body))
	}
	if resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		meta.URL = resp.RawResponse.Request.URL.String()
	}
	return meta
}
