package request

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Header is one request header line. WireRequest keeps headers as an
// ordered list so duplicates survive.
type Header struct {
	Key   string
	Value string
}

// Disposition is the answer to a server trust challenge.
type Disposition int

const (
	// UseDefault asks the Transport to run its standard chain verification.
	UseDefault Disposition = iota
	// Accept trusts the presented certificate.
	Accept
	// Reject aborts the connection.
	Reject
)

func (d Disposition) String() string {
	switch d {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "default"
	}
}

// WireRequest is a fully realized request handed to a Transport.
type WireRequest struct {
	ID          string
	Method      Method
	URL         string
	Header      []Header
	Body        []byte
	Timeout     time.Duration
	CachePolicy CachePolicy
	// Challenge evaluates the DER bytes of the server leaf certificate. It
	// is nil unless certificates are pinned.
	Challenge func(leafDER []byte) Disposition
}

// Get returns the last value recorded for key, case-insensitively.
func (r *WireRequest) Get(key string) string {
	for i := len(r.Header) - 1; i >= 0; i-- {
		if strings.EqualFold(r.Header[i].Key, key) {
			return r.Header[i].Value
		}
	}
	return ""
}

// HTTPHeader converts the ordered header list into an http.Header,
// preserving duplicates in order.
func (r *WireRequest) HTTPHeader() http.Header {
	h := make(http.Header, len(r.Header))
	for _, line := range r.Header {
		h.Add(line.Key, line.Value)
	}
	return h
}

// Completion is what a Transport reports when a request ends. Body and
// Response may be set alongside Err when a response was partially received.
type Completion struct {
	Body     []byte
	Response *Response
	Err      error
}

// Callbacks receive Transport events. Complete must be called exactly
// once per submitted request; Progress may be nil.
type Callbacks struct {
	Progress func(sent, total int64)
	Complete func(Completion)
}

// Task is a submitted request.
type Task interface {
	Cancel()
}

// TaskFunc adapts a function to Task.
type TaskFunc func()

// Cancel calls f.
func (f TaskFunc) Cancel() { f() }

// Transport performs network I/O for the engine. Submit must not block on
// the network; a cancelled ctx or Task must end with a Completion whose
// Err matches context.Canceled.
type Transport interface {
	Submit(ctx context.Context, req *WireRequest, cb Callbacks) Task
}
