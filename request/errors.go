package request

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled reports an operation cancelled by its caller.
	ErrCanceled = errors.New("request canceled")
	// ErrPinMismatch reports a server certificate outside the pinned set.
	ErrPinMismatch = errors.New("server certificate does not match any pinned certificate")
	// ErrInvalidURL reports a target that does not resolve to an absolute
	// http or https URL.
	ErrInvalidURL = errors.New("invalid request URL")
	// ErrInvalidMethod reports an unsupported HTTP method.
	ErrInvalidMethod = errors.New("unsupported HTTP method")
	// ErrNoTransport reports a Client configured without a Transport.
	ErrNoTransport = errors.New("no transport configured")
	// ErrClientClosed reports Fire on a closed Client.
	ErrClientClosed = errors.New("client closed")
)

// TransportError is handed to the error callback for every failure other
// than cancellation.
type TransportError struct {
	Method   Method
	URL      string
	Response *Response // nil when nothing was received
	Err      error
}

func (e *TransportError) Error() string {
	if e.Response != nil {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.Response.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
