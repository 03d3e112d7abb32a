package request

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/GriffinCanCode/volley/form"
)

// Descriptor is an immutable snapshot of a Builder.
type Descriptor struct {
	ctx         context.Context
	method      Method
	url         string
	params      form.Params
	files       []form.File
	raw         form.RawBody
	headers     []Header
	auth        *basicAuth
	userAgent   string
	cachePolicy CachePolicy
	timeout     time.Duration
	dispatch    Dispatch
	pins        [][]byte
	onMismatch  func()
	onError     func(*Response, error)
	onCancel    func()
	onProgress  ProgressFunc
}

func (d *Descriptor) Method() Method           { return d.method }
func (d *Descriptor) URL() string              { return d.url }
func (d *Descriptor) Params() form.Params      { return d.params.Clone() }
func (d *Descriptor) Files() []form.File       { return append([]form.File(nil), d.files...) }
func (d *Descriptor) Headers() []Header        { return append([]Header(nil), d.headers...) }
func (d *Descriptor) UserAgent() string        { return d.userAgent }
func (d *Descriptor) CachePolicy() CachePolicy { return d.cachePolicy }
func (d *Descriptor) Timeout() time.Duration   { return d.timeout }
func (d *Descriptor) Dispatch() Dispatch       { return d.dispatch }
func (d *Descriptor) Pinned() bool             { return len(d.pins) > 0 }
func (d *Descriptor) Context() context.Context { return d.ctx }

// requestURL appends the query string for GET requests with parameters.
func (d *Descriptor) requestURL(enc form.Encoder) string {
	if d.method != GET || len(d.params) == 0 {
		return d.url
	}
	query := enc.EncodeQuery(d.params)
	if query == "" {
		return d.url
	}
	sep := "?"
	if strings.Contains(d.url, "?") {
		sep = "&"
	}
	return d.url + sep + query
}

// headerLines computes Content-Type, Content-Length, User-Agent and
// Authorization, then applies the caller's headers. A caller header whose
// key matches a computed header replaces its value; all others are
// appended in order.
func (d *Descriptor) headerLines(body form.Body) []Header {
	lines := make([]Header, 0, 4+len(d.headers))
	if body.ContentType != "" {
		lines = append(lines, Header{Key: "Content-Type", Value: body.ContentType})
	}
	lines = append(lines,
		Header{Key: "Content-Length", Value: body.ContentLength()},
		Header{Key: "User-Agent", Value: d.userAgent},
	)
	if d.auth != nil {
		lines = append(lines, Header{Key: "Authorization", Value: basicAuthValue(d.auth.user, d.auth.password)})
	}

	computed := len(lines)
	for _, h := range d.headers {
		replaced := false
		for i := 0; i < computed; i++ {
			if strings.EqualFold(lines[i].Key, h.Key) {
				lines[i].Value = h.Value
				replaced = true
				break
			}
		}
		if !replaced {
			lines = append(lines, h)
		}
	}
	return lines
}

func basicAuthValue(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}
