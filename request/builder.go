package request

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/GriffinCanCode/volley/form"
	"github.com/GriffinCanCode/volley/jsonval"
)

// ProgressFunc receives upload progress; percent is in [0, 100].
type ProgressFunc func(sent, total int64, percent float64)

type basicAuth struct {
	user     string
	password string
}

// Builder configures one request. It is owned by a single goroutine until
// fired. Every setter returns the same *Builder for chaining. Add* setters
// accumulate; all other setters replace earlier values.
type Builder struct {
	client   *Client
	ctx      context.Context
	method   Method
	target   string
	absolute bool

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

// SetContext sets the parent context of the transport call. Cancelling it
// cancels the operation.
func (b *Builder) SetContext(ctx context.Context) *Builder {
	b.ctx = ctx
	return b
}

// SetParams replaces all parameters.
func (b *Builder) SetParams(params form.Params) *Builder {
	b.params = params.Clone()
	return b
}

// AddParam sets one parameter, keeping the others.
func (b *Builder) AddParam(key string, value form.Value) *Builder {
	if b.params == nil {
		b.params = make(form.Params)
	}
	b.params[key] = value
	return b
}

// AddParams merges params into the existing parameters.
func (b *Builder) AddParams(params form.Params) *Builder {
	for k, v := range params {
		b.AddParam(k, v)
	}
	return b
}

// SetFiles replaces all attachments.
func (b *Builder) SetFiles(files []form.File) *Builder {
	b.files = append([]form.File(nil), files...)
	return b
}

// AddFile appends one attachment.
func (b *Builder) AddFile(file form.File) *Builder {
	b.files = append(b.files, file)
	return b
}

// AddFiles appends attachments in order.
func (b *Builder) AddFiles(files ...form.File) *Builder {
	b.files = append(b.files, files...)
	return b
}

// AddHeader appends a header line. Duplicate keys are kept.
func (b *Builder) AddHeader(key, value string) *Builder {
	b.headers = append(b.headers, Header{Key: key, Value: value})
	return b
}

// AddHeaders appends headers in sorted key order.
func (b *Builder) AddHeaders(headers map[string]string) *Builder {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.AddHeader(k, headers[k])
	}
	return b
}

// SetHeaders discards every header added so far, then adds headers.
func (b *Builder) SetHeaders(headers map[string]string) *Builder {
	return b.ClearHeaders().AddHeaders(headers)
}

// ClearHeaders discards every header added so far.
func (b *Builder) ClearHeaders() *Builder {
	b.headers = nil
	return b
}

// SetRawBody sends body verbatim, typed as JSON or UTF-8 text. A raw body
// takes precedence over parameters and files.
func (b *Builder) SetRawBody(body []byte, isJSON bool) *Builder {
	b.raw = form.RawBody{Data: bytes.Clone(body), IsJSON: isJSON}
	return b
}

// SetRawBodyType sends body verbatim with an explicit Content-Type.
func (b *Builder) SetRawBodyType(body []byte, contentType string) *Builder {
	b.raw = form.RawBody{Data: bytes.Clone(body), ContentType: contentType}
	return b
}

// SetJSONBody sends the serialized value as a JSON raw body. An absent
// value clears the raw body.
func (b *Builder) SetJSONBody(v jsonval.Value) *Builder {
	text, ok := v.Serialize()
	if !ok {
		b.raw = form.RawBody{}
		return b
	}
	return b.SetRawBody([]byte(text), true)
}

// SetBasicAuth sends an Authorization: Basic header.
func (b *Builder) SetBasicAuth(user, password string) *Builder {
	b.auth = &basicAuth{user: user, password: password}
	return b
}

// SetUserAgent overrides the client's User-Agent for this request.
func (b *Builder) SetUserAgent(agent string) *Builder {
	b.userAgent = agent
	return b
}

// SetCachePolicy sets the cache policy passed to the Transport.
func (b *Builder) SetCachePolicy(policy CachePolicy) *Builder {
	b.cachePolicy = policy
	return b
}

// SetTimeout overrides the client's default timeout.
func (b *Builder) SetTimeout(d time.Duration) *Builder {
	b.timeout = d
	return b
}

// SetDispatch selects Async (default) or Sync execution.
func (b *Builder) SetDispatch(d Dispatch) *Builder {
	b.dispatch = d
	return b
}

// SetPinnedCertificates restricts trust to the given DER certificates.
// onMismatch runs at most once per operation when the server presents any
// other certificate.
func (b *Builder) SetPinnedCertificates(ders [][]byte, onMismatch func()) *Builder {
	b.pins = clonePins(ders)
	b.onMismatch = onMismatch
	return b
}

// OnError sets the error callback.
func (b *Builder) OnError(fn func(*Response, error)) *Builder {
	b.onError = fn
	return b
}

// OnCancel sets the cancel callback.
func (b *Builder) OnCancel(fn func()) *Builder {
	b.onCancel = fn
	return b
}

// HandleProgress sets the upload progress callback.
func (b *Builder) HandleProgress(fn ProgressFunc) *Builder {
	b.onProgress = fn
	return b
}

// Build snapshots the builder. Later changes to the builder do not affect
// the returned Descriptor.
func (b *Builder) Build() (*Descriptor, error) {
	if !b.method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, string(b.method))
	}
	target, err := b.resolveURL()
	if err != nil {
		return nil, err
	}

	ctx := b.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := b.timeout
	if timeout <= 0 {
		timeout = b.client.cfg.Timeout
	}
	userAgent := b.userAgent
	if userAgent == "" {
		userAgent = b.client.cfg.UserAgent
	}

	files := make([]form.File, len(b.files))
	for i, f := range b.files {
		f.Data = bytes.Clone(f.Data)
		files[i] = f
	}

	d := &Descriptor{
		ctx:         ctx,
		method:      b.method,
		url:         target,
		params:      b.params.Clone(),
		files:       files,
		raw:         form.RawBody{Data: bytes.Clone(b.raw.Data), IsJSON: b.raw.IsJSON, ContentType: b.raw.ContentType},
		headers:     append([]Header(nil), b.headers...),
		userAgent:   userAgent,
		cachePolicy: b.cachePolicy,
		timeout:     timeout,
		dispatch:    b.dispatch,
		pins:        clonePins(b.pins),
		onMismatch:  b.onMismatch,
		onError:     b.onError,
		onCancel:    b.onCancel,
		onProgress:  b.onProgress,
	}
	if b.auth != nil {
		auth := *b.auth
		d.auth = &auth
	}
	return d, nil
}

func (b *Builder) resolveURL() (string, error) {
	target := b.target
	if !b.absolute && !isAbsolute(target) {
		target = JoinURL(b.client.cfg.BaseURL, target)
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidURL, target)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrInvalidURL, target)
	}
	return target, nil
}

// FireForData fires the request and hands the raw response bytes to fn.
func (b *Builder) FireForData(fn func([]byte, *Response)) (*Operation, error) {
	return b.fire(Data, func(r Result) {
		if fn != nil {
			fn(r.Data, r.Response)
		}
	})
}

// FireForString fires the request and hands the response text to fn.
func (b *Builder) FireForString(fn func(string, *Response)) (*Operation, error) {
	return b.fire(String, func(r Result) {
		if fn != nil {
			fn(r.Text, r.Response)
		}
	})
}

// FireForJSON fires the request and hands the parsed response to fn.
func (b *Builder) FireForJSON(fn func(jsonval.Value, *Response)) (*Operation, error) {
	return b.fire(JSON, func(r Result) {
		if fn != nil {
			fn(r.JSON, r.Response)
		}
	})
}

// Fire is FireForJSON.
func (b *Builder) Fire(fn func(jsonval.Value, *Response)) (*Operation, error) {
	return b.FireForJSON(fn)
}

// FireFor fires the request and hands fn the representation selected by
// t: []byte, string or jsonval.Value.
func (b *Builder) FireFor(t ResponseType, fn func(any, *Response, ResponseType)) (*Operation, error) {
	return b.fire(t, func(r Result) {
		if fn != nil {
			fn(r.Value(t), r.Response, t)
		}
	})
}

func (b *Builder) fire(t ResponseType, onSuccess func(Result)) (*Operation, error) {
	d, err := b.Build()
	if err != nil {
		return nil, err
	}
	return b.client.execute(d, t, onSuccess)
}
