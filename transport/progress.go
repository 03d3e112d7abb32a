package transport

import (
	"context"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

type progressKey struct{}

func withProgress(ctx context.Context, fn func(sent, total int64)) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

// trackUpload wraps the outgoing body so reads report progress to the
// function carried in the request context.
func trackUpload(_ *resty.Client, req *http.Request) error {
	fn, ok := req.Context().Value(progressKey{}).(func(sent, total int64))
	if !ok || req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	req.Body = &progressReader{ReadCloser: req.Body, total: req.ContentLength, report: fn}
	return nil
}

type progressReader struct {
	io.ReadCloser
	sent   int64
	total  int64
	report func(sent, total int64)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	if n > 0 {
		r.sent += int64(n)
		r.report(r.sent, r.total)
	}
	return n, err
}
