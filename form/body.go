package form

import (
	"errors"
	"net/http"
	"strconv"
)

const (
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain;charset=UTF-8"
)

// ErrBodyWithGet is reported as a warning when a GET request carries a
// multipart body. Many servers ignore it; the body is sent anyway.
var ErrBodyWithGet = errors.New("GET request carries a body; the remote server may ignore it")

// RawBody is a caller-supplied body that bypasses parameter encoding.
type RawBody struct {
	Data   []byte
	IsJSON bool
	// ContentType overrides the type derived from IsJSON.
	ContentType string
}

// Empty reports whether there is no raw body.
func (r RawBody) Empty() bool { return len(r.Data) == 0 }

// Body is an encoded request body with its describing headers.
type Body struct {
	Data        []byte
	ContentType string // empty means no Content-Type header
	Warnings    []error
}

// ContentLength is the Content-Length header value, always present.
func (b Body) ContentLength() string {
	return strconv.Itoa(len(b.Data))
}

// Build picks the body for a request: a raw body wins, then a multipart
// body when files are attached, then a form body for non-GET requests with
// parameters. GET parameters belong in the query string and leave the body
// empty.
func (e Encoder) Build(method string, params Params, files []File, raw RawBody, boundary string) (Body, error) {
	var body Body
	isGet := method == http.MethodGet

	if len(params) > 0 {
		body.ContentType = ContentTypeForm
	}

	switch {
	case !raw.Empty():
		body.Data = raw.Data
		switch {
		case raw.ContentType != "":
			body.ContentType = raw.ContentType
		case raw.IsJSON:
			body.ContentType = ContentTypeJSON
		default:
			body.ContentType = ContentTypeText
		}

	case len(files) > 0:
		data, warnings, err := e.EncodeMultipart(params, files, boundary)
		if err != nil {
			return Body{}, err
		}
		body.Data = data
		body.ContentType = MultipartContentType(boundary)
		body.Warnings = warnings
		if isGet {
			body.Warnings = append(body.Warnings, ErrBodyWithGet)
		}

	case len(params) > 0 && !isGet:
		body.Data = e.EncodeFormURL(params)
	}

	if body.Data == nil {
		body.Data = []byte{}
	}
	return body, nil
}
