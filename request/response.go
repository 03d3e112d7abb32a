package request

import (
	"net/http"
	"time"

	"github.com/GriffinCanCode/volley/jsonval"
)

// Response is the metadata of a received HTTP response.
type Response struct {
	StatusCode    int
	Status        string
	Header        http.Header
	URL           string // final URL after redirects
	ContentLength int64
	Elapsed       time.Duration
}

func (r *Response) header() http.Header {
	if r == nil {
		return nil
	}
	return r.Header
}

// Result is the outcome of an Operation. Data, Text and JSON are filled up
// to the requested ResponseType: a JSON request fills all three.
type Result struct {
	State    State
	Data     []byte
	Text     string
	JSON     jsonval.Value
	Response *Response
	Err      error
}

// Value returns the representation for t.
func (r Result) Value(t ResponseType) any {
	switch t {
	case String:
		return r.Text
	case JSON:
		return r.JSON
	default:
		return r.Data
	}
}
