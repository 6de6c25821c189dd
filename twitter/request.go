package twitter

import (
	"maps"
	"net/http"
)

// Params are request parameters. Values are scalars, nested Params or
// map[string]any, []any or other slices, and file values (*File,
// FileLike, *UploadPart).
type Params = map[string]any

// Request is one outgoing API call. Middlewares never modify a Request
// they receive; they pass a modified copy inward.
type Request struct {
	// ID correlates log lines of one call. The Client fills it in.
	ID     string
	Method string
	// Path is relative to the configured endpoint, or an absolute URL.
	Path   string
	Params Params
	Header http.Header
	// Body is nil until an encoding stage fills it. A request without a
	// body sends Params as the query string.
	Body []byte
	// Raw keeps Response.Body after a successful parse.
	Raw bool
}

// NewRequest creates a request with an empty header.
func NewRequest(method, path string, params Params) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Params: params,
		Header: make(http.Header),
	}
}

// Clone returns a copy whose header can be modified independently.
// Params and Body are shared.
func (r *Request) Clone() *Request {
	c := *r
	c.Header = r.Header.Clone()
	if c.Header == nil {
		c.Header = make(http.Header)
	}
	return &c
}

// withParams returns a copy of r carrying params.
func (r *Request) withParams(params Params) *Request {
	c := r.Clone()
	c.Params = params
	return c
}

// withBody returns a copy of r carrying an encoded body.
func (r *Request) withBody(body []byte, contentType string) *Request {
	c := r.Clone()
	c.Body = body
	c.Header.Set("Content-Type", contentType)
	return c
}

// hasBodyMethod reports whether params go into the body for method.
func hasBodyMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func cloneParams(p Params) Params {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}
