package httpclient

import (
	"net/http"
	"net/url"
)

// Request describes an outbound HTTP request whose body is already encoded.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is joined to BaseURL unless it is an absolute URL.
	Path string
	// Query is merged into the URL query string.
	Query url.Values
	// Header overrides the adapter's default headers.
	Header http.Header
	// Body is sent as-is. Content-Type must be set in Header when needed.
	Body []byte
}

// Response is the result of an HTTP exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}
