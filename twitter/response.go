package twitter

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
)

// Response is the result of an API call.
type Response struct {
	StatusCode int
	Header     http.Header
	// Body is the raw body. ParseJSON drops it after parsing unless the
	// request was Raw.
	Body []byte
	// Data is the parsed body: map[string]any, []any or a scalar, with
	// integral numbers as int64 and the rest as float64.
	Data any
	// Parsed reports whether ParseJSON handled the body.
	Parsed  bool
	Request *Request
}

// IsEmpty reports a body that parsed to nothing.
func (r *Response) IsEmpty() bool {
	return r.Parsed && r.Data == nil
}

// Map returns Data as an object.
func (r *Response) Map() (map[string]any, bool) {
	m, ok := r.Data.(map[string]any)
	return m, ok
}

// Slice returns Data as an array.
func (r *Response) Slice() ([]any, bool) {
	s, ok := r.Data.([]any)
	return s, ok
}

// Decode unmarshals the response into v. It uses Body when present and
// re-encodes Data otherwise.
func (r *Response) Decode(v any) error {
	if len(r.Body) > 0 {
		return json.Unmarshal(r.Body, v)
	}
	if !r.Parsed {
		return errors.New("twitter: response has neither body nor parsed data")
	}
	data, err := json.Marshal(r.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
