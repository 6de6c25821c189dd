package twitter

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

// ParseJSON decodes JSON response bodies into Response.Data. A body is
// parsed when the Content-Type is a JSON type, when there is no
// Content-Type and the body starts with '{' or '[', or always when Force
// is set. A blank body always parses to nil. Malformed JSON fails the
// call with an ErrCodeParse error.
//
// The default stack carries ParseJSON{}. Configuration has no option for
// Force; swap the stage to parse every body:
//
//	c.Middleware = c.Middleware.Replace("parse_json", ParseJSON{Force: true})
//
// ConnectionOptions.Raw only decides whether Body is kept next to Data.
type ParseJSON struct {
	Force bool
}

func (ParseJSON) Name() string { return "parse_json" }

func (p ParseJSON) Wrap(next Handler) Handler {
	return passThrough(next, func(ctx context.Context, req *Request) (*Response, error) {
		resp, err := next.Execute(ctx, req)
		if err != nil || resp == nil {
			return resp, err
		}
		if len(bytes.TrimSpace(resp.Body)) == 0 {
			resp.Data = nil
			resp.Parsed = true
			return resp, nil
		}
		if !p.Force && !looksLikeJSON(resp) {
			return resp, nil
		}

		data, err := decodeJSON(resp.Body)
		if err != nil {
			return resp, newParseError(resp, err)
		}
		resp.Data = data
		resp.Parsed = true
		if !req.Raw {
			resp.Body = nil
		}
		return resp, nil
	})
}

func looksLikeJSON(resp *Response) bool {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		trimmed := bytes.TrimSpace(resp.Body)
		return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
	}
	return isJSONContentType(ct)
}

func isJSONContentType(ct string) bool {
	mediaType, _, _ := strings.Cut(ct, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	switch mediaType {
	case "application/json", "text/json", "text/javascript", "application/javascript":
		return true
	}
	return strings.HasSuffix(mediaType, "+json")
}

// decodeJSON parses body keeping integral numbers exact: tweet and user
// IDs overflow float64.
func decodeJSON(body []byte) (any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		var discard any
		if err := json.Unmarshal(trimmed, &discard); err != nil {
			return nil, err
		}
		return nil, errors.New("invalid JSON body")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalizeNumbers(v), nil
}

func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeNumbers(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalizeNumbers(item)
		}
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		return v
	}
}
