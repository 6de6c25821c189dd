package twitter

import (
	"context"
	"fmt"
)

const contentTypeForm = "application/x-www-form-urlencoded"

// URLEncoded encodes the params of POST, PUT and PATCH requests as an
// application/x-www-form-urlencoded body. Other methods, requests that
// already have a body, and requests without params pass through; the
// transport sends their params as the query string.
type URLEncoded struct{}

func (URLEncoded) Name() string { return "url_encoded" }

func (URLEncoded) Wrap(next Handler) Handler {
	return passThrough(next, func(ctx context.Context, req *Request) (*Response, error) {
		if req.Body != nil || len(req.Params) == 0 || !hasBodyMethod(req.Method) {
			return next.Execute(ctx, req)
		}
		values, err := encodeValues(req.Params)
		if err != nil {
			return nil, newTransportError(fmt.Errorf("encode form body: %w", err))
		}
		return next.Execute(ctx, req.withBody([]byte(values.Encode()), contentTypeForm))
	})
}
