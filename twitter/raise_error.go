package twitter

import "context"

// RaiseClientError fails calls whose response status is 4xx with an
// ErrCodeClient error. The response is returned alongside the error.
type RaiseClientError struct{}

func (RaiseClientError) Name() string { return "raise_client_error" }

func (RaiseClientError) Wrap(next Handler) Handler {
	return raiseOnStatus(next, ErrCodeClient, 400, 499)
}

// RaiseServerError fails calls whose response status is 5xx with an
// ErrCodeServer error. It never retries.
type RaiseServerError struct{}

func (RaiseServerError) Name() string { return "raise_server_error" }

func (RaiseServerError) Wrap(next Handler) Handler {
	return raiseOnStatus(next, ErrCodeServer, 500, 599)
}

func raiseOnStatus(next Handler, code ErrorCode, lo, hi int) Handler {
	return passThrough(next, func(ctx context.Context, req *Request) (*Response, error) {
		resp, err := next.Execute(ctx, req)
		if err != nil || resp == nil {
			return resp, err
		}
		if resp.StatusCode >= lo && resp.StatusCode <= hi {
			return resp, newStatusError(code, resp)
		}
		return resp, nil
	})
}
