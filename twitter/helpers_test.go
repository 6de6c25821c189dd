package twitter

import (
	"context"
	"net/http"
	"sync"
)

// replyHandler returns a terminal handler that records the request it
// receives and answers with a fresh copy of the given response.
func replyHandler(status int, contentType, body string, header http.Header) (Handler, *capture) {
	c := &capture{}
	h := NewHandler("stub", func(_ context.Context, req *Request) (*Response, error) {
		c.set(req)
		hdr := header.Clone()
		if hdr == nil {
			hdr = make(http.Header)
		}
		if contentType != "" {
			hdr.Set("Content-Type", contentType)
		}
		var b []byte
		if body != "" {
			b = []byte(body)
		}
		return &Response{StatusCode: status, Header: hdr, Body: b, Request: req}, nil
	})
	return h, c
}

type capture struct {
	mu  sync.Mutex
	req *Request
}

func (c *capture) set(req *Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.req = req
}

func (c *capture) get() *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.req
}

// traceStage logs when a request enters and a response leaves it.
type traceStage struct {
	name string
	log  *[]string
}

func (s traceStage) Name() string { return s.name }

func (s traceStage) Wrap(next Handler) Handler {
	return passThrough(next, func(ctx context.Context, req *Request) (*Response, error) {
		*s.log = append(*s.log, "in:"+s.name)
		resp, err := next.Execute(ctx, req)
		*s.log = append(*s.log, "out:"+s.name)
		return resp, err
	})
}
