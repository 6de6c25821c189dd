package twitter

import (
	"context"
	"slices"

	"github.com/kbukum/twitterkit/provider"
)

// Handler processes a request and returns its response.
type Handler = provider.RequestResponse[*Request, *Response]

// HandlerFunc is the function form of a Handler.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// NewHandler names fn as a Handler.
func NewHandler(name string, fn HandlerFunc) Handler {
	return provider.Func[*Request, *Response](name, fn)
}

// Middleware is one stage of the pipeline.
type Middleware interface {
	// Name identifies the stage in a Stack.
	Name() string
	// Wrap returns a handler that runs this stage around next.
	Wrap(next Handler) Handler
}

// Stack is an ordered list of middlewares, outermost first: the first
// entry sees the request first and the response last.
type Stack []Middleware

// DefaultMiddleware returns the standard pipeline. On the way in, a
// response meets the rate-limit tracker first and the client-error
// classifier last, so limit state and parsed bodies are recorded even
// for calls that fail.
func DefaultMiddleware() Stack {
	return Stack{
		MultipartWithFile{},
		Multipart{},
		URLEncoded{},
		RaiseClientError{},
		RaiseServerError{},
		ParseJSON{},
		RateLimitTracker{},
	}
}

// Build wraps h in every middleware of the stack.
func (s Stack) Build(h Handler) Handler {
	mws := make([]provider.Middleware[*Request, *Response], 0, len(s))
	for _, m := range s {
		if m != nil {
			mws = append(mws, m.Wrap)
		}
	}
	return provider.Chain(mws...)(h)
}

// Names lists the stage names in order.
func (s Stack) Names() []string {
	names := make([]string, 0, len(s))
	for _, m := range s {
		if m != nil {
			names = append(names, m.Name())
		}
	}
	return names
}

// Index returns the position of the first stage named name, or -1.
func (s Stack) Index(name string) int {
	return slices.IndexFunc(s, func(m Middleware) bool { return m != nil && m.Name() == name })
}

// Clone returns a copy of the stack.
func (s Stack) Clone() Stack {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// Prepend returns a new stack with m outside every existing stage.
func (s Stack) Prepend(m ...Middleware) Stack {
	return append(slices.Clone(m), s...)
}

// Append returns a new stack with m inside every existing stage, next to
// the transport.
func (s Stack) Append(m ...Middleware) Stack {
	return append(s.Clone(), m...)
}

// InsertBefore returns a new stack with m placed just outside the stage
// named name, or appended when there is no such stage.
func (s Stack) InsertBefore(name string, m ...Middleware) Stack {
	i := s.Index(name)
	if i < 0 {
		return s.Append(m...)
	}
	return slices.Insert(s.Clone(), i, m...)
}

// Replace returns a new stack with the stage named name swapped for m,
// or appended when there is no such stage.
func (s Stack) Replace(name string, m Middleware) Stack {
	i := s.Index(name)
	if i < 0 {
		return s.Append(m)
	}
	out := s.Clone()
	out[i] = m
	return out
}

// passThrough wraps next with a stage that only inspects or rewrites.
func passThrough(next Handler, fn HandlerFunc) Handler {
	return NewHandler(next.Name(), fn)
}
