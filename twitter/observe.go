package twitter

import (
	"github.com/kbukum/twitterkit/logger"
	"github.com/kbukum/twitterkit/observability"
	"github.com/kbukum/twitterkit/provider"
)

// FieldErrorKind is the log, span and metric key carrying Error.Code.
const FieldErrorKind = "error_kind"

// providerStage adapts a generic provider middleware to a Stack entry.
type providerStage struct {
	name string
	mw   provider.Middleware[*Request, *Response]
}

func (p providerStage) Name() string              { return p.name }
func (p providerStage) Wrap(next Handler) Handler { return p.mw(next) }

// Logging logs every call that passes this point of the stack with its
// request ID, method, path and response status.
func Logging(log *logger.Logger) Middleware {
	return providerStage{name: "logging", mw: provider.WithLogging[*Request, *Response](log, describeCall)}
}

// Metrics records call counts, durations and failures on m, labelled by
// method, status and error kind.
func Metrics(m *observability.Metrics) Middleware {
	return providerStage{name: "metrics", mw: provider.WithMetrics[*Request, *Response](m, callLabels)}
}

// Tracing opens a span per call and tags it like Logging does.
func Tracing(serviceName string) Middleware {
	return providerStage{name: "tracing", mw: provider.WithTracing[*Request, *Response](serviceName, describeCall)}
}

func describeCall(req *Request, resp *Response, err error) map[string]any {
	fields := callLabels(req, resp, err)
	fields[logger.FieldPath] = req.Path
	if req.ID != "" {
		fields[logger.FieldRequestID] = req.ID
	}
	return fields
}

// callLabels leaves out the request ID and path, which are unbounded.
func callLabels(req *Request, resp *Response, err error) map[string]any {
	fields := map[string]any{logger.FieldMethod: req.Method}
	if resp != nil {
		fields[logger.FieldStatus] = resp.StatusCode
	}
	if e, ok := AsError(err); ok {
		fields[FieldErrorKind] = e.Code.String()
	}
	return fields
}
