package provider

import (
	"context"
	"time"

	"github.com/kbukum/twitterkit/logger"
	"github.com/kbukum/twitterkit/observability"
)

// Describe reports fields for one finished call. The instrumenting
// middlewares attach them to log lines, spans or metric labels. A nil
// Describe adds nothing.
type Describe[I, O any] func(input I, output O, err error) map[string]any

func (d Describe[I, O]) fields(input I, output O, err error) map[string]any {
	if d == nil {
		return nil
	}
	return d(input, output, err)
}

// instrumented runs inner and hands the outcome to after. Name and
// availability pass through, so the wrapper is invisible to callers.
type instrumented[I, O any] struct {
	inner  RequestResponse[I, O]
	around func(ctx context.Context, input I, call func(context.Context) (O, error)) (O, error)
}

func (w *instrumented[I, O]) Name() string                         { return w.inner.Name() }
func (w *instrumented[I, O]) IsAvailable(ctx context.Context) bool { return w.inner.IsAvailable(ctx) }

func (w *instrumented[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return w.around(ctx, input, func(ctx context.Context) (O, error) {
		return w.inner.Execute(ctx, input)
	})
}

// WithLogging logs each call with the provider name, its duration and the
// fields from describe. Failures log at warn level, successes at debug.
func WithLogging[I, O any](log *logger.Logger, describe Describe[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &instrumented[I, O]{inner: inner, around: func(ctx context.Context, input I, call func(context.Context) (O, error)) (O, error) {
			start := time.Now()
			output, err := call(ctx)

			fields := logger.MergeWithDuration(describe.fields(input, output, err), time.Since(start))
			fields["provider"] = inner.Name()
			if err != nil {
				fields[logger.FieldError] = err.Error()
				log.Warn("call failed", fields)
			} else {
				log.Debug("call finished", fields)
			}
			return output, err
		}}
	}
}

// WithMetrics records every call on metrics under the provider name,
// labelled with the fields from describe. Labels must have low cardinality.
func WithMetrics[I, O any](metrics *observability.Metrics, describe Describe[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &instrumented[I, O]{inner: inner, around: func(ctx context.Context, input I, call func(context.Context) (O, error)) (O, error) {
			start := time.Now()
			output, err := call(ctx)
			metrics.RecordCall(ctx, inner.Name(), time.Since(start), err, describe.fields(input, output, err))
			return output, err
		}}
	}
}

// WithTracing opens a span named "{serviceName}.{providerName}" around each
// call and sets the fields from describe as span attributes.
func WithTracing[I, O any](serviceName string, describe Describe[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &instrumented[I, O]{inner: inner, around: func(ctx context.Context, input I, call func(context.Context) (O, error)) (O, error) {
			ctx, span := observability.StartSpan(ctx, serviceName+"."+inner.Name())
			defer span.End()

			observability.SetSpanAttribute(ctx, observability.AttrServiceName, serviceName)
			observability.SetSpanAttribute(ctx, observability.AttrOperationName, inner.Name())

			output, err := call(ctx)
			observability.SetSpanAttributes(ctx, describe.fields(input, output, err))
			if err != nil {
				observability.SetSpanError(ctx, err)
			}
			return output, err
		}}
	}
}
