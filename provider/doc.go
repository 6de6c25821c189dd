// Package provider defines the generic request/response abstraction the
// twitter pipeline is built on.
//
// A RequestResponse[I, O] takes one input and returns one output. A
// Middleware[I, O] wraps one RequestResponse in another, and Chain
// composes several so the first one is outermost:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log, describe),
//	    provider.WithMetrics[In, Out](metrics, nil),
//	    provider.WithTracing[In, Out]("twitter", describe),
//	)(transport)
//
// The instrumenting middlewares take a Describe hook that turns each
// finished call into log fields, span attributes or metric labels.
//
// Func adapts a plain function into a named RequestResponse.
package provider
