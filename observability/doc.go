// Package observability wires OpenTelemetry tracing and metrics for
// twitterkit.
//
// Init installs OTLP/HTTP exporters as the global providers. Metrics holds
// the instruments recorded by the pipeline's optional metrics middleware.
package observability
