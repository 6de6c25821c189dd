package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded around API calls.
type Metrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
	failures metric.Int64Counter
}

// NewMetrics creates the call instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	calls, err := meter.Int64Counter("api.calls",
		metric.WithDescription("API calls by operation and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating api.calls counter: %w", err)
	}

	duration, err := meter.Float64Histogram("api.call.duration",
		metric.WithDescription("Duration of API calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating api.call.duration histogram: %w", err)
	}

	failures, err := meter.Int64Counter("api.call.failures",
		metric.WithDescription("Failed API calls by operation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating api.call.failures counter: %w", err)
	}

	return &Metrics{calls: calls, duration: duration, failures: failures}, nil
}

// RecordCall records one finished call of operation. labels are added to
// every instrument and must have low cardinality.
func (m *Metrics) RecordCall(ctx context.Context, operation string, d time.Duration, err error, labels map[string]any) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	attrs := append(Attributes(labels), attribute.String("operation", operation))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
	if err != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	m.calls.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("outcome", outcome))...))
}
