package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults("twitterctl")

	if cfg.ServiceName != "twitterctl" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" || !cfg.Insecure {
		t.Errorf("expected an insecure local endpoint, got %q insecure=%v", cfg.Endpoint, cfg.Insecure)
	}
	if cfg.SampleRate != 1 {
		t.Errorf("SampleRate = %g", cfg.SampleRate)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("Interval = %v", cfg.Interval)
	}

	kept := Config{ServiceName: "svc", Endpoint: "otel:4318", SampleRate: 0.5}
	kept.ApplyDefaults("twitterctl")
	if kept.ServiceName != "svc" || kept.Endpoint != "otel:4318" || kept.Insecure || kept.SampleRate != 0.5 {
		t.Errorf("explicit values were overwritten: %+v", kept)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{SampleRate: 1, Interval: time.Second}, false},
		{"rate above one", Config{SampleRate: 1.5}, true},
		{"negative rate", Config{SampleRate: -0.1}, true},
		{"negative interval", Config{SampleRate: 1, Interval: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSampler(t *testing.T) {
	if got := sampler(1).Description(); got != "AlwaysOnSampler" {
		t.Errorf("sampler(1) = %s", got)
	}
	if got := sampler(0).Description(); got != "AlwaysOffSampler" {
		t.Errorf("sampler(0) = %s", got)
	}
}

func TestAttribute(t *testing.T) {
	tests := []struct {
		value any
		want  attribute.Type
	}{
		{"GET", attribute.STRING},
		{404, attribute.INT64},
		{int64(7), attribute.INT64},
		{0.5, attribute.FLOAT64},
		{true, attribute.BOOL},
		{time.Second, attribute.INT64},
		{[]string{"a"}, attribute.STRING},
	}
	for _, tt := range tests {
		if got := Attribute("k", tt.value).Value.Type(); got != tt.want {
			t.Errorf("Attribute(%v) type = %v, want %v", tt.value, got, tt.want)
		}
	}
	if got := Attribute("d", 2*time.Second).Value.AsInt64(); got != 2000 {
		t.Errorf("duration attribute = %d, want 2000", got)
	}
}

func TestMetrics_Noop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	metrics.RecordCall(context.Background(), "transport", 50*time.Millisecond, errors.New("boom"), map[string]any{"method": "GET"})
}

func TestMetrics_RecordCall(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	metrics.RecordCall(context.Background(), "transport", time.Millisecond, nil, map[string]any{"status": 200})

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	seen := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			seen[m.Name] = true
			if m.Name != "api.calls" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok || len(sum.DataPoints) != 1 {
				t.Fatalf("unexpected api.calls data: %#v", m.Data)
			}
			outcome, _ := sum.DataPoints[0].Attributes.Value("outcome")
			if outcome.AsString() != "ok" {
				t.Errorf("outcome = %q", outcome.AsString())
			}
		}
	}
	if !seen["api.calls"] || !seen["api.call.duration"] {
		t.Errorf("expected calls and duration to be recorded, got %v", seen)
	}
	if seen["api.call.failures"] {
		t.Error("a successful call must not count as a failure")
	}
}

func TestStartSpan_RecordsAttributesAndError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), "twitter.request")
	SetSpanAttribute(ctx, "method", "GET")
	SetSpanAttributes(ctx, map[string]any{"status": 404})
	SetSpanError(ctx, errors.New("not found"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	s := ended[0]
	if s.Name() != "twitter.request" {
		t.Errorf("span name = %q", s.Name())
	}
	if s.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", s.Status().Code)
	}
	if len(s.Attributes()) != 2 {
		t.Errorf("expected 2 attributes, got %d", len(s.Attributes()))
	}
}

func TestSetSpanAttributeNoSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "key", "value")
	SetSpanAttributes(context.Background(), map[string]any{"key": 1})
	SetSpanError(context.Background(), errors.New("ignored"))
}

func TestInit(t *testing.T) {
	prevTracer, prevMeter := otel.GetTracerProvider(), otel.GetMeterProvider()
	defer func() {
		otel.SetTracerProvider(prevTracer)
		otel.SetMeterProvider(prevMeter)
	}()

	var cfg Config
	cfg.ApplyDefaults("test")
	tel, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if otel.GetTracerProvider() != tel.tracer {
		t.Error("expected the tracer provider to be installed globally")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = tel.Shutdown(ctx)
}

func TestShutdownNil(t *testing.T) {
	var tel *Telemetry
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown on nil = %v", err)
	}
}
