package twitter

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusCollector_Middleware(t *testing.T) {
	pc := NewPrometheusCollector(prometheus.NewRegistry())
	stack := DefaultMiddleware().Prepend(pc.Middleware())
	ctx := ContextWithRateLimit(context.Background(), NewRateLimit())

	ok, _ := replyHandler(http.StatusOK, "application/json", `{}`,
		rateHeader(HeaderRateLimitLimit, "15", HeaderRateLimitRemaining, "14", HeaderRateLimitReset, "1700000900"))
	if _, err := stack.Build(ok).Execute(ctx, NewRequest(http.MethodGet, "/", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing, _ := replyHandler(http.StatusNotFound, "application/json", `{"error":"Not Found"}`, nil)
	if _, err := stack.Build(missing).Execute(ctx, NewRequest(http.MethodGet, "/", nil)); err == nil {
		t.Fatal("expected a client error")
	}

	if got := testutil.ToFloat64(pc.requestsTotal.WithLabelValues("GET", "200")); got != 1 {
		t.Errorf("expected one 200, got %v", got)
	}
	if got := testutil.ToFloat64(pc.requestsTotal.WithLabelValues("GET", "404")); got != 1 {
		t.Errorf("expected one 404, got %v", got)
	}
	if got := testutil.ToFloat64(pc.errorsTotal.WithLabelValues("client")); got != 1 {
		t.Errorf("expected one client error, got %v", got)
	}
	if got := testutil.ToFloat64(pc.rateLimitRemaining); got != 14 {
		t.Errorf("expected remaining 14, got %v", got)
	}
	if got := testutil.ToFloat64(pc.rateLimitReset); got != 1700000900 {
		t.Errorf("expected reset timestamp, got %v", got)
	}
}

func TestPrometheusCollector_TransportFailure(t *testing.T) {
	pc := NewPrometheusCollector(prometheus.NewRegistry())
	failing := NewHandler("failing", func(context.Context, *Request) (*Response, error) {
		return nil, newTransportError(context.DeadlineExceeded)
	})

	if _, err := pc.Middleware().Wrap(failing).Execute(context.Background(), NewRequest(http.MethodPost, "/", nil)); err == nil {
		t.Fatal("expected the error to pass through")
	}
	if got := testutil.ToFloat64(pc.requestsTotal.WithLabelValues("POST", "0")); got != 1 {
		t.Errorf("expected a request with status 0, got %v", got)
	}
	if got := testutil.ToFloat64(pc.errorsTotal.WithLabelValues("transport")); got != 1 {
		t.Errorf("expected one transport error, got %v", got)
	}
}

func TestPrometheusCollector_IgnoresUnknownRateLimit(t *testing.T) {
	pc := NewPrometheusCollector(prometheus.NewRegistry())
	pc.ObserveRateLimit(RateLimitInfo{Limit: 5})
	if got := testutil.ToFloat64(pc.rateLimitLimit); got != 0 {
		t.Errorf("expected unknown state to be skipped, got %v", got)
	}

	pc.ObserveRateLimit(RateLimitInfo{Limit: 5, Remaining: 2, UpdatedAt: time.Now()})
	if got := testutil.ToFloat64(pc.rateLimitLimit); got != 5 {
		t.Errorf("expected limit 5, got %v", got)
	}

	var nilCollector *PrometheusCollector
	nilCollector.ObserveRateLimit(RateLimitInfo{UpdatedAt: time.Now()})
	nilCollector.RecordRequest(http.MethodGet, 200, nil, time.Millisecond)
}
