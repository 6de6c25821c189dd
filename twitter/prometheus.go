package twitter

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector exports call and rate-limit metrics. It is safe for
// concurrent use.
type PrometheusCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec

	rateLimitLimit     prometheus.Gauge
	rateLimitRemaining prometheus.Gauge
	rateLimitReset     prometheus.Gauge
}

// NewPrometheusCollector registers the collector's metrics on registry.
func NewPrometheusCollector(registry prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(registry)
	return &PrometheusCollector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "twitter_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "status_code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "twitter_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "twitter_errors_total",
				Help: "Total number of failed API requests by error kind",
			},
			[]string{"kind"},
		),
		rateLimitLimit: factory.NewGauge(prometheus.GaugeOpts{
			Name: "twitter_rate_limit_limit",
			Help: "Request ceiling of the current rate-limit window",
		}),
		rateLimitRemaining: factory.NewGauge(prometheus.GaugeOpts{
			Name: "twitter_rate_limit_remaining",
			Help: "Requests left in the current rate-limit window",
		}),
		rateLimitReset: factory.NewGauge(prometheus.GaugeOpts{
			Name: "twitter_rate_limit_reset_timestamp_seconds",
			Help: "Unix time at which the current rate-limit window resets",
		}),
	}
}

// ObserveRateLimit publishes info on the rate-limit gauges. Unknown state
// is skipped.
func (pc *PrometheusCollector) ObserveRateLimit(info RateLimitInfo) {
	if pc == nil || !info.Known() {
		return
	}
	pc.rateLimitLimit.Set(float64(info.Limit))
	pc.rateLimitRemaining.Set(float64(info.Remaining))
	if !info.ResetAt.IsZero() {
		pc.rateLimitReset.Set(float64(info.ResetAt.Unix()))
	}
}

// RecordRequest records one finished call.
func (pc *PrometheusCollector) RecordRequest(method string, statusCode int, err error, d time.Duration) {
	if pc == nil {
		return
	}
	pc.requestsTotal.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	pc.requestDuration.WithLabelValues(method).Observe(d.Seconds())
	if e, ok := AsError(err); ok {
		pc.errorsTotal.WithLabelValues(e.Code.String()).Inc()
	} else if err != nil {
		pc.errorsTotal.WithLabelValues("unknown").Inc()
	}
}

// Middleware returns a stage recording every call. Placed outside the
// classifiers it sees their errors; the rate-limit gauges follow the
// response headers either way.
func (pc *PrometheusCollector) Middleware() Middleware {
	return prometheusStage{pc: pc}
}

type prometheusStage struct {
	pc *PrometheusCollector
}

func (prometheusStage) Name() string { return "prometheus" }

func (s prometheusStage) Wrap(next Handler) Handler {
	return passThrough(next, func(ctx context.Context, req *Request) (*Response, error) {
		start := time.Now()
		resp, err := next.Execute(ctx, req)

		status := 0
		if resp != nil {
			status = resp.StatusCode
			if info, ok := ParseRateLimit(resp.Header, time.Now()); ok {
				s.pc.ObserveRateLimit(info)
			}
		}
		s.pc.RecordRequest(req.Method, status, err, time.Since(start))
		return resp, err
	})
}
