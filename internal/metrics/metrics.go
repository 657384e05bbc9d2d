// Package metrics exposes request-layer instrumentation to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmcdole/cinematch/internal/request"
)

// Metrics holds the collectors on a private registry. It implements
// request.Observer.
type Metrics struct {
	registry *prometheus.Registry

	attempts      *prometheus.CounterVec
	attemptTime   *prometheus.HistogramVec
	retries       *prometheus.CounterVec
	calls         *prometheus.CounterVec
	callTime      *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	suggestResult *prometheus.CounterVec
}

var _ request.Observer = (*Metrics)(nil)

// New registers all collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		attempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinematch_request_attempts_total",
				Help: "Network attempts by endpoint and outcome",
			},
			[]string{"method", "endpoint", "outcome"}, // success, retryable, fatal
		),

		attemptTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cinematch_request_attempt_duration_seconds",
				Help:    "Duration of a single network attempt",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "endpoint"},
		),

		retries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinematch_request_retries_total",
				Help: "Backoff waits scheduled by the retry policy",
			},
			[]string{"method", "endpoint"},
		),

		calls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinematch_request_calls_total",
				Help: "Logical calls by endpoint and final error kind",
			},
			[]string{"method", "endpoint", "result"}, // ok, timeout, transport, client_error, ...
		),

		callTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cinematch_request_call_duration_seconds",
				Help:    "Duration of a logical call including retries",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
			},
			[]string{"method", "endpoint"},
		),

		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinematch_cache_lookups_total",
				Help: "Local cache lookups by cache and result",
			},
			[]string{"cache", "result"}, // hit, miss
		),

		suggestResult: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinematch_suggestion_responses_total",
				Help: "Suggestion responses by disposition",
			},
			[]string{"disposition"}, // applied, discarded
		),
	}
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// OnAttempt records one network attempt
func (m *Metrics) OnAttempt(method, path string, attempt int, outcome request.OutcomeKind, elapsed time.Duration) {
	m.attempts.WithLabelValues(method, path, outcome.String()).Inc()
	m.attemptTime.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// OnRetry records a scheduled backoff
func (m *Metrics) OnRetry(method, path string, retry int, delay time.Duration) {
	m.retries.WithLabelValues(method, path).Inc()
}

// OnDone records a finished logical call
func (m *Metrics) OnDone(method, path string, err error, elapsed time.Duration) {
	m.calls.WithLabelValues(method, path, resultLabel(err)).Inc()
	m.callTime.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordCacheLookup counts a local cache hit or miss
func (m *Metrics) RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}

// RecordSuggestion counts a suggestion response as applied or discarded
func (m *Metrics) RecordSuggestion(applied bool) {
	disposition := "discarded"
	if applied {
		disposition = "applied"
	}
	m.suggestResult.WithLabelValues(disposition).Inc()
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var reqErr *request.Error
	if errors.As(err, &reqErr) {
		return reqErr.Kind.String()
	}
	return "cancelled"
}
