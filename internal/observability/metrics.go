// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the relay.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets defines histogram buckets suited for LLM completion latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method, path and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrelay_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatrelay_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "path"},
	)

	// RelayRequestsTotal counts relay outcomes: "ok" or an error kind.
	RelayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrelay_relay_requests_total",
			Help: "Relay outcomes",
		},
		[]string{"outcome"},
	)

	// UpstreamLatency records upstream call latency in seconds.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatrelay_upstream_latency_seconds",
			Help:    "Upstream latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// UpstreamTokensTotal counts tokens reported by the upstream, by direction (prompt/completion).
	UpstreamTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrelay_upstream_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		RelayRequestsTotal,
		UpstreamLatency,
		UpstreamTokensTotal,
	)
}

// ObserveUpstream records one completed upstream call and the tokens it reported.
func ObserveUpstream(provider, model string, d time.Duration, promptTokens, completionTokens int) {
	UpstreamLatency.WithLabelValues(provider, model).Observe(d.Seconds())
	if promptTokens > 0 {
		UpstreamTokensTotal.WithLabelValues(provider, model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		UpstreamTokensTotal.WithLabelValues(provider, model, "completion").Add(float64(completionTokens))
	}
}
