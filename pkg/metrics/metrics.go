// Package metrics provides the centralized Prometheus metrics registry for
// the Canvas client. All metrics are defined in their respective packages
// (client, cache) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the Canvas client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - canvas_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - canvas_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - canvas_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Cache Metrics (pkg/cache):
//   - canvas_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - canvas_cache_misses_total (Counter): Cache misses
//   - canvas_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - canvas_304_responses_total (Counter): 304 Not Modified responses
//   - canvas_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - canvas_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(canvas_cache_hits_total[5m])) /
//   (sum(rate(canvas_cache_hits_total[5m])) + sum(rate(canvas_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(canvas_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(canvas_request_duration_seconds_bucket[5m]))
//
//   # 304 Response Rate
//   rate(canvas_304_responses_total[5m]) / rate(canvas_requests_total[5m])
