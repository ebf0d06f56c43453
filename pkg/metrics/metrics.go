// Package metrics exposes the Prometheus metrics of the SWAPI client.
// Metrics are defined next to the code that records them (pkg/client) and
// registered via promauto on the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the SWAPI client.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer paired with Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves every registered metric in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - swapi_requests_total{resource, status} (Counter): requests by collection and HTTP status
//     ("network_error" when no response was received)
//   - swapi_request_duration_seconds{resource} (Histogram): round trip duration
//   - swapi_errors_total{resource} (Counter): failed requests (transport or non-2xx)
//
// Example Prometheus Queries:
//
//   # Error Rate
//   sum(rate(swapi_errors_total[5m])) / sum(rate(swapi_requests_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(swapi_request_duration_seconds_bucket[5m]))
