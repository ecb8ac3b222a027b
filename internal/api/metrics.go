package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "API requests by method, path and outcome.",
	}, []string{"method", "path", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "API request latency by method and path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

func observeRequest(method, path, outcome string, elapsed time.Duration) {
	route := routeLabel(path)
	requestsTotal.WithLabelValues(method, route, outcome).Inc()
	requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// routeLabel collapses numeric path segments so metric cardinality stays
// bounded: /products/42 and /products/7 both report as /products/:id.
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if _, err := strconv.ParseInt(segment, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
