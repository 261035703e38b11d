package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ServedFileSize is the size in bytes of the files served from the root directory
	ServedFileSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "devserver_served_file_size_bytes",
		Help:    "The size in bytes of the files served from the root directory",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})

	// NotFoundTotal counts requests that could not be resolved to a file or directory
	NotFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "devserver_not_found_total",
		Help: "The total number of requests that did not resolve to anything under the root directory",
	})

	// BrowserOpenFailures counts failed attempts to open the browser at startup
	BrowserOpenFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "devserver_browser_open_failures_total",
		Help: "The total number of failed attempts to open a browser tab",
	})

	// LimitListenerMaxConns is the maximum number of connections the listener accepts concurrently
	LimitListenerMaxConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "devserver_limit_listener_max_conns",
		Help: "The maximum number of concurrent connections allowed by the HTTP listener",
	})

	// LimitListenerConcurrentConns is the number of connections currently being handled
	LimitListenerConcurrentConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "devserver_limit_listener_concurrent_conns",
		Help: "The number of concurrent connections handled by the HTTP listener",
	})

	// LimitListenerWaitingConns is the number of connections waiting for a free slot
	LimitListenerWaitingConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "devserver_limit_listener_waiting_conns",
		Help: "The number of connections waiting to be accepted by the HTTP listener",
	})
)

// MustRegister collectors with the Prometheus client
func MustRegister() {
	prometheus.MustRegister(
		ServedFileSize,
		NotFoundTotal,
		BrowserOpenFailures,
		LimitListenerMaxConns,
		LimitListenerConcurrentConns,
		LimitListenerWaitingConns,
	)
}
