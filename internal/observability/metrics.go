package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scriptrunner",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scriptrunner",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	registrySize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "scriptrunner",
		Subsystem: "registry",
		Name:      "scripts",
		Help:      "Number of scripts in the most recent registry snapshot.",
	})
	gateInUse = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "scriptrunner",
		Subsystem: "gate",
		Name:      "permits_in_use",
		Help:      "Concurrency gate permits currently held.",
	})
	gateCapacity = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "scriptrunner",
		Subsystem: "gate",
		Name:      "permits_total",
		Help:      "Concurrency gate total permits.",
	})
	cacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "scriptrunner",
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Number of entries held in the execution cache.",
	})
)

// RegisterMetrics registers the collectors exactly once, safe to call from
// multiple goroutines or multiple server instances in tests.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, registrySize, gateInUse, gateCapacity, cacheEntries)
	})
}

// RecordHTTPRequest updates the request counter and latency histogram.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// SetRegistrySize publishes the current registry snapshot size.
func SetRegistrySize(n int) {
	registrySize.Set(float64(n))
}

// SetGateUtilization publishes the concurrency gate's current usage.
func SetGateUtilization(inUse, capacity int) {
	gateInUse.Set(float64(inUse))
	gateCapacity.Set(float64(capacity))
}

// SetCacheEntries publishes the current cache size.
func SetCacheEntries(n int) {
	cacheEntries.Set(float64(n))
}
