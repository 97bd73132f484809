package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	SnapshotLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tapulse",
			Subsystem: "snapshot",
			Name:      "latency_seconds",
			Help:      "Latency of snapshot endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	SnapshotErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tapulse",
			Subsystem: "snapshot",
			Name:      "errors_total",
			Help:      "Errors by snapshot endpoint",
		},
		[]string{"endpoint"},
	)

	SnapshotCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tapulse",
			Subsystem: "snapshot",
			Name:      "cache_hits_total",
			Help:      "Snapshot cache hits and misses",
		},
		[]string{"result"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(SnapshotLatency, SnapshotErrors, SnapshotCacheHits)
	})
}
