package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_dispatch_total",
			Help: "Send attempts by terminal status.",
		},
		[]string{"status"},
	)

	dispatchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telegram_dispatch_latency_ms",
			Help:    "End-to-end send latency distribution in milliseconds.",
			Buckets: []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
		[]string{"success"},
	)

	resolutionCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_resolution_cache_total",
			Help: "Phone resolution cache lookups by outcome.",
		},
		[]string{"outcome"}, // hit | miss | stale
	)

	sessionRebuilds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_session_rebuilds_total",
			Help: "Times a stale per-worker session was torn down and recreated.",
		},
	)
)

func init() {
	register(dispatchTotal, dispatchLatency, resolutionCache, sessionRebuilds)
}

func IncDispatch(status string) {
	dispatchTotal.WithLabelValues(status).Inc()
}

func ObserveDispatchLatency(d time.Duration, ok bool) {
	success := "false"
	if ok {
		success = "true"
	}
	dispatchLatency.WithLabelValues(success).Observe(float64(d.Milliseconds()))
}

func IncResolutionCache(outcome string) {
	resolutionCache.WithLabelValues(outcome).Inc()
}

func IncSessionRebuild() {
	sessionRebuilds.Inc()
}
