// Package metrics registers Prometheus collectors for the platform.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// AvailabilityMetrics exposes counters/histograms for the availability engine.
type AvailabilityMetrics struct {
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	fallbackTotal   *prometheus.CounterVec
	computeDuration prometheus.Histogram
}

func NewAvailabilityMetrics(reg prometheus.Registerer) *AvailabilityMetrics {
	m := &AvailabilityMetrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "localsight",
			Subsystem: "availability",
			Name:      "cache_hits_total",
			Help:      "Availability requests served from cache",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "localsight",
			Subsystem: "availability",
			Name:      "cache_misses_total",
			Help:      "Availability requests that recomputed the range",
		}),
		fallbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "localsight",
			Subsystem: "availability",
			Name:      "fallback_total",
			Help:      "Availability responses served by the fallback policy",
		}, []string{"reason"}),
		computeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "localsight",
			Subsystem: "availability",
			Name:      "compute_duration_seconds",
			Help:      "Time spent computing availability for a range",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.cacheHits, m.cacheMisses, m.fallbackTotal, m.computeDuration)
	return m
}

func (m *AvailabilityMetrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *AvailabilityMetrics) ObserveCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *AvailabilityMetrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbackTotal.WithLabelValues(reason).Inc()
}

func (m *AvailabilityMetrics) ObserveComputeDuration(seconds float64) {
	if m == nil {
		return
	}
	m.computeDuration.Observe(seconds)
}
