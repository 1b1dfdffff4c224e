package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestAvailabilityMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAvailabilityMetrics(reg)
	m.ObserveCacheHit()
	m.ObserveCacheMiss()
	m.ObserveFallback("not_configured")
	m.ObserveComputeDuration(0.02)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(families))
	}
}

func TestAvailabilityMetricsNilSafe(t *testing.T) {
	var m *AvailabilityMetrics
	m.ObserveCacheHit()
	m.ObserveCacheMiss()
	m.ObserveFallback("error")
	m.ObserveComputeDuration(0.1)
}
