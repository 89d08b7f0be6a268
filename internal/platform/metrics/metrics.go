// Package metrics exposes Prometheus collectors for provider fetches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FetchMetrics counts provider fetches per facet and tracks their latency.
// A nil *FetchMetrics is valid and records nothing, so callers never need
// to guard their observation sites.
type FetchMetrics struct {
	FetchesTotal  *prometheus.CounterVec // labels: facet, provider, status
	FetchDuration *prometheus.HistogramVec
}

// NewFetchMetrics builds and registers the fetch collectors.
func NewFetchMetrics(reg prometheus.Registerer) *FetchMetrics {
	m := &FetchMetrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalpack_provider_fetches_total",
			Help: "Provider fetches per facet, by outcome.",
		}, []string{"facet", "provider", "status"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signalpack_provider_fetch_seconds",
			Help:    "Provider fetch latency per facet.",
			Buckets: prometheus.DefBuckets,
		}, []string{"facet"}),
	}
	if reg != nil {
		reg.MustRegister(m.FetchesTotal, m.FetchDuration)
	}
	return m
}

// Observe records one provider fetch.
func (m *FetchMetrics) Observe(facet, provider string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.FetchesTotal.WithLabelValues(facet, provider, status).Inc()
	m.FetchDuration.WithLabelValues(facet).Observe(d.Seconds())
}
