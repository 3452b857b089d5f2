package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/turtacn/claimctl/internal/domain/service"
)

// Metrics manages the Prometheus metrics of one run. A private registry is used so that only
// claimctl's own series end up in the textfile.
type Metrics struct {
	registry           *prometheus.Registry
	ClaimUpdates       *prometheus.CounterVec
	ClaimUpdateLatency *prometheus.HistogramVec
	CredentialLoads    *prometheus.CounterVec
	LastRunTimestamp   prometheus.Gauge
}

var _ service.Metrics = (*Metrics)(nil)

// NewMetrics creates and registers the Prometheus metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ClaimUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "claimctl_claim_updates_total",
				Help: "Total number of custom claim updates by outcome.",
			},
			[]string{"claim", "result", "error_code"},
		),
		ClaimUpdateLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "claimctl_claim_update_duration_seconds",
				Help:    "Duration of custom claim updates, credential load included.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"claim"},
		),
		CredentialLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "claimctl_credential_loads_total",
				Help: "Total number of credential loads by source and outcome.",
			},
			[]string{"source", "result"},
		),
		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "claimctl_last_run_timestamp_seconds",
				Help: "Unix time of the last claim update attempt.",
			},
		),
	}
	reg.MustRegister(m.ClaimUpdates, m.ClaimUpdateLatency, m.CredentialLoads, m.LastRunTimestamp)
	return m
}

// RecordClaimUpdate records metrics for one claim update.
func (m *Metrics) RecordClaimUpdate(claim string, success bool, duration time.Duration, errorCode string) {
	if errorCode == "" {
		errorCode = "none"
	}
	m.ClaimUpdates.WithLabelValues(claim, resultLabel(success), errorCode).Inc()
	m.ClaimUpdateLatency.WithLabelValues(claim).Observe(duration.Seconds())
	m.LastRunTimestamp.SetToCurrentTime()
}

// RecordCredentialLoad records one credential load.
func (m *Metrics) RecordCredentialLoad(source string, success bool) {
	m.CredentialLoads.WithLabelValues(source, resultLabel(success)).Inc()
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
