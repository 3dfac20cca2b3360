// Package metrics provides Prometheus metrics for the ingestion pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every registered collector.
type Metrics struct {
	// IngestRunsTotal counts ingestion runs by final status (ok/skipped/failed).
	IngestRunsTotal *prometheus.CounterVec
	// StageDuration observes per-stage latency in seconds.
	StageDuration *prometheus.HistogramVec
	// DocumentProbesTotal counts info-table candidate probes by outcome.
	DocumentProbesTotal *prometheus.CounterVec
	// HoldingsStoredTotal counts rows written to the holdings table.
	HoldingsStoredTotal prometheus.Counter
}

var (
	once sync.Once
	def  *Metrics
)

// Default returns the process-wide metrics, registering them on first use.
func Default() *Metrics {
	once.Do(func() {
		def = &Metrics{
			IngestRunsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "overthehedge_ingest_runs_total",
					Help: "Total ingestion runs by final status",
				},
				[]string{"status"},
			),
			StageDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "overthehedge_ingest_stage_duration_seconds",
					Help:    "Duration of each ingestion stage in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"stage"},
			),
			DocumentProbesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "overthehedge_document_probes_total",
					Help: "Info table document probes by outcome",
				},
				[]string{"outcome"},
			),
			HoldingsStoredTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "overthehedge_holdings_stored_total",
					Help: "Holdings rows written to the store",
				},
			),
		}
	})
	return def
}
