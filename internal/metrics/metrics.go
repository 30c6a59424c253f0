// Package metrics exposes Prometheus instrumentation for import and sync
// activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors registered for the process.
type Metrics struct {
	ImportItems      *prometheus.CounterVec
	SyncRuns         *prometheus.CounterVec
	ImportInProgress prometheus.Gauge
}

// New registers the trackarr collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ImportItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trackarr_import_items_total",
			Help: "History items processed by the import engine.",
		}, []string{"kind", "result"}),
		SyncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trackarr_sync_runs_total",
			Help: "Sync and import runs by trigger and outcome.",
		}, []string{"trigger", "result"}),
		ImportInProgress: factory.NewGauge(prometheus.GaugeOpts{
			Name: "trackarr_import_in_progress",
			Help: "1 while a full import run is active.",
		}),
	}
}
