// Package metrics registers the portal's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SectorAggregations counts sector page aggregations by outcome
	// ("ok" or "not_found").
	SectorAggregations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "municipio_sector_aggregations_total",
		Help: "Sector page aggregations by outcome",
	}, []string{"outcome"})

	// ChildFetchFailures counts child collections that failed during
	// aggregation and were served as empty lists.
	ChildFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "municipio_sector_child_fetch_failures_total",
		Help: "Child collection fetches that failed during sector aggregation",
	}, []string{"collection"})

	// Mutations counts repository writes by collection and operation.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "municipio_repository_mutations_total",
		Help: "Repository writes by collection and operation",
	}, []string{"collection", "op", "result"})

	// BackupRuns counts backup runs by origin and result.
	BackupRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "municipio_backup_runs_total",
		Help: "Backup runs by origin and result",
	}, []string{"origin", "result"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
