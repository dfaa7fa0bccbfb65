// Package metrics holds Prometheus instruments that are used across the
// edge router.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RoutingDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_routing_decisions_total",
			Help: "Routing decisions by kind (pass_through, rewrite, redirect, tenant_not_found).",
		},
		[]string{"kind"})

	DirectoryLookupTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "edge_directory_lookup_total",
			Help: "Cumulative number of tenant-directory lookups that hit the database.",
		})

	DirectoryLookupErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "edge_directory_lookup_errors_total",
			Help: "Cumulative number of failed tenant-directory lookups (not-found excluded).",
		})

	DirectoryCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "edge_directory_cache_entries",
			Help: "Number of tenant records currently held by the read-through cache.",
		})

	DirectoryCacheEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "edge_directory_cache_evict_total",
			Help: "Cumulative number of tenant records evicted from the cache.",
		})
)

func init() {
	prometheus.MustRegister(
		RoutingDecisionsTotal,
		DirectoryLookupTotal,
		DirectoryLookupErrorsTotal,
		DirectoryCacheEntries,
		DirectoryCacheEvictTotal,
	)
}
