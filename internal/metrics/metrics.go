// Package metrics exposes prometheus collectors for the registry layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CacheRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{Name: "registry_cache_refreshes_total", Help: "Snapshot refreshes applied"},
	)
	CacheRefreshFailures = promauto.NewCounter(
		prometheus.CounterOpts{Name: "registry_cache_refresh_failures_total", Help: "Snapshot refreshes that failed"},
	)
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{Name: "registry_cache_hits_total", Help: "Reads served from a fresh snapshot"},
	)
	SnapshotCampaigns = promauto.NewGauge(
		prometheus.GaugeOpts{Name: "registry_snapshot_campaigns", Help: "Campaigns in the held snapshot"},
	)
	LedgerWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "registry_ledger_writes_total", Help: "Write invocations by operation and outcome"},
		[]string{"operation", "outcome"},
	)
	AuthorizationChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "registry_authorization_checks_total", Help: "Authorization checks by outcome"},
		[]string{"outcome"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registry_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Handler returns the prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
