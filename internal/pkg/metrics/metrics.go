// Package metrics defines and registers all custom Prometheus metrics for the
// experts API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "experts"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests refused by the auth guard.
// Label:
//   - reason: "no_token" or "invalid_token"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the auth guard.",
	},
	[]string{"reason"},
)

// OwnershipDenialsTotal counts mutations refused because the caller does not
// own the target resource.
var OwnershipDenialsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ownership_denials_total",
		Help:      "Total number of mutations rejected with not_owner.",
	},
)

// ── Asset metrics ─────────────────────────────────────────────────────────────

// AssetUploadsTotal counts uploads to remote storage.
// Label:
//   - result: "ok" or "error"
var AssetUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "asset_uploads_total",
		Help:      "Total number of asset uploads, labelled by result.",
	},
	[]string{"result"},
)

// AssetUploadDuration measures round-trip time of a single upload.
var AssetUploadDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "asset_upload_duration_seconds",
		Help:      "Duration of asset uploads to remote storage.",
		Buckets:   prometheus.DefBuckets,
	},
)

// AssetDeletesTotal counts deletions sent to remote storage.
// Label:
//   - result: "ok" or "error"
var AssetDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "asset_deletes_total",
		Help:      "Total number of asset deletions, labelled by result.",
	},
	[]string{"result"},
)

// OrphansRecordedTotal counts stored objects whose deletion failed and were
// queued for the sweeper.
var OrphansRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphans_recorded_total",
		Help:      "Total number of stored objects recorded as orphans.",
	},
)

// OrphansSweptTotal counts sweeper outcomes.
// Label:
//   - result: "deleted" or "requeued"
var OrphansSweptTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphans_swept_total",
		Help:      "Total number of orphan sweep attempts, labelled by result.",
	},
	[]string{"result"},
)

// Result turns an error into the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
