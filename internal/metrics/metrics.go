// Package metrics defines and registers all custom Prometheus metrics for
// Billtab. It is the single source of truth for metric names, labels, and
// help strings; metrics register with the default registry at import time
// and are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "billtab"

// BillsCreatedTotal counts bills created.
// Label:
//   - discount: "true" when the creator-discount split policy was used
var BillsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bills_created_total",
		Help:      "Total number of bills created, by discount policy.",
	},
	[]string{"discount"},
)

// BillsDeletedTotal counts administrative bill deletions.
var BillsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bills_deleted_total",
		Help:      "Total number of bills deleted by an administrator.",
	},
)

// SharesPaidTotal counts successful unpaid→paid share transitions.
var SharesPaidTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shares_paid_total",
		Help:      "Total number of shares marked paid.",
	},
)

// RequestDuration measures HTTP request latency.
// Labels:
//   - method: HTTP method
//   - path: matched route template (e.g. "/api/bills/{id}/pay")
//   - status: response status code
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path", "status"},
)
