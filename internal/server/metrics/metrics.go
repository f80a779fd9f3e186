// Package metrics holds the Prometheus collectors of the token provider.
// Collectors register with the default registry and are served on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	IssuanceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenprovider_issuance_total",
		Help: "Credential pair issuance attempts by operation and outcome",
	}, []string{"op", "outcome"})

	RenewalResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenprovider_renewal_resolutions_total",
		Help: "Renewal token resolutions by result (reused, rotated, minted)",
	}, []string{"result"})

	ValidationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenprovider_validation_total",
		Help: "Access token validations by result",
	}, []string{"result"})

	StoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tokenprovider_store_duration_seconds",
		Help:    "Time spent in renewal store operations",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2.0, 12), // 0.5ms to ~1s
	}, []string{"op"})

	PurgedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenprovider_renewal_purged_total",
		Help: "Expired renewal records deleted by the sweeper",
	})
)

// ObserveStore records the duration of a store operation started at start.
//
//	defer metrics.ObserveStore("find", time.Now())
func ObserveStore(op string, start time.Time) {
	StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// CountIssuance records an issuance attempt.
func CountIssuance(op string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	IssuanceTotal.WithLabelValues(op, outcome).Inc()
}
